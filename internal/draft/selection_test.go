package draft

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

func TestNewStoreRequiresDigester(t *testing.T) {
	if _, err := NewStore(StoreParams{}); err == nil {
		t.Fatal("expected error without digester")
	}
}

func TestToggleColorAddsAndRemoves(t *testing.T) {
	store := newTestStore(t, testPalette())

	selected, err := store.ToggleColor("red")
	if err != nil || !selected {
		t.Fatalf("expected red selected, got %v %v", selected, err)
	}
	if store.ActiveColor() != "red" {
		t.Fatalf("expected red to become the active tab, got %q", store.ActiveColor())
	}

	selected, err = store.ToggleColor("red")
	if err != nil || selected {
		t.Fatalf("expected red removed, got %v %v", selected, err)
	}
	if len(store.SelectedColors()) != 0 || store.ActiveColor() != "" {
		t.Fatalf("expected empty selection, got %v active=%q", store.SelectedColors(), store.ActiveColor())
	}
}

func TestToggleColorRejectsUnknownAndInactive(t *testing.T) {
	store := newTestStore(t, testPalette())

	if _, err := store.ToggleColor("purple"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.ToggleColor("black"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for inactive color, got %v", err)
	}
	if len(store.SelectedColors()) != 0 {
		t.Fatal("rejected colors must not be selected")
	}
}

func TestToggleColorWithoutPaletteSkipsChecks(t *testing.T) {
	store := newTestStore(t, nil)
	mustToggleColor(t, store, "anything")
	mustToggleSize(t, store, "anything", "free")
	if _, ok := store.Cell("anything", "free"); !ok {
		t.Fatal("expected cell without catalog checks")
	}
}

func TestRemoveColorCascades(t *testing.T) {
	store := newTestStore(t, testPalette())
	mustToggleColor(t, store, "red")
	mustToggleColor(t, store, "blue")
	mustToggleSize(t, store, "red", "s")
	mustToggleSize(t, store, "red", "m")
	mustToggleSize(t, store, "blue", "s")

	if _, err := store.AddImages(t.Context(), "red", []media.File{pngFile("red.png", 1)}); err != nil {
		t.Fatalf("AddImages: %v", err)
	}
	if err := store.SetDefaultCover("red.png"); err != nil {
		t.Fatalf("SetDefaultCover: %v", err)
	}
	store.ReplaceErrors(map[string]string{
		"red_s_stock":  "required",
		"red_images":   "required",
		"blue_s_stock": "required",
	})

	mustToggleColor(t, store, "red")

	snap := store.Snapshot()
	if _, ok := snap.SizesByColor["red"]; ok {
		t.Fatal("expected red sizes to be removed")
	}
	for _, cell := range snap.Cells {
		if cell.ColorID == "red" {
			t.Fatalf("unexpected red cell %+v", cell)
		}
	}
	if snap.ImageCount("red") != 0 {
		t.Fatal("expected red gallery to be removed")
	}
	if _, ok := snap.DefaultCover(); ok {
		t.Fatal("expected cover to go with the red gallery")
	}
	if _, ok := snap.Errors["red_s_stock"]; ok {
		t.Fatal("expected red error annotations to be dropped")
	}
	if _, ok := snap.Errors["blue_s_stock"]; !ok {
		t.Fatal("blue annotations must survive")
	}
	if store.Sizes("blue")[0] != "s" {
		t.Fatal("blue sizes must survive")
	}
}

func TestRemoveColorKeepsErrorsOfColorSharingPrefix(t *testing.T) {
	store := newTestStore(t, nil)
	mustToggleColor(t, store, "red")
	mustToggleColor(t, store, "red_dark")
	mustToggleSize(t, store, "red", "s")
	mustToggleSize(t, store, "red_dark", "s")
	store.ReplaceErrors(map[string]string{
		"red_images":           "required",
		"red_s_stock":          "required",
		"red_dark_images":      "required",
		"red_dark_s_stock":     "required",
		"red_dark_s_size":      "required",
		"red_dark_s_sellPrice": "required",
	})

	mustToggleColor(t, store, "red")

	errs := store.Errors()
	for _, key := range []string{"red_images", "red_s_stock"} {
		if _, ok := errs[key]; ok {
			t.Fatalf("expected %s to be dropped, errors=%v", key, errs)
		}
	}
	for _, key := range []string{"red_dark_images", "red_dark_s_stock", "red_dark_s_size", "red_dark_s_sellPrice"} {
		if _, ok := errs[key]; !ok {
			t.Fatalf("removing red dropped %s of still-selected red_dark, errors=%v", key, errs)
		}
	}
}

func TestRemoveSizeKeepsErrorsOfSizeSharingPrefix(t *testing.T) {
	store := newTestStore(t, nil)
	mustToggleColor(t, store, "red")
	mustToggleSize(t, store, "red", "s")
	mustToggleSize(t, store, "red", "s_x")
	store.ReplaceErrors(map[string]string{
		"red_s_stock":   "required",
		"red_s_x_stock": "required",
		"red_s_x_size":  "required",
	})

	mustToggleSize(t, store, "red", "s")

	errs := store.Errors()
	if _, ok := errs["red_s_stock"]; ok {
		t.Fatalf("expected red_s_stock to be dropped, errors=%v", errs)
	}
	for _, key := range []string{"red_s_x_stock", "red_s_x_size"} {
		if _, ok := errs[key]; !ok {
			t.Fatalf("removing size s dropped %s, errors=%v", key, errs)
		}
	}
}

func TestRemoveActiveColorMovesTab(t *testing.T) {
	store := newTestStore(t, testPalette())
	mustToggleColor(t, store, "red")
	mustToggleColor(t, store, "blue")
	mustToggleColor(t, store, "green")

	if err := store.SetActiveColor("blue"); err != nil {
		t.Fatalf("SetActiveColor: %v", err)
	}
	mustToggleColor(t, store, "blue")
	if got := store.ActiveColor(); got != "green" {
		t.Fatalf("expected the following color to become active, got %q", got)
	}

	mustToggleColor(t, store, "green")
	if got := store.ActiveColor(); got != "red" {
		t.Fatalf("expected the new last color to become active, got %q", got)
	}

	mustToggleColor(t, store, "red")
	if got := store.ActiveColor(); got != "" {
		t.Fatalf("expected empty active tab, got %q", got)
	}
	if err := store.SetActiveColor("red"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unselected color, got %v", err)
	}
}

func TestToggleSizeRules(t *testing.T) {
	store := newTestStore(t, testPalette())

	if _, err := store.ToggleSize("red", "s"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unselected color, got %v", err)
	}
	mustToggleColor(t, store, "red")
	if _, err := store.ToggleSize("red", "xxl"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected inactive size rejection, got %v", err)
	}
	if _, err := store.ToggleSize("red", "nope"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected unknown size rejection, got %v", err)
	}
	mustToggleSize(t, store, "red", "")
	if _, ok := store.Cell("red", ""); !ok {
		t.Fatal("expected a cell for the unchosen slot")
	}
}

func TestReaddedSizeStartsZeroed(t *testing.T) {
	store := newTestStore(t, testPalette())
	mustToggleColor(t, store, "red")
	mustToggleSize(t, store, "red", "s")
	if err := store.SetCellField("red", "s", enums.CellFieldStock, "7"); err != nil {
		t.Fatalf("SetCellField: %v", err)
	}

	mustToggleSize(t, store, "red", "s")
	if _, ok := store.Cell("red", "s"); ok {
		t.Fatal("expected cell to be dropped with its size")
	}
	mustToggleSize(t, store, "red", "s")
	cell, ok := store.Cell("red", "s")
	if !ok || cell.Stock != 0 {
		t.Fatalf("expected zeroed cell, got %+v ok=%v", cell, ok)
	}
}

func TestReconciliationUnderRandomToggles(t *testing.T) {
	colors := []string{"red", "blue", "green"}
	sizes := []string{"s", "m", "l", ""}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		store := newTestStore(t, testPalette())
		for step := 0; step < 200; step++ {
			colorID := colors[rng.Intn(len(colors))]
			if rng.Intn(3) == 0 {
				mustToggleColor(t, store, colorID)
			} else if slices.Contains(store.SelectedColors(), colorID) {
				mustToggleSize(t, store, colorID, sizes[rng.Intn(len(sizes))])
			}
			assertCellsMatchSelection(t, store.Snapshot())
		}
	}
}

func assertCellsMatchSelection(t *testing.T, snap Snapshot) {
	t.Helper()
	want := map[CellKey]bool{}
	for _, colorID := range snap.SelectedColorIDs {
		for _, sizeID := range snap.SizesByColor[colorID] {
			want[CellKey{ColorID: colorID, SizeID: sizeID}] = true
		}
	}
	if len(want) != len(snap.Cells) {
		t.Fatalf("expected %d cells, got %d", len(want), len(snap.Cells))
	}
	for _, cell := range snap.Cells {
		if !want[cell.Key()] {
			t.Fatalf("orphan cell %+v", cell.Key())
		}
	}
}

func TestSubscribersSeeMutationsAfterUnlock(t *testing.T) {
	store := newTestStore(t, testPalette())
	var events []Event
	cancel := store.Subscribe(func(e Event) {
		// reading inside the callback must not deadlock
		_ = store.SelectedColors()
		events = append(events, e)
	})

	mustToggleColor(t, store, "red")
	if _, err := store.ToggleColor("purple"); err == nil {
		t.Fatal("expected failure")
	}
	store.ReplaceErrors(map[string]string{"colors": "x"})
	cancel()
	mustToggleColor(t, store, "blue")

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if !events[0].IsMutation() || events[0].Kind != EventSelection || events[0].ColorID != "red" {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].IsMutation() {
		t.Fatal("error replacement is not a draft mutation")
	}
}

func TestUpdateGeneralClearsTouchedErrors(t *testing.T) {
	store := newTestStore(t, nil)
	store.ReplaceErrors(map[string]string{FieldProductName: "required", FieldBrand: "required"})

	name := "Trail Jacket"
	if err := store.UpdateGeneral(GeneralPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateGeneral: %v", err)
	}
	errs := store.Errors()
	if _, ok := errs[FieldProductName]; ok {
		t.Fatal("expected productName error cleared")
	}
	if _, ok := errs[FieldBrand]; !ok {
		t.Fatal("expected brand error kept")
	}
	if store.Snapshot().General.Name != name {
		t.Fatal("expected name applied")
	}
}
