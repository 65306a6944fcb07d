package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func palette() *catalog.Palette {
	active := enums.OptionStatusActive
	return &catalog.Palette{
		Colors: []catalog.Option{{ID: "red", Name: "Red", Status: active}, {ID: "blue", Name: "Blue", Status: active}},
		Sizes:  []catalog.Option{{ID: "s", Name: "S", Status: active}, {ID: "m", Name: "M", Status: active}},
		Discounts: []catalog.Discount{
			{ID: "old", Code: "OLD", ValidTo: fixedNow.Add(-time.Hour)},
			{ID: "live", Code: "LIVE", ValidTo: fixedNow.Add(time.Hour)},
		},
	}
}

func ptr(s string) *string { return &s }

// singleVariantDraft builds red/s with one image and a cover, every general field set.
func singleVariantDraft(t *testing.T) *draft.Store {
	t.Helper()
	digester, err := media.NewDigester("sha256")
	require.NoError(t, err)
	store, err := draft.NewStore(draft.StoreParams{Palette: palette(), Digester: digester})
	require.NoError(t, err)

	require.NoError(t, store.UpdateGeneral(draft.GeneralPatch{
		Name:        ptr("Trail Jacket"),
		Description: ptr("Waterproof shell"),
		BrandID:     ptr("brand-1"),
		CategoryID:  ptr("cat-1"),
		StyleID:     ptr("style-1"),
		MaterialID:  ptr("mat-1"),
		OriginID:    ptr("origin-1"),
	}))
	_, err = store.ToggleColor("red")
	require.NoError(t, err)
	_, err = store.ToggleSize("red", "s")
	require.NoError(t, err)
	_, err = store.AddImages(t.Context(), "red", []media.File{{Name: "red.png", Data: []byte("\x89PNG\r\n\x1a\nred")}})
	require.NoError(t, err)
	require.NoError(t, store.SetDefaultCover("red.png"))
	return store
}

func setCell(t *testing.T, store *draft.Store, colorID, sizeID, stock, cost, sell string) {
	t.Helper()
	require.NoError(t, store.SetCellField(colorID, sizeID, enums.CellFieldStock, stock))
	require.NoError(t, store.SetCellField(colorID, sizeID, enums.CellFieldCostPrice, cost))
	require.NoError(t, store.SetCellField(colorID, sizeID, enums.CellFieldSellPrice, sell))
}

func TestZeroValuesYieldThreeCellErrors(t *testing.T) {
	store := singleVariantDraft(t)
	engine := NewEngine(func() time.Time { return fixedNow })

	errs := engine.Validate(store.Snapshot())
	require.Len(t, errs, 3, "got %v", errs)
	assert.Contains(t, errs, "red_s_stock")
	assert.Contains(t, errs, "red_s_costPrice")
	assert.Contains(t, errs, "red_s_sellPrice")

	setCell(t, store, "red", "s", "1", "2", "3")
	assert.True(t, engine.Validate(store.Snapshot()).Empty())
}

func TestEmptyDraftCollectsGeneralErrors(t *testing.T) {
	digester, _ := media.NewDigester("sha256")
	store, err := draft.NewStore(draft.StoreParams{Digester: digester})
	require.NoError(t, err)
	require.NoError(t, store.UpdateGeneral(draft.GeneralPatch{Name: ptr("   ")}))

	errs := NewEngine(nil).Validate(store.Snapshot())
	for _, key := range []string{"productName", "description", "brand", "style", "material", "origin", "category", "defaultImage", "colors"} {
		assert.Contains(t, errs, key)
	}
	assert.Equal(t, "Product name is required", errs["productName"])
	assert.Equal(t, "productName", errs.FirstField(store.Snapshot()))
	assert.Equal(t, "Product name is required", errs.FirstMessage(store.Snapshot()))
}

func TestNameLengthLimit(t *testing.T) {
	store := singleVariantDraft(t)
	setCell(t, store, "red", "s", "1", "1", "1")
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	require.NoError(t, store.UpdateGeneral(draft.GeneralPatch{Name: ptr(string(long))}))

	errs := NewEngine(nil).Validate(store.Snapshot())
	assert.Equal(t, "Product name must be at most 255 characters", errs["productName"])
}

func TestColorStructureRules(t *testing.T) {
	store := singleVariantDraft(t)
	setCell(t, store, "red", "s", "1", "1", "1")
	_, err := store.ToggleColor("blue")
	require.NoError(t, err)

	snap := store.Snapshot()
	errs := NewEngine(nil).Validate(snap)
	assert.Equal(t, "Select at least one size for Blue", errs["blue_sizes"])
	assert.Equal(t, "Add at least one image for Blue", errs["blue_images"])
	assert.Equal(t, "blue_sizes", errs.FirstField(snap))

	_, err = store.ToggleSize("blue", "")
	require.NoError(t, err)
	errs = NewEngine(nil).Validate(store.Snapshot())
	assert.Contains(t, errs, "blue__size")
	assert.NotContains(t, errs, "blue_sizes")
}

func TestExpiredDiscountIsFlagged(t *testing.T) {
	store := singleVariantDraft(t)
	setCell(t, store, "red", "s", "1", "1", "1")
	engine := NewEngine(func() time.Time { return fixedNow })

	require.NoError(t, store.AddDiscount("red", "s", "live"))
	assert.True(t, engine.Validate(store.Snapshot()).Empty())

	require.NoError(t, store.AddDiscount("red", "s", "old"))
	errs := engine.Validate(store.Snapshot())
	assert.Equal(t, "Discount OLD has expired for Red / S", errs["red_s_discountIds"])
}

func TestFirstFieldFollowsDraftOrder(t *testing.T) {
	store := singleVariantDraft(t)
	_, err := store.ToggleSize("red", "m")
	require.NoError(t, err)
	setCell(t, store, "red", "s", "1", "1", "1")
	setCell(t, store, "red", "m", "1", "0", "0")

	snap := store.Snapshot()
	errs := NewEngine(nil).Validate(snap)
	require.Len(t, errs, 2)
	assert.Equal(t, "red_m_costPrice", errs.FirstField(snap))

	errs["description"] = "Description is required"
	assert.Equal(t, "description", errs.FirstField(snap))

	unknown := ErrorMap{"zzz": "b", "aaa": "a"}
	assert.Equal(t, "aaa", unknown.FirstField(snap))
	assert.Equal(t, "", ErrorMap{}.FirstField(snap))
}
