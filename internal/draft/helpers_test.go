package draft

import (
	"testing"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifHeader = []byte("GIF89a")
)

func pngFile(name string, seed byte) media.File {
	data := append([]byte{}, pngHeader...)
	data = append(data, seed, seed, seed, seed)
	return media.File{Name: name, Data: data}
}

func gifFile(name string, seed byte) media.File {
	data := append([]byte{}, gifHeader...)
	data = append(data, seed, seed, seed, seed)
	return media.File{Name: name, Data: data}
}

func testPalette() *catalog.Palette {
	active := enums.OptionStatusActive
	return &catalog.Palette{
		Colors: []catalog.Option{
			{ID: "red", Name: "Red", Status: active},
			{ID: "blue", Name: "Blue", Status: active},
			{ID: "green", Name: "Green", Status: active},
			{ID: "black", Name: "Black", Status: enums.OptionStatusInactive},
		},
		Sizes: []catalog.Option{
			{ID: "s", Name: "S", Status: active},
			{ID: "m", Name: "M", Status: active},
			{ID: "l", Name: "L", Status: active},
			{ID: "xxl", Name: "XXL", Status: enums.OptionStatusInactive},
		},
		Discounts: []catalog.Discount{
			{ID: "summer", Code: "SUMMER", Name: "Summer", Kind: enums.DiscountKindPercent},
			{ID: "vip", Code: "VIP", Name: "VIP", Kind: enums.DiscountKindFixed},
		},
	}
}

func newTestStore(t *testing.T, palette *catalog.Palette) *Store {
	t.Helper()
	digester, err := media.NewDigester("sha256")
	if err != nil {
		t.Fatalf("digester: %v", err)
	}
	store, err := NewStore(StoreParams{
		ID:                "draft-1",
		Palette:           palette,
		Digester:          digester,
		Inspector:         media.NewDataURICodec(1024),
		DigestConcurrency: 2,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func mustToggleColor(t *testing.T, store *Store, colorID string) {
	t.Helper()
	if _, err := store.ToggleColor(colorID); err != nil {
		t.Fatalf("ToggleColor(%s): %v", colorID, err)
	}
}

func mustToggleSize(t *testing.T, store *Store, colorID, sizeID string) {
	t.Helper()
	if _, err := store.ToggleSize(colorID, sizeID); err != nil {
		t.Fatalf("ToggleSize(%s, %s): %v", colorID, sizeID, err)
	}
}
