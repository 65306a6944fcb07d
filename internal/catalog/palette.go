package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
)

// Palette is the immutable reference data one draft is built against.
type Palette struct {
	Colors    []Option
	Sizes     []Option
	Discounts []Discount
}

// LoadPalette fetches colors, sizes and discounts concurrently.
func LoadPalette(ctx context.Context, fetcher Fetcher) (Palette, error) {
	if fetcher == nil {
		return Palette{}, fmt.Errorf("catalog fetcher required")
	}
	var palette Palette
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		colors, err := fetcher.FetchOptions(gctx, enums.OptionKindColor)
		if err != nil {
			return fmt.Errorf("load colors: %w", err)
		}
		palette.Colors = colors
		return nil
	})
	g.Go(func() error {
		sizes, err := fetcher.FetchOptions(gctx, enums.OptionKindSize)
		if err != nil {
			return fmt.Errorf("load sizes: %w", err)
		}
		palette.Sizes = sizes
		return nil
	})
	g.Go(func() error {
		discounts, err := fetcher.FetchDiscounts(gctx)
		if err != nil {
			return fmt.Errorf("load discounts: %w", err)
		}
		palette.Discounts = discounts
		return nil
	})
	if err := g.Wait(); err != nil {
		return Palette{}, err
	}
	return palette, nil
}

// Color looks up a color option by id.
func (p Palette) Color(id string) (Option, bool) {
	return findOption(p.Colors, id)
}

// Size looks up a size option by id.
func (p Palette) Size(id string) (Option, bool) {
	return findOption(p.Sizes, id)
}

// Discount looks up a discount by id.
func (p Palette) Discount(id string) (Discount, bool) {
	for _, d := range p.Discounts {
		if d.ID == id {
			return d, true
		}
	}
	return Discount{}, false
}

func findOption(options []Option, id string) (Option, bool) {
	for _, opt := range options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
