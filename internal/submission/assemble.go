package submission

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
)

var descriptionPolicy = newDescriptionPolicy()

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// assemble builds the create-product body from a snapshot and its encoded images.
func assemble(snap draft.Snapshot, encoded map[imageKey]string, multiDiscount bool) ProductPayload {
	payload := ProductPayload{
		Name:        strings.TrimSpace(snap.General.Name),
		Description: descriptionPolicy.Sanitize(strings.TrimSpace(snap.General.Description)),
		BrandID:     snap.General.BrandID,
		CategoryID:  snap.General.CategoryID,
		StyleID:     snap.General.StyleID,
		MaterialID:  snap.General.MaterialID,
		OriginID:    snap.General.OriginID,
	}

	galleries := make(map[string][]ImagePayload, len(snap.SelectedColorIDs))
	for _, colorID := range snap.SelectedColorIDs {
		images := make([]ImagePayload, 0, len(snap.Galleries[colorID]))
		for i, img := range snap.Galleries[colorID] {
			data := encoded[imageKey{colorID: colorID, index: i}]
			images = append(images, ImagePayload{Data: data, IsDefault: img.IsDefault})
			if img.IsDefault {
				payload.DefaultImage = data
			}
		}
		galleries[colorID] = images
	}

	variants := snap.FlatList()
	payload.Variants = make([]VariantPayload, 0, len(variants))
	for _, v := range variants {
		item := VariantPayload{
			ColorID:   v.ColorID,
			SizeID:    v.SizeID,
			Stock:     v.Stock,
			CostPrice: v.CostPrice,
			SellPrice: v.SellPrice,
			Images:    galleries[v.ColorID],
		}
		if len(v.DiscountIDs) > 0 {
			first := v.DiscountIDs[0]
			item.DiscountID = &first
			if multiDiscount {
				item.DiscountIDs = append([]string(nil), v.DiscountIDs...)
			}
		}
		payload.Variants = append(payload.Variants, item)
	}
	return payload
}
