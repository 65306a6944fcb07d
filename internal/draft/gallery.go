package draft

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

const (
	ReasonDuplicateName    = "duplicate name"
	ReasonDuplicateContent = "duplicate content"
)

// ImageConflict describes why an upload batch was rejected.
type ImageConflict struct {
	File            string `json:"file"`
	Reason          string `json:"reason"`
	ExistingColorID string `json:"existing_color_id,omitempty"`
}

// AddImages appends files to a color's gallery. Names and content digests are
// checked against every image in the draft and within the batch; any conflict
// rejects the whole batch. Hashing runs before the store lock is taken.
func (s *Store) AddImages(ctx context.Context, colorID string, files []media.File) ([]Image, error) {
	var (
		digests   []string
		digestErr error
	)
	if len(files) > 0 {
		digests, digestErr = media.DigestAll(ctx, s.digester, files, s.digestConcurrency)
	}

	var added []Image
	err := s.mutate(Event{Kind: EventGallery, ColorID: colorID}, func() error {
		if !slices.Contains(s.colors, colorID) {
			return notFound("color %s is not selected", colorID)
		}
		if len(files) == 0 {
			return invalid(ImagesKey(colorID), "at least one image is required")
		}

		names := make(map[string]string)
		for owner, gallery := range s.galleries {
			for _, img := range gallery {
				names[img.Name()] = owner
			}
		}
		for _, file := range files {
			if file.Name == "" {
				return invalid(ImagesKey(colorID), "file name is required")
			}
			if owner, ok := names[file.Name]; ok {
				return conflict(file.Name, ReasonDuplicateName, owner)
			}
			names[file.Name] = colorID
		}

		if digestErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, digestErr, "failed to digest images")
		}
		owners := make(map[string]string)
		for owner, gallery := range s.galleries {
			for _, img := range gallery {
				owners[img.Digest] = owner
			}
		}
		for i, file := range files {
			if owner, ok := owners[digests[i]]; ok {
				return conflict(file.Name, ReasonDuplicateContent, owner)
			}
			owners[digests[i]] = colorID
		}

		if s.inspector != nil {
			for _, file := range files {
				if err := s.inspector.Inspect(file); err != nil {
					if typed := pkgerrors.As(err); typed != nil {
						return typed.WithDetails(map[string]string{ImagesKey(colorID): typed.Message()})
					}
					return err
				}
			}
		}

		added = make([]Image, 0, len(files))
		for i, file := range files {
			added = append(added, Image{ID: uuid.NewString(), File: file, Digest: digests[i]})
		}
		s.galleries[colorID] = append(s.galleries[colorID], added...)
		delete(s.errors, ImagesKey(colorID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveImage drops one entry. A removed cover leaves the default unset.
func (s *Store) RemoveImage(colorID, fileName string) error {
	return s.mutate(Event{Kind: EventGallery, ColorID: colorID}, func() error {
		gallery := s.galleries[colorID]
		idx := slices.IndexFunc(gallery, func(img Image) bool { return img.Name() == fileName })
		if idx < 0 {
			return notFound("image %s not found for color %s", fileName, colorID)
		}
		s.galleries[colorID] = slices.Delete(gallery, idx, idx+1)
		return nil
	})
}

// ReorderImages moves the image at from to position to, keeping the others in order.
func (s *Store) ReorderImages(colorID string, from, to int) error {
	return s.mutate(Event{Kind: EventGallery, ColorID: colorID}, func() error {
		if !slices.Contains(s.colors, colorID) {
			return notFound("color %s is not selected", colorID)
		}
		gallery := s.galleries[colorID]
		if from < 0 || from >= len(gallery) || to < 0 || to >= len(gallery) {
			return invalid(ImagesKey(colorID), fmt.Sprintf("cannot move image %d to %d in a gallery of %d", from, to, len(gallery)))
		}
		img := gallery[from]
		gallery = slices.Delete(gallery, from, from+1)
		s.galleries[colorID] = slices.Insert(gallery, to, img)
		return nil
	})
}

// SetDefaultCover marks fileName as the product cover and unsets any previous one.
func (s *Store) SetDefaultCover(fileName string) error {
	return s.mutate(Event{Kind: EventGallery}, func() error {
		found := false
		for _, gallery := range s.galleries {
			for _, img := range gallery {
				if img.Name() == fileName {
					found = true
				}
			}
		}
		if !found {
			return notFound("image %s not found", fileName)
		}
		for _, gallery := range s.galleries {
			for i := range gallery {
				gallery[i].IsDefault = gallery[i].Name() == fileName
			}
		}
		delete(s.errors, FieldDefaultImage)
		return nil
	})
}

// ImageCount returns the gallery length of a color.
func (s *Store) ImageCount(colorID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.galleries[colorID])
}

// Gallery returns a copy of a color's ordered gallery.
func (s *Store) Gallery(colorID string) []Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.galleries[colorID])
}

// DefaultCover returns the product cover when one is set.
func (s *Store) DefaultCover() (Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return defaultCover(s.colors, s.galleries)
}

func defaultCover(colors []string, galleries map[string][]Image) (Image, bool) {
	for _, colorID := range colors {
		for _, img := range galleries[colorID] {
			if img.IsDefault {
				return img, true
			}
		}
	}
	return Image{}, false
}

func conflict(file, reason, owner string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s was rejected: %s", file, reason)).
		WithDetails(ImageConflict{File: file, Reason: reason, ExistingColorID: owner})
}
