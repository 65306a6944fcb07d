package submission

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
)

// imageKey ties an encoding result to its gallery slot.
type imageKey struct {
	colorID string
	index   int
}

// encodeGalleries encodes every gallery image concurrently. Results are keyed
// by (color, index) so completion order does not matter. Every image is
// attempted and the error combines all failures.
func encodeGalleries(ctx context.Context, encoder media.Encoder, snap draft.Snapshot, limit int) (map[imageKey]string, error) {
	type job struct {
		key  imageKey
		file media.File
	}
	var jobs []job
	for _, colorID := range snap.SelectedColorIDs {
		for i, img := range snap.Galleries[colorID] {
			jobs = append(jobs, job{key: imageKey{colorID: colorID, index: i}, file: img.File})
		}
	}

	encoded := make([]string, len(jobs))
	var (
		mu     sync.Mutex
		failed error
	)
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := encoder.Encode(jobs[i].file)
			if err != nil {
				mu.Lock()
				failed = multierr.Append(failed, fmt.Errorf("encode %s/%s: %w", jobs[i].key.colorID, jobs[i].file.Name, err))
				mu.Unlock()
				return nil
			}
			encoded[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if failed != nil {
		return nil, failed
	}

	out := make(map[imageKey]string, len(jobs))
	for i, j := range jobs {
		out[j.key] = encoded[i]
	}
	return out, nil
}
