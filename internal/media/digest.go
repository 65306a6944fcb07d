package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

// Digester computes the content hash used for duplicate detection.
type Digester interface {
	Digest(file File) (string, error)
}

type hashDigester struct {
	name    string
	newHash func() (hash.Hash, error)
}

// NewDigester returns the digester for "sha256" or "blake2b".
func NewDigester(algorithm string) (Digester, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", "sha256":
		return hashDigester{name: "sha256", newHash: func() (hash.Hash, error) { return sha256.New(), nil }}, nil
	case "blake2b":
		return hashDigester{name: "blake2b", newHash: func() (hash.Hash, error) { return blake2b.New256(nil) }}, nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", algorithm)
	}
}

// Digest returns "<algorithm>:<hex>".
func (d hashDigester) Digest(file File) (string, error) {
	h, err := d.newHash()
	if err != nil {
		return "", fmt.Errorf("init %s: %w", d.name, err)
	}
	if _, err := h.Write(file.Data); err != nil {
		return "", fmt.Errorf("write %s: %w", d.name, err)
	}
	return d.name + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// DigestAll hashes files concurrently; result i belongs to files[i]. One
// failing file does not stop the others, and the returned error names every
// file that could not be hashed.
func DigestAll(ctx context.Context, digester Digester, files []File, limit int) ([]string, error) {
	digests := make([]string, len(files))
	var (
		mu     sync.Mutex
		failed error
	)
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := digester.Digest(files[i])
			if err != nil {
				mu.Lock()
				failed = multierr.Append(failed, fmt.Errorf("digest %s: %w", files[i].Name, err))
				mu.Unlock()
				return nil
			}
			digests[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if failed != nil {
		return nil, failed
	}
	return digests, nil
}
