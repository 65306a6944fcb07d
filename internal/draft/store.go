package draft

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

// StoreParams wires a draft store.
type StoreParams struct {
	ID string
	// Palette enables catalog checks on selection and discounts when set.
	Palette           *catalog.Palette
	Digester          media.Digester
	Inspector         media.Inspector
	DigestConcurrency int
}

// Store is the in-memory product draft of one configurator session.
// Every exported method is atomic; subscribers run after the lock is released.
type Store struct {
	mu sync.Mutex

	id                string
	palette           *catalog.Palette
	digester          media.Digester
	inspector         media.Inspector
	digestConcurrency int

	general     General
	colors      []string
	sizes       map[string][]string
	cells       map[CellKey]*Cell
	galleries   map[string][]Image
	activeColor string
	errors      map[string]string

	subscribers map[int]func(Event)
	nextSubID   int
}

// NewStore returns an empty draft.
func NewStore(params StoreParams) (*Store, error) {
	if params.Digester == nil {
		return nil, fmt.Errorf("digester required")
	}
	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Store{
		id:                id,
		palette:           params.Palette,
		digester:          params.Digester,
		inspector:         params.Inspector,
		digestConcurrency: params.DigestConcurrency,
		sizes:             map[string][]string{},
		cells:             map[CellKey]*Cell{},
		galleries:         map[string][]Image{},
		errors:            map[string]string{},
		subscribers:       map[int]func(Event){},
	}, nil
}

// ID returns the draft identifier.
func (s *Store) ID() string {
	return s.id
}

// Palette returns the catalog the draft validates selections against, if any.
func (s *Store) Palette() *catalog.Palette {
	return s.palette
}

// Subscribe registers fn for every completed store call and returns the cancel func.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// mutate runs fn under the lock, reconciles cells and then notifies subscribers.
func (s *Store) mutate(event Event, fn func() error) error {
	s.mu.Lock()
	err := fn()
	if err == nil {
		s.reconcileLocked()
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

func (s *Store) subscribersLocked() []func(Event) {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subscribers[id])
	}
	return subs
}

// UpdateGeneral applies patch and clears the error of every touched field.
func (s *Store) UpdateGeneral(patch GeneralPatch) error {
	return s.mutate(Event{Kind: EventGeneral}, func() error {
		apply := func(dst *string, value *string, key string) {
			if value == nil {
				return
			}
			*dst = *value
			delete(s.errors, key)
		}
		apply(&s.general.Name, patch.Name, FieldProductName)
		apply(&s.general.Description, patch.Description, FieldDescription)
		apply(&s.general.BrandID, patch.BrandID, FieldBrand)
		apply(&s.general.CategoryID, patch.CategoryID, FieldCategory)
		apply(&s.general.StyleID, patch.StyleID, FieldStyle)
		apply(&s.general.MaterialID, patch.MaterialID, FieldMaterial)
		apply(&s.general.OriginID, patch.OriginID, FieldOrigin)
		return nil
	})
}

// Errors returns a copy of the field error annotations.
func (s *Store) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyErrors(s.errors)
}

// ReplaceErrors stores a fresh set of annotations, typically from validation.
func (s *Store) ReplaceErrors(errs map[string]string) {
	_ = s.mutate(Event{Kind: EventErrors}, func() error {
		s.errors = copyErrors(errs)
		return nil
	})
}

// ActiveColor returns the selected color tab, or "" when nothing is selected.
func (s *Store) ActiveColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeColor
}

func copyErrors(errs map[string]string) map[string]string {
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}

func notFound(format string, args ...any) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf(format, args...))
}

func invalid(key, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]string{key: message})
}
