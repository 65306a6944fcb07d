package configurator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/guard"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/internal/submission"
	"github.com/angelmondragon/packfinderz-configurator/internal/validation"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
	"github.com/angelmondragon/packfinderz-configurator/pkg/metrics"
)

// Codec encodes and inspects gallery images.
type Codec interface {
	media.Encoder
	media.Inspector
}

// RegistryParams wires the session registry.
type RegistryParams struct {
	Fetcher           catalog.Fetcher
	Creator           submission.Creator
	Codec             Codec
	Digester          media.Digester
	Metrics           *metrics.ConfiguratorMetrics
	Logger            *logger.Logger
	EncodeConcurrency int
	MultiDiscount     bool
	SubmitTimeout     time.Duration
	IdleTTL           time.Duration
	Now               func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry holds the live sessions of this process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry

	fetcher           catalog.Fetcher
	creator           submission.Creator
	codec             Codec
	digester          media.Digester
	validator         *validation.Engine
	metrics           *metrics.ConfiguratorMetrics
	logg              *logger.Logger
	encodeConcurrency int
	multiDiscount     bool
	submitTimeout     time.Duration
	idleTTL           time.Duration
	now               func() time.Time
}

// NewRegistry validates the wiring and returns an empty registry.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	if params.Creator == nil {
		return nil, fmt.Errorf("product creator required")
	}
	if params.Codec == nil {
		return nil, fmt.Errorf("image codec required")
	}
	if params.Digester == nil {
		return nil, fmt.Errorf("digester required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions:          map[string]*entry{},
		fetcher:           params.Fetcher,
		creator:           params.Creator,
		codec:             params.Codec,
		digester:          params.Digester,
		validator:         validation.NewEngine(now),
		metrics:           params.Metrics,
		logg:              params.Logger,
		encodeConcurrency: params.EncodeConcurrency,
		multiDiscount:     params.MultiDiscount,
		submitTimeout:     params.SubmitTimeout,
		idleTTL:           params.IdleTTL,
		now:               now,
	}, nil
}

// Create opens a new session with an empty draft built against the current catalog.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	options, err := catalog.NewSessionCache(r.fetcher)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to build option cache")
	}
	palette, err := catalog.LoadPalette(ctx, options)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load catalog")
	}

	store, err := draft.NewStore(draft.StoreParams{
		Palette:           &palette,
		Digester:          r.digester,
		Inspector:         r.codec,
		DigestConcurrency: r.encodeConcurrency,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create draft")
	}

	sessionCtx := r.logg.WithDraftID(ctx, store.ID())
	g := guard.New(guard.PrompterFunc(func(kind enums.ExitKind) {
		r.logg.Info(r.logg.WithField(sessionCtx, "exit_kind", kind.String()), "exit confirmation requested")
	}))
	notices := &noticeBox{}
	coordinator, err := submission.NewCoordinator(submission.Params{
		Validator:         r.validator,
		Encoder:           r.codec,
		Creator:           r.creator,
		Notifier:          notices,
		Guard:             g,
		Metrics:           r.metrics,
		Logger:            r.logg,
		EncodeConcurrency: r.encodeConcurrency,
		MultiDiscount:     r.multiDiscount,
		Timeout:           r.submitTimeout,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create coordinator")
	}

	session := &Session{
		store:       store,
		guard:       g,
		coordinator: coordinator,
		validator:   r.validator,
		options:     options,
		notices:     notices,
		metrics:     r.metrics,
		logg:        r.logg,
		onClose:     r.remove,
	}
	session.unwatch = g.Watch(store)

	r.mu.Lock()
	r.sessions[store.ID()] = &entry{session: session, lastSeen: r.now()}
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(count)
	r.logg.Info(sessionCtx, "configurator session opened")
	return session, nil
}

// Get returns a live session and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Discard drops a session regardless of unsaved changes.
func (r *Registry) Discard(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	e.session.close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the configured TTL and returns how many.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	var expired []*Session
	r.mu.Lock()
	for _, e := range r.sessions {
		if e.lastSeen.Before(cutoff) && !e.session.coordinator.IsSubmitting() {
			expired = append(expired, e.session)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		session.close()
	}
	if len(expired) > 0 {
		r.logg.Info(r.logg.WithField(context.Background(), "expired", len(expired)), "idle configurator sessions evicted")
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetActiveSessions(count)
}
