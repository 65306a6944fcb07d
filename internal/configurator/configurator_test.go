package configurator

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/guard"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/internal/submission"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
	"github.com/angelmondragon/packfinderz-configurator/pkg/metrics"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (f *fakeFetcher) FetchOptions(ctx context.Context, kind enums.OptionKind) ([]catalog.Option, error) {
	f.record(kind.String())
	if f.err != nil {
		return nil, f.err
	}
	active := enums.OptionStatusActive
	switch kind {
	case enums.OptionKindColor:
		return []catalog.Option{{ID: "red", Name: "Red", Status: active}, {ID: "blue", Name: "Blue", Status: active}}, nil
	case enums.OptionKindSize:
		return []catalog.Option{{ID: "s", Name: "S", Status: active}, {ID: "m", Name: "M", Status: active}}, nil
	default:
		return []catalog.Option{{ID: kind.String() + "-1", Name: "First", Status: active}}, nil
	}
}

func (f *fakeFetcher) FetchDiscounts(ctx context.Context) ([]catalog.Discount, error) {
	f.record("discounts")
	return []catalog.Discount{{ID: "summer", Code: "SUMMER"}}, nil
}

func (f *fakeFetcher) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[key]++
}

type fakeCreator struct {
	calls int
	err   error
}

func (c *fakeCreator) CreateProduct(ctx context.Context, payload submission.ProductPayload) (*submission.Created, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &submission.Created{ID: "prod-1", Name: payload.Name}, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	registry *Registry
	fetcher  *fakeFetcher
	creator  *fakeCreator
	reg      *prometheus.Registry
	clock    *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	digester, err := media.NewDigester("blake2b")
	require.NoError(t, err)
	f := &fixture{
		fetcher: &fakeFetcher{},
		creator: &fakeCreator{},
		reg:     prometheus.NewRegistry(),
		clock:   &clock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.registry, err = NewRegistry(RegistryParams{
		Fetcher:           f.fetcher,
		Creator:           f.creator,
		Codec:             media.NewDataURICodec(1 << 20),
		Digester:          digester,
		Metrics:           metrics.NewConfiguratorMetrics(f.reg),
		Logger:            logger.Nop(),
		EncodeConcurrency: 2,
		IdleTTL:           time.Hour,
		Now:               f.clock.Now,
	})
	require.NoError(t, err)
	return f
}

func ptr(s string) *string { return &s }

func png(name string, seed byte) media.File {
	return media.File{Name: name, Data: append([]byte("\x89PNG\r\n\x1a\n"), seed, seed)}
}

func fillValidDraft(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateGeneral(draft.GeneralPatch{
		Name:        ptr("Linen Shirt"),
		Description: ptr("Soft linen"),
		BrandID:     ptr("brands-1"),
		CategoryID:  ptr("categories-1"),
		StyleID:     ptr("styles-1"),
		MaterialID:  ptr("materials-1"),
		OriginID:    ptr("origins-1"),
	}))
	_, err := s.ToggleColor("red")
	require.NoError(t, err)
	for _, size := range []string{"s", "m"} {
		_, err = s.ToggleSize("red", size)
		require.NoError(t, err)
		require.NoError(t, s.SetCellField("red", size, enums.CellFieldStock, "5"))
		require.NoError(t, s.SetCellField("red", size, enums.CellFieldCostPrice, "10000"))
		require.NoError(t, s.SetCellField("red", size, enums.CellFieldSellPrice, "20000"))
	}
	_, err = s.AddImages(t.Context(), "red", []media.File{png("red.png", 1)})
	require.NoError(t, err)
	require.NoError(t, s.SetDefaultCover("red.png"))
}

func TestNewRegistryRequiresCollaborators(t *testing.T) {
	_, err := NewRegistry(RegistryParams{})
	require.Error(t, err)
}

func TestCreateLoadsCatalogOncePerSession(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)

	_, err = s.Options(t.Context(), enums.OptionKindColor)
	require.NoError(t, err)
	brands, err := s.Options(t.Context(), enums.OptionKindBrand)
	require.NoError(t, err)
	require.Len(t, brands, 1)

	assert.Equal(t, 1, f.fetcher.calls["colors"])
	assert.Equal(t, 1, f.fetcher.calls["sizes"])
	assert.Equal(t, 1, f.fetcher.calls["discounts"])
	assert.Equal(t, 1, f.registry.Len())

	got, err := f.registry.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestCreateFailsWhenCatalogUnavailable(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = errors.New("backend down")
	_, err := f.registry.Create(t.Context())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 0, f.registry.Len())
}

func TestSessionSubmitClosesSession(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)
	fillValidDraft(t, s)

	view := s.View()
	assert.True(t, view.IsDirty)
	assert.Equal(t, guard.StateDirty, view.GuardState)
	assert.Equal(t, "red", view.ActiveColor)

	result, err := s.Submit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, result.VariantCount)
	assert.Equal(t, 1, f.creator.calls)
	assert.Equal(t, 0, f.registry.Len())

	_, err = f.registry.Get(s.ID())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSessionValidationSurfacesNotices(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)

	report := s.Validate()
	assert.False(t, report.Valid)
	assert.Equal(t, "productName", report.FirstField)

	_, err = s.Submit(t.Context())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 0, f.creator.calls)

	view := s.View()
	require.Len(t, view.Notices, 1)
	assert.Equal(t, NoticeError, view.Notices[0].Level)
	assert.Equal(t, "productName", view.ScrollTo)
	assert.Contains(t, view.Errors, "colors")
	assert.Empty(t, s.View().Notices, "notices are drained by the first read")
	assert.Equal(t, 1, f.registry.Len())
}

func TestSessionExitFlow(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)

	_, err = s.ToggleColor("red")
	require.NoError(t, err)
	before := s.View().Draft

	result, err := s.RequestExit(enums.ExitKindNavigate)
	require.NoError(t, err)
	assert.Equal(t, guard.ExitDeferred, result.Status)
	assert.False(t, result.Closed)
	assert.Equal(t, enums.ExitKindNavigate, s.View().PendingExit)

	result, err = s.ResolveExit(enums.ExitChoiceStay)
	require.NoError(t, err)
	assert.False(t, result.Closed)
	assert.Equal(t, before.SelectedColorIDs, s.View().Draft.SelectedColorIDs)
	assert.Equal(t, 1, f.registry.Len())

	_, err = s.RequestExit(enums.ExitKindUnload)
	require.NoError(t, err)
	result, err = s.ResolveExit(enums.ExitChoiceLeave)
	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.Equal(t, 0, f.registry.Len())
}

func TestCleanSessionExitsImmediately(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)

	result, err := s.RequestExit(enums.ExitKindNavigate)
	require.NoError(t, err)
	assert.Equal(t, guard.ExitAllowed, result.Status)
	assert.True(t, result.Closed)
	assert.Equal(t, 0, f.registry.Len())
}

func TestImageRejectionsAreCounted(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)
	_, err = s.ToggleColor("red")
	require.NoError(t, err)
	_, err = s.ToggleColor("blue")
	require.NoError(t, err)

	_, err = s.AddImages(t.Context(), "red", []media.File{png("a.png", 1)})
	require.NoError(t, err)
	_, err = s.AddImages(t.Context(), "blue", []media.File{png("b.png", 1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	count, err := testutil.GatherAndCount(f.reg, "draft_image_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	f := newFixture(t)
	idle, err := f.registry.Create(t.Context())
	require.NoError(t, err)
	f.clock.Advance(45 * time.Minute)
	active, err := f.registry.Create(t.Context())
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)
	_, err = f.registry.Get(active.ID())
	require.NoError(t, err)

	assert.Equal(t, 1, f.registry.Sweep())
	_, err = f.registry.Get(idle.ID())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, 1, f.registry.Len())
}

func TestDiscardAndExport(t *testing.T) {
	f := newFixture(t)
	s, err := f.registry.Create(t.Context())
	require.NoError(t, err)
	fillValidDraft(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.NotZero(t, buf.Len())

	require.NoError(t, f.registry.Discard(s.ID()))
	assert.True(t, pkgerrors.IsCode(f.registry.Discard(s.ID()), pkgerrors.CodeNotFound))
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		f.registry.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
