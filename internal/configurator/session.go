package configurator

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/export"
	"github.com/angelmondragon/packfinderz-configurator/internal/guard"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/internal/submission"
	"github.com/angelmondragon/packfinderz-configurator/internal/validation"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
	"github.com/angelmondragon/packfinderz-configurator/pkg/metrics"
)

// Session is one live configurator: a draft, its exit guard and its
// submission coordinator.
type Session struct {
	store       *draft.Store
	guard       *guard.Guard
	coordinator *submission.Coordinator
	validator   *validation.Engine
	options     *catalog.SessionCache
	notices     *noticeBox
	metrics     *metrics.ConfiguratorMetrics
	logg        *logger.Logger

	unwatch   func()
	closeOnce sync.Once
	onClose   func(id string)
}

// View is the read model rendered by clients.
type View struct {
	Draft        draft.Snapshot    `json:"draft"`
	Errors       map[string]string `json:"errors"`
	IsDirty      bool              `json:"is_dirty"`
	IsSubmitting bool              `json:"is_submitting"`
	GuardState   guard.State       `json:"guard_state"`
	PendingExit  enums.ExitKind    `json:"pending_exit,omitempty"`
	ActiveColor  string            `json:"active_color"`
	Notices      []Notice          `json:"notices,omitempty"`
	ScrollTo     string            `json:"scroll_to,omitempty"`
}

// ValidationReport is the outcome of an explicit validation run.
type ValidationReport struct {
	Valid        bool              `json:"valid"`
	Errors       map[string]string `json:"errors"`
	FirstField   string            `json:"first_field,omitempty"`
	FirstMessage string            `json:"first_message,omitempty"`
}

// ExitResult tells the client whether it may leave now.
type ExitResult struct {
	Status guard.Outcome `json:"status"`
	Closed bool          `json:"closed"`
}

// ID returns the draft identifier.
func (s *Session) ID() string {
	return s.store.ID()
}

// View snapshots the session and drains pending notices.
func (s *Session) View() View {
	snap := s.store.Snapshot()
	notices, scrollTo := s.notices.drain()
	pending, _ := s.guard.PendingExit()
	return View{
		Draft:        snap,
		Errors:       snap.Errors,
		IsDirty:      s.guard.IsDirty(),
		IsSubmitting: s.coordinator.IsSubmitting(),
		GuardState:   s.guard.State(),
		PendingExit:  pending,
		ActiveColor:  snap.ActiveColorID,
		Notices:      notices,
		ScrollTo:     scrollTo,
	}
}

// Options returns an attribute list, memoized for the session.
func (s *Session) Options(ctx context.Context, kind enums.OptionKind) ([]catalog.Option, error) {
	return s.options.FetchOptions(ctx, kind)
}

func (s *Session) UpdateGeneral(patch draft.GeneralPatch) error {
	return s.store.UpdateGeneral(patch)
}

func (s *Session) ToggleColor(colorID string) (bool, error) {
	return s.store.ToggleColor(colorID)
}

func (s *Session) SetActiveColor(colorID string) error {
	return s.store.SetActiveColor(colorID)
}

func (s *Session) ToggleSize(colorID, sizeID string) (bool, error) {
	return s.store.ToggleSize(colorID, sizeID)
}

func (s *Session) SetCellField(colorID, sizeID string, field enums.CellField, value string) error {
	return s.store.SetCellField(colorID, sizeID, field, value)
}

func (s *Session) AddDiscount(colorID, sizeID, discountID string) error {
	return s.store.AddDiscount(colorID, sizeID, discountID)
}

func (s *Session) RemoveDiscount(colorID, sizeID, discountID string) error {
	return s.store.RemoveDiscount(colorID, sizeID, discountID)
}

// AddImages uploads a batch to a color gallery and counts rejections.
func (s *Session) AddImages(ctx context.Context, colorID string, files []media.File) ([]draft.Image, error) {
	added, err := s.store.AddImages(ctx, colorID, files)
	if err != nil {
		reason := "invalid_image"
		if typed := pkgerrors.As(err); typed != nil {
			if conflict, ok := typed.Details().(draft.ImageConflict); ok {
				reason = strings.ReplaceAll(conflict.Reason, " ", "_")
			}
			if typed.Code() == pkgerrors.CodeNotFound {
				return nil, err
			}
		}
		s.metrics.IncImageRejection(reason)
		s.logg.Warn(s.logg.WithFields(s.logg.WithColorID(ctx, colorID), map[string]any{
			"draft_id": s.ID(),
			"reason":   reason,
		}), "image batch rejected")
		return nil, err
	}
	return added, nil
}

func (s *Session) RemoveImage(colorID, fileName string) error {
	return s.store.RemoveImage(colorID, fileName)
}

func (s *Session) ReorderImages(colorID string, from, to int) error {
	return s.store.ReorderImages(colorID, from, to)
}

func (s *Session) SetDefaultCover(fileName string) error {
	return s.store.SetDefaultCover(fileName)
}

// Validate runs the submit rules without submitting and stores the annotations.
func (s *Session) Validate() ValidationReport {
	snap := s.store.Snapshot()
	errs := s.validator.Validate(snap)
	s.store.ReplaceErrors(errs)
	return ValidationReport{
		Valid:        errs.Empty(),
		Errors:       errs,
		FirstField:   errs.FirstField(snap),
		FirstMessage: errs.FirstMessage(snap),
	}
}

// Submit sends the draft. A successful submission closes the session.
func (s *Session) Submit(ctx context.Context) (*submission.Result, error) {
	result, err := s.coordinator.Submit(ctx, s.store)
	if err != nil {
		return nil, err
	}
	s.close()
	return result, nil
}

// RequestExit asks to leave the configurator. Clean drafts close at once;
// dirty ones wait for ResolveExit.
func (s *Session) RequestExit(kind enums.ExitKind) (ExitResult, error) {
	closed := false
	outcome, err := s.guard.RequestExit(kind, func() {
		closed = true
		s.close()
	})
	if err != nil {
		return ExitResult{}, err
	}
	return ExitResult{Status: outcome, Closed: closed}, nil
}

// ResolveExit answers the pending exit prompt.
func (s *Session) ResolveExit(choice enums.ExitChoice) (ExitResult, error) {
	closed := false
	if err := s.guard.Resolve(choice); err != nil {
		return ExitResult{}, err
	}
	if choice == enums.ExitChoiceLeave {
		closed = true
		s.close()
	}
	return ExitResult{Status: guard.ExitAllowed, Closed: closed}, nil
}

// Export writes the variant matrix as an xlsx workbook.
func (s *Session) Export(w io.Writer) error {
	return export.WriteMatrix(w, s.store.Snapshot())
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		if s.unwatch != nil {
			s.unwatch()
		}
		if s.onClose != nil {
			s.onClose(s.ID())
		}
	})
}
