package submission

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/internal/validation"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
	"github.com/angelmondragon/packfinderz-configurator/pkg/metrics"
)

const (
	GenericFailureMessage = "Failed to create product. Please try again."
	EncodeFailureMessage  = "Failed to prepare product images. Please try again."
	SuccessMessage        = "Product created successfully."
)

// Validator produces the field error map for a snapshot.
type Validator interface {
	Validate(snap draft.Snapshot) validation.ErrorMap
}

// DraftStore is the slice of the draft store the coordinator needs.
type DraftStore interface {
	Snapshot() draft.Snapshot
	ReplaceErrors(errs map[string]string)
}

// CleanMarker is notified once the draft has been persisted.
type CleanMarker interface {
	MarkClean()
}

// Params wires a coordinator.
type Params struct {
	Validator         Validator
	Encoder           media.Encoder
	Creator           Creator
	Notifier          Notifier
	Guard             CleanMarker
	Metrics           *metrics.ConfiguratorMetrics
	Logger            *logger.Logger
	EncodeConcurrency int
	MultiDiscount     bool
	Timeout           time.Duration
}

// Result describes a created product.
type Result struct {
	Product      *Created
	VariantCount int
}

// Coordinator validates, encodes and submits one draft. At most one
// submission runs at a time.
type Coordinator struct {
	validator         Validator
	encoder           media.Encoder
	creator           Creator
	notifier          Notifier
	guard             CleanMarker
	metrics           *metrics.ConfiguratorMetrics
	logg              *logger.Logger
	encodeConcurrency int
	multiDiscount     bool
	timeout           time.Duration

	busy atomic.Bool
}

// NewCoordinator validates the wiring and returns a coordinator.
func NewCoordinator(params Params) (*Coordinator, error) {
	if params.Validator == nil {
		return nil, fmt.Errorf("validator required")
	}
	if params.Encoder == nil {
		return nil, fmt.Errorf("encoder required")
	}
	if params.Creator == nil {
		return nil, fmt.Errorf("creator required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Coordinator{
		validator:         params.Validator,
		encoder:           params.Encoder,
		creator:           params.Creator,
		notifier:          notifier,
		guard:             params.Guard,
		metrics:           params.Metrics,
		logg:              params.Logger,
		encodeConcurrency: params.EncodeConcurrency,
		multiDiscount:     params.MultiDiscount,
		timeout:           params.Timeout,
	}, nil
}

// IsSubmitting reports whether a submission is in flight.
func (c *Coordinator) IsSubmitting() bool {
	return c.busy.Load()
}

// Submit runs validation and, when the draft is valid, issues exactly one
// create request. Failures leave the draft untouched apart from error annotations.
func (c *Coordinator) Submit(ctx context.Context, store DraftStore) (*Result, error) {
	start := time.Now()
	if !c.busy.CompareAndSwap(false, true) {
		c.metrics.ObserveSubmit(metrics.OutcomeBusy, time.Since(start))
		return nil, pkgerrors.New(pkgerrors.CodeBusy, "a submission is already in progress")
	}
	defer c.busy.Store(false)

	snap := store.Snapshot()
	ctx = c.logg.WithDraftID(ctx, snap.ID)

	errs := c.validator.Validate(snap)
	store.ReplaceErrors(errs)
	if !errs.Empty() {
		field := errs.FirstField(snap)
		message := errs[field]
		c.notifier.NotifyError(ctx, message)
		c.notifier.ScrollTo(ctx, field)
		c.metrics.ObserveSubmit(metrics.OutcomeInvalid, time.Since(start))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]string(errs))
	}

	encoded, err := encodeGalleries(ctx, c.encoder, snap, c.encodeConcurrency)
	if err != nil {
		c.logg.Error(ctx, "failed to encode draft images", err)
		c.notifier.NotifyError(ctx, EncodeFailureMessage)
		c.metrics.ObserveSubmit(metrics.OutcomeEncodeFail, time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, EncodeFailureMessage)
	}
	payload := assemble(snap, encoded, c.multiDiscount)

	createCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		createCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	created, err := c.creator.CreateProduct(createCtx, payload)
	if err != nil {
		message := failureMessage(err)
		c.logg.Error(ctx, "create product failed", err)
		c.notifier.NotifyError(ctx, message)
		c.metrics.ObserveSubmit(metrics.OutcomeRejected, time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	}
	if created == nil {
		created = &Created{}
	}

	if c.guard != nil {
		c.guard.MarkClean()
	}
	c.notifier.NotifySuccess(ctx, SuccessMessage)
	c.metrics.ObserveSubmit(metrics.OutcomeSuccess, time.Since(start))
	c.logg.Info(c.logg.WithField(ctx, "product_id", created.ID), "draft submitted")
	return &Result{Product: created, VariantCount: len(payload.Variants)}, nil
}

func failureMessage(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return GenericFailureMessage
}
