package guard

import (
	"fmt"
	"sync"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

// State is the unsaved-work state of a draft.
type State string

const (
	StateClean          State = "clean"
	StateDirty          State = "dirty"
	StateConfirmingExit State = "confirming_exit"
)

// Outcome reports what happened to an exit request.
type Outcome string

const (
	ExitAllowed  Outcome = "allowed"
	ExitDeferred Outcome = "confirm_required"
)

// Prompter asks the operator whether to leave with unsaved changes.
type Prompter interface {
	PromptExit(kind enums.ExitKind)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(kind enums.ExitKind)

func (f PrompterFunc) PromptExit(kind enums.ExitKind) {
	f(kind)
}

// Subscriber is the store notification hook the guard listens on.
type Subscriber interface {
	Subscribe(fn func(draft.Event)) func()
}

// Guard intercepts navigation and unload while the draft has unsaved changes.
type Guard struct {
	mu          sync.Mutex
	state       State
	pending     func()
	pendingKind enums.ExitKind
	prompter    Prompter
}

// New returns a clean guard. prompter may be nil when the caller polls State.
func New(prompter Prompter) *Guard {
	return &Guard{state: StateClean, prompter: prompter}
}

// Watch marks the guard dirty on every draft mutation and returns the cancel func.
func (g *Guard) Watch(store Subscriber) func() {
	return store.Subscribe(func(event draft.Event) {
		if event.IsMutation() {
			g.MarkDirty()
		}
	})
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// IsDirty reports whether unsaved changes exist.
func (g *Guard) IsDirty() bool {
	return g.State() != StateClean
}

// PendingExit returns the kind of the deferred exit, if one is awaiting confirmation.
func (g *Guard) PendingExit() (enums.ExitKind, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateConfirmingExit {
		return "", false
	}
	return g.pendingKind, true
}

// MarkDirty moves Clean to Dirty. Other states are left alone.
func (g *Guard) MarkDirty() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateClean {
		g.state = StateDirty
	}
}

// MarkClean drops any deferred exit and returns to Clean without prompting.
func (g *Guard) MarkClean() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateClean
	g.pending = nil
	g.pendingKind = ""
}

// RequestExit runs proceed right away when the draft is clean. Otherwise it is
// deferred until Resolve; a newer request replaces the deferred one.
func (g *Guard) RequestExit(kind enums.ExitKind, proceed func()) (Outcome, error) {
	if !kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown exit kind %q", kind))
	}

	g.mu.Lock()
	if g.state == StateClean {
		g.mu.Unlock()
		if proceed != nil {
			proceed()
		}
		return ExitAllowed, nil
	}
	g.state = StateConfirmingExit
	g.pending = proceed
	g.pendingKind = kind
	prompter := g.prompter
	g.mu.Unlock()

	if prompter != nil {
		prompter.PromptExit(kind)
	}
	return ExitDeferred, nil
}

// Resolve answers the prompt. Stay drops the deferred exit and keeps the
// draft dirty; leave runs it and the guard becomes clean.
func (g *Guard) Resolve(choice enums.ExitChoice) error {
	if !choice.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown exit choice %q", choice))
	}

	g.mu.Lock()
	if g.state != StateConfirmingExit {
		g.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "no exit is awaiting confirmation")
	}
	proceed := g.pending
	g.pending = nil
	g.pendingKind = ""
	if choice == enums.ExitChoiceStay {
		g.state = StateDirty
		g.mu.Unlock()
		return nil
	}
	g.state = StateClean
	g.mu.Unlock()

	if proceed != nil {
		proceed()
	}
	return nil
}
