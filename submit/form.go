// Package submit is the asynchronous form-submission engine shared by
// every form in the client. A Form wraps exactly one network action and
// resolves each submission to a single consistent state shape: after a
// submit settles, exactly one of the decoded response or a symbolic
// error-message key is set, never both and never neither.
//
// Forms are independent: each form instance owns its own state, so a
// login form and an admin create-user form never share mutable state
// even though both run through this engine.
package submit

import (
	"context"
	"errors"
	"sync"

	"github.com/pvdveen/accountflow/internal/rest"
)

// Phase is the submission lifecycle position of a Form.
type Phase int

const (
	// Idle means no submission has run since creation or the last reset.
	Idle Phase = iota
	// Submitting means one action call is in flight.
	Submitting
	// Succeeded means the last submission resolved with a decoded body.
	Succeeded
	// Failed means the last submission resolved with a message key.
	Failed
)

// ErrInFlight is returned by Submit while a previous submission has not
// resolved. The engine enforces single-flight instead of leaving the
// guard to callers.
var ErrInFlight = errors.New("submit: submission already in flight")

// Action executes one server call from one set of submitted values.
// Domain rejections must surface as *rest.CallError; any other error is
// treated as a transport failure.
type Action[V, R any] func(ctx context.Context, values V) (R, error)

// Snapshot is an immutable view of a Form's state. Data is set exactly
// when Phase is Succeeded; Message is set exactly when Phase is Failed
// and holds a symbolic key, not display text.
type Snapshot[R any] struct {
	Phase   Phase
	Message string
	Data    *R
}

// Form is a single-action submission state machine. The zero value is
// not usable; construct with New.
type Form[V, R any] struct {
	mu        sync.Mutex
	action    Action[V, R]
	seed      *V
	onFinish  func(R)
	autoReset bool

	phase   Phase
	message string
	data    *R

	// gen invalidates in-flight submissions: a resolution whose captured
	// generation no longer matches is discarded instead of mutating state
	// that was reset underneath it.
	gen uint64

	subs    map[int]func(Snapshot[R])
	nextSub int
}

// New creates an idle Form around the given action.
func New[V, R any](action Action[V, R]) *Form[V, R] {
	return &Form[V, R]{
		action: action,
		subs:   make(map[int]func(Snapshot[R])),
	}
}

// SetSeed installs static extra values merged into every submitted value
// set. Seed values never override fields the user actually entered: a
// non-zero submitted field always wins.
func (f *Form[V, R]) SetSeed(seed V) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seed = &seed
}

// OnFinish registers a hook invoked once per successful resolution with
// the decoded body. Callers use it to chain side effects such as session
// updates or navigation.
func (f *Form[V, R]) OnFinish(fn func(R)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onFinish = fn
}

// AutoReset makes the form return to Idle immediately after a successful
// resolution (after OnFinish ran). Failed submissions are never
// auto-reset; the error stays visible until the next submit or an
// explicit Reset.
func (f *Form[V, R]) AutoReset(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoReset = enabled
}

// Snapshot returns a copy of the current state.
func (f *Form[V, R]) Snapshot() Snapshot[R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form[V, R]) snapshotLocked() Snapshot[R] {
	return Snapshot[R]{Phase: f.phase, Message: f.message, Data: f.data}
}

// Subscribe registers fn to run on every state change and returns its
// cancel function. Notification happens synchronously with a consistent
// snapshot before the next submission-related event is processed.
func (f *Form[V, R]) Subscribe(fn func(Snapshot[R])) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *Form[V, R]) notify(snap Snapshot[R]) {
	f.mu.Lock()
	fns := make([]func(Snapshot[R]), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Submit merges the seed into values, runs the action, and resolves the
// form to Succeeded or Failed. It returns ErrInFlight without touching
// state when a previous submission is still pending. The returned error
// reflects submission admission only; the outcome of the action itself
// is read from the form state.
func (f *Form[V, R]) Submit(ctx context.Context, values V) error {
	f.mu.Lock()
	if f.phase == Submitting {
		f.mu.Unlock()
		return ErrInFlight
	}
	merged := values
	if f.seed != nil {
		merged = mergeSeed(*f.seed, values)
	}
	f.phase = Submitting
	f.message = ""
	f.data = nil
	myGen := f.gen
	action := f.action
	f.mu.Unlock()
	f.notify(Snapshot[R]{Phase: Submitting})

	result, err := action(ctx, merged)

	f.mu.Lock()
	if f.gen != myGen {
		// The form was reset while this call was in flight; its outcome
		// no longer has a listener.
		f.mu.Unlock()
		return nil
	}
	var snap Snapshot[R]
	var finish func(R)
	if err != nil {
		f.phase = Failed
		f.message = resolveMessage(err)
		f.data = nil
		snap = f.snapshotLocked()
		f.mu.Unlock()
		f.notify(snap)
		return nil
	}

	f.phase = Succeeded
	f.message = ""
	f.data = &result
	snap = f.snapshotLocked()
	finish = f.onFinish
	autoReset := f.autoReset
	f.mu.Unlock()

	f.notify(snap)
	if finish != nil {
		finish(result)
	}
	if autoReset {
		f.Reset()
	}
	return nil
}

// Reset returns the form to Idle, dropping any previous data or message.
// Resetting an idle form is a no-op with identical end state, and a
// reset issued while a submission is in flight causes that submission's
// eventual resolution to be discarded.
func (f *Form[V, R]) Reset() {
	f.mu.Lock()
	f.gen++
	changed := f.phase != Idle || f.message != "" || f.data != nil
	f.phase = Idle
	f.message = ""
	f.data = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()

	if changed {
		f.notify(snap)
	}
}

// resolveMessage classifies an action error. Domain rejections carry the
// server's code through the taxonomy table; everything else means no
// usable response was obtained and surfaces the reserved network key.
func resolveMessage(err error) string {
	var call *rest.CallError
	if errors.As(err, &call) {
		return call.MessageKey()
	}
	return rest.KeyNetworkError
}
