package accountflow

import (
	"context"
	"sync"

	"github.com/pvdveen/accountflow/submit"
)

// LoginStage is the position of a LoginFlow within one login attempt.
type LoginStage int

const (
	// StagePassword is the initial email+password step.
	StagePassword LoginStage = iota
	// StageTwoFactor is the second-factor step reached when the password
	// step succeeds for an account with two-factor enabled. The email and
	// password fields are disabled — not cleared — while at this stage.
	StageTwoFactor
	// StageCompleted means the session store has been updated and the
	// flow is finished.
	StageCompleted
)

// LoginFlow orchestrates one login attempt: a password step optionally
// followed by a second-factor step. The user is not considered
// authenticated — and the session store is not touched — until the whole
// flow succeeds.
//
// Each step is backed by its own submission form, so an error at the
// second-factor step never disturbs the password step's success state.
type LoginFlow struct {
	mu    sync.Mutex
	stage LoginStage
	// pendingEmail is the second-factor context: the address that just
	// cleared the password step. It exists only between the two steps and
	// is discarded on completion or cancellation.
	pendingEmail string

	password  *submit.Form[PasswordCredentials, Principal]
	twoFactor *submit.Form[TOTPAttempt, Principal]

	session    *SessionStore
	onComplete func(Principal)
}

// NewLoginFlow creates a fresh login flow at the password stage.
func (c *Client) NewLoginFlow() *LoginFlow {
	f := &LoginFlow{session: c.session}

	f.password = submit.New(func(ctx context.Context, creds PasswordCredentials) (Principal, error) {
		var p Principal
		err := c.api.Post(ctx, pathLogin, creds, &p)
		return p, err
	})
	f.twoFactor = submit.New(func(ctx context.Context, attempt TOTPAttempt) (Principal, error) {
		var p Principal
		err := c.api.Post(ctx, pathLoginTwoFactor, attempt, &p)
		return p, err
	})

	return f
}

// OnComplete registers a hook invoked once with the final principal when
// the flow reaches StageCompleted. Callers use it to close the login
// modal and navigate into the authenticated area.
func (f *LoginFlow) OnComplete(fn func(Principal)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onComplete = fn
}

// Stage returns the flow's current position.
func (f *LoginFlow) Stage() LoginStage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// PendingEmail returns the address captured by a successful password
// step, or "" outside the two-factor stage.
func (f *LoginFlow) PendingEmail() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingEmail
}

// PasswordState exposes the password step's submission state.
func (f *LoginFlow) PasswordState() submit.Snapshot[Principal] {
	return f.password.Snapshot()
}

// TwoFactorState exposes the second-factor step's submission state.
func (f *LoginFlow) TwoFactorState() submit.Snapshot[Principal] {
	return f.twoFactor.Snapshot()
}

// SubscribePassword registers fn on the password step's state changes
// and returns its cancel function.
func (f *LoginFlow) SubscribePassword(fn func(submit.Snapshot[Principal])) func() {
	return f.password.Subscribe(fn)
}

// SubscribeTwoFactor registers fn on the second-factor step's state
// changes and returns its cancel function.
func (f *LoginFlow) SubscribeTwoFactor(fn func(submit.Snapshot[Principal])) func() {
	return f.twoFactor.Subscribe(fn)
}

// SubmitPassword runs the password step. On success the server's
// principal decides the branch: with the two-factor flag set the flow
// captures the email and advances to StageTwoFactor without touching the
// session; without it the session store receives the principal and the
// flow completes. On a domain or transport error the flow stays at
// StagePassword with the fields editable, and the mapped message is read
// from PasswordState.
func (f *LoginFlow) SubmitPassword(ctx context.Context, email, password string) error {
	fe := FieldErrors{}
	validateEmail(fe, "email", email)
	validateRequired(fe, "password", password, "please_enter_a_password")
	if err := fe.asError(); err != nil {
		return err
	}

	f.mu.Lock()
	if f.stage == StageCompleted {
		f.mu.Unlock()
		return ErrFlowCompleted
	}
	if f.stage == StageTwoFactor {
		// Password fields are disabled at the two-factor stage.
		f.mu.Unlock()
		return ErrFlowCompleted
	}
	f.mu.Unlock()

	if err := f.password.Submit(ctx, PasswordCredentials{Email: email, Password: password}); err != nil {
		return err
	}

	snap := f.password.Snapshot()
	if snap.Phase != submit.Succeeded {
		return nil
	}

	p := *snap.Data
	if p.TwoFactorEnabled {
		f.mu.Lock()
		f.stage = StageTwoFactor
		f.pendingEmail = email
		f.mu.Unlock()
		return nil
	}

	f.complete(p)
	return nil
}

// SubmitTwoFactor runs the second-factor step with the captured email
// and a 6-digit code. The code format is checked locally before any
// network traffic. On error the flow stays at StageTwoFactor with the
// second-factor context preserved, so the user re-enters only the code,
// never the password.
func (f *LoginFlow) SubmitTwoFactor(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.stage != StageTwoFactor {
		f.mu.Unlock()
		return ErrNoSecondFactorPending
	}
	email := f.pendingEmail
	f.mu.Unlock()

	fe := FieldErrors{}
	validateTOTPCode(fe, "totp_code", code)
	if err := fe.asError(); err != nil {
		return err
	}

	if err := f.twoFactor.Submit(ctx, TOTPAttempt{Email: email, Code: code}); err != nil {
		return err
	}

	snap := f.twoFactor.Snapshot()
	if snap.Phase != submit.Succeeded {
		return nil
	}

	f.complete(*snap.Data)
	return nil
}

func (f *LoginFlow) complete(p Principal) {
	f.mu.Lock()
	f.stage = StageCompleted
	f.pendingEmail = ""
	done := f.onComplete
	f.mu.Unlock()

	f.session.SetPrincipal(p)
	if done != nil {
		done(p)
	}
}

// Cancel resets the flow to the password stage, clears both steps'
// submission state, and discards the second-factor context. It mirrors
// closing the login modal and leaves the flow ready for a fresh attempt.
func (f *LoginFlow) Cancel() {
	f.mu.Lock()
	f.stage = StagePassword
	f.pendingEmail = ""
	f.mu.Unlock()

	f.password.Reset()
	f.twoFactor.Reset()
}
