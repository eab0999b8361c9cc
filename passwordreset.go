package accountflow

import (
	"context"

	"github.com/pvdveen/accountflow/submit"
)

// ForgotPasswordFlow is the reset-request form. It always resolves to
// the same generic "mail sent if the account exists" success, whether or
// not the address is known: the server never discloses account
// existence and the client must not branch on it either.
type ForgotPasswordFlow struct {
	form *submit.Form[ForgotPasswordRequest, Empty]
}

// NewForgotPasswordFlow creates a reset-request flow. With
// Forms.AutoResetOnSuccess set, the form returns to idle after the
// success message has been delivered to subscribers.
func (c *Client) NewForgotPasswordFlow() *ForgotPasswordFlow {
	f := &ForgotPasswordFlow{}
	f.form = submit.New(func(ctx context.Context, req ForgotPasswordRequest) (Empty, error) {
		return Empty{}, c.api.Post(ctx, pathForgotPassword, req, nil)
	})
	f.form.AutoReset(c.config.Forms.AutoResetOnSuccess)
	return f
}

// State exposes the form's submission state.
func (f *ForgotPasswordFlow) State() submit.Snapshot[Empty] {
	return f.form.Snapshot()
}

// Subscribe registers fn on the underlying form's state changes.
func (f *ForgotPasswordFlow) Subscribe(fn func(submit.Snapshot[Empty])) func() {
	return f.form.Subscribe(fn)
}

// Submit validates the address locally and requests the reset mail.
func (f *ForgotPasswordFlow) Submit(ctx context.Context, email string) error {
	fe := FieldErrors{}
	validateEmail(fe, "email", email)
	if err := fe.asError(); err != nil {
		return err
	}
	return f.form.Submit(ctx, ForgotPasswordRequest{Email: email})
}

// Reset clears the form.
func (f *ForgotPasswordFlow) Reset() {
	f.form.Reset()
}

// ResetPasswordFlow is the reset confirmation reached from the mail
// link. Email and token ride along as read-only seed values; the user
// enters only the new password. Success leaves the form in its
// succeeded state — the view disables itself on it — and does not
// authenticate the user.
type ResetPasswordFlow struct {
	form *submit.Form[ResetPasswordRequest, Empty]
}

// NewResetPasswordFlow creates a reset confirmation seeded with the
// link's query parameters.
func (c *Client) NewResetPasswordFlow(email, resetToken string) *ResetPasswordFlow {
	f := &ResetPasswordFlow{}
	f.form = submit.New(func(ctx context.Context, req ResetPasswordRequest) (Empty, error) {
		return Empty{}, c.api.Post(ctx, pathResetPassword, req, nil)
	})
	f.form.SetSeed(ResetPasswordRequest{Email: email, ResetToken: resetToken})
	return f
}

// State exposes the form's submission state.
func (f *ResetPasswordFlow) State() submit.Snapshot[Empty] {
	return f.form.Snapshot()
}

// Completed reports whether the reset went through.
func (f *ResetPasswordFlow) Completed() bool {
	return f.form.Snapshot().Phase == submit.Succeeded
}

// Submit validates the new password locally and confirms the reset.
// The token travels via the seed, so an expired link surfaces as the
// token_expired message like any other domain error.
func (f *ResetPasswordFlow) Submit(ctx context.Context, newPassword, confirm string) error {
	if f.Completed() {
		return ErrFlowCompleted
	}

	fe := FieldErrors{}
	validateNewPassword(fe, "new_password", newPassword)
	if _, taken := fe["new_password"]; !taken {
		validateConfirm(fe, "confirm_new_password", newPassword, confirm)
	}
	if err := fe.asError(); err != nil {
		return err
	}

	return f.form.Submit(ctx, ResetPasswordRequest{NewPassword: newPassword})
}
