package accountflow

import (
	"context"

	"github.com/pvdveen/accountflow/submit"
)

// ChangePasswordFlow is the signed-in password change form. On success
// the server returns a fresh principal which replaces the stored one
// wholesale.
type ChangePasswordFlow struct {
	form    *submit.Form[ChangePasswordRequest, Principal]
	session *SessionStore
}

// NewChangePasswordFlow creates a change-password flow.
func (c *Client) NewChangePasswordFlow() *ChangePasswordFlow {
	f := &ChangePasswordFlow{session: c.session}
	f.form = submit.New(func(ctx context.Context, req ChangePasswordRequest) (Principal, error) {
		var p Principal
		err := c.api.Post(ctx, pathChangePassword, req, &p)
		return p, err
	})
	f.form.OnFinish(func(p Principal) {
		f.session.SetPrincipal(p)
	})
	f.form.AutoReset(c.config.Forms.AutoResetOnSuccess)
	return f
}

// State exposes the form's submission state.
func (f *ChangePasswordFlow) State() submit.Snapshot[Principal] {
	return f.form.Snapshot()
}

// Subscribe registers fn on the underlying form's state changes.
func (f *ChangePasswordFlow) Subscribe(fn func(submit.Snapshot[Principal])) func() {
	return f.form.Subscribe(fn)
}

// Submit validates locally and changes the password. A wrong current
// password comes back as the wrong_password domain message; the form
// stays re-enterable.
func (f *ChangePasswordFlow) Submit(ctx context.Context, req ChangePasswordRequest) error {
	fe := FieldErrors{}
	validateRequired(fe, "current_password", req.CurrentPassword, "please_enter_a_password")
	validateNewPassword(fe, "new_password", req.NewPassword)
	if _, taken := fe["new_password"]; !taken {
		validateConfirm(fe, "confirm_new_password", req.NewPassword, req.NewConfirm)
	}
	if err := fe.asError(); err != nil {
		return err
	}

	return f.form.Submit(ctx, req)
}

// Reset clears the form, for reuse after closing the modal.
func (f *ChangePasswordFlow) Reset() {
	f.form.Reset()
}

// DeleteAccountFlow is the account deletion confirmation. On success the
// local session is cleared; the server has already destroyed its side.
type DeleteAccountFlow struct {
	form    *submit.Form[Empty, Empty]
	session *SessionStore
}

// NewDeleteAccountFlow creates a delete-account flow.
func (c *Client) NewDeleteAccountFlow() *DeleteAccountFlow {
	f := &DeleteAccountFlow{session: c.session}
	f.form = submit.New(func(ctx context.Context, _ Empty) (Empty, error) {
		return Empty{}, c.api.Delete(ctx, pathDeleteAccount, nil)
	})
	f.form.OnFinish(func(Empty) {
		f.session.Clear()
	})
	return f
}

// State exposes the form's submission state.
func (f *DeleteAccountFlow) State() submit.Snapshot[Empty] {
	return f.form.Snapshot()
}

// Submit deletes the signed-in account.
func (f *DeleteAccountFlow) Submit(ctx context.Context) error {
	return f.form.Submit(ctx, Empty{})
}

// Reset clears the form, for reuse after closing the modal.
func (f *DeleteAccountFlow) Reset() {
	f.form.Reset()
}
