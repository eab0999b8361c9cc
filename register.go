package accountflow

import (
	"context"

	"github.com/pvdveen/accountflow/submit"
)

// RegisterFlow is the single-step registration form. The password
// confirmation is matched locally before submission; on success the
// server's principal goes straight into the session store.
type RegisterFlow struct {
	form    *submit.Form[RegistrationDetails, Principal]
	session *SessionStore
}

// NewRegisterFlow creates a registration flow.
func (c *Client) NewRegisterFlow() *RegisterFlow {
	f := &RegisterFlow{session: c.session}
	f.form = submit.New(func(ctx context.Context, details RegistrationDetails) (Principal, error) {
		var p Principal
		err := c.api.Post(ctx, pathRegister, details, &p)
		return p, err
	})
	f.form.OnFinish(func(p Principal) {
		f.session.SetPrincipal(p)
	})
	return f
}

// State exposes the form's submission state.
func (f *RegisterFlow) State() submit.Snapshot[Principal] {
	return f.form.Snapshot()
}

// Subscribe registers fn on the underlying form's state changes.
func (f *RegisterFlow) Subscribe(fn func(submit.Snapshot[Principal])) func() {
	return f.form.Subscribe(fn)
}

// Submit validates the details locally and registers the account. The
// confirmation field never reaches the network.
func (f *RegisterFlow) Submit(ctx context.Context, details RegistrationDetails) error {
	fe := FieldErrors{}
	validateRequired(fe, "name", details.Name, "please_enter_your_name")
	validateEmail(fe, "email", details.Email)
	validateNewPassword(fe, "password", details.Password)
	if _, taken := fe["password"]; !taken {
		validateConfirm(fe, "password_confirm", details.Password, details.PasswordConfirm)
	}
	if err := fe.asError(); err != nil {
		return err
	}

	return f.form.Submit(ctx, details)
}

// Reset clears the form, for reuse after closing the register modal.
func (f *RegisterFlow) Reset() {
	f.form.Reset()
}
