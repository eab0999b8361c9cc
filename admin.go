package accountflow

import (
	"context"

	"github.com/pvdveen/accountflow/submit"
)

// CreateUserFlow is the admin create-user modal's form. It shares the
// submission engine with every other form but owns its own state: an
// open login modal and an open create-user modal never interfere.
type CreateUserFlow struct {
	form *submit.Form[CreateUserRequest, UserSummary]
}

// NewCreateUserFlow creates an admin create-user flow. The server
// enforces the admin requirement; a non-admin submission surfaces the
// requires_admin message like any other domain error.
func (c *Client) NewCreateUserFlow() *CreateUserFlow {
	f := &CreateUserFlow{}
	f.form = submit.New(func(ctx context.Context, req CreateUserRequest) (UserSummary, error) {
		var out UserSummary
		err := c.api.Post(ctx, pathUsers, req, &out)
		return out, err
	})
	f.form.AutoReset(c.config.Forms.AutoResetOnSuccess)
	return f
}

// State exposes the form's submission state.
func (f *CreateUserFlow) State() submit.Snapshot[UserSummary] {
	return f.form.Snapshot()
}

// OnFinish registers a hook run once per created user, typically a
// listing reload.
func (f *CreateUserFlow) OnFinish(fn func(UserSummary)) {
	f.form.OnFinish(fn)
}

// Submit validates locally and creates the user.
func (f *CreateUserFlow) Submit(ctx context.Context, req CreateUserRequest) error {
	fe := FieldErrors{}
	validateEmail(fe, "email", req.Email)
	validateNewPassword(fe, "password", req.Password)
	if err := fe.asError(); err != nil {
		return err
	}
	return f.form.Submit(ctx, req)
}

// Reset clears the form, for reuse after closing the modal.
func (f *CreateUserFlow) Reset() {
	f.form.Reset()
}
