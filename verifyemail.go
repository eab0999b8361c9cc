package accountflow

import (
	"context"

	"github.com/pvdveen/accountflow/submit"
)

// VerifyEmailFlow consumes a verification link. Email and token are
// seeded from the link's query parameters; the flow is submitted once,
// automatically, when the verification view mounts. Verification does
// not sign the user in; a signed-in session picks up the refreshed
// verified flag on its next who-am-i refresh.
type VerifyEmailFlow struct {
	form *submit.Form[VerifyEmailRequest, Empty]
}

// NewVerifyEmailFlow creates a verification flow seeded from the link.
func (c *Client) NewVerifyEmailFlow(email, verificationToken string) *VerifyEmailFlow {
	f := &VerifyEmailFlow{}
	f.form = submit.New(func(ctx context.Context, req VerifyEmailRequest) (Empty, error) {
		return Empty{}, c.api.Post(ctx, pathVerifyEmail, req, nil)
	})
	f.form.SetSeed(VerifyEmailRequest{Email: email, VerificationToken: verificationToken})
	return f
}

// State exposes the form's submission state.
func (f *VerifyEmailFlow) State() submit.Snapshot[Empty] {
	return f.form.Snapshot()
}

// Submit verifies the seeded email and token. An expired link surfaces
// as the token_expired message.
func (f *VerifyEmailFlow) Submit(ctx context.Context) error {
	return f.form.Submit(ctx, VerifyEmailRequest{})
}
