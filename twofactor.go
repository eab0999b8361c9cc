package accountflow

import (
	"context"

	"rsc.io/qr"

	"github.com/pvdveen/accountflow/submit"
)

// GenerateTwoFactorSecret asks the server for a fresh TOTP provisioning:
// the base32 secret, the otpauth:// URI, and a server-rendered QR code.
// The secret is confirmed — and two-factor actually enabled — only
// through a subsequent EnableTwoFactorFlow submission.
func (c *Client) GenerateTwoFactorSecret(ctx context.Context) (*TOTPProvision, error) {
	var out TOTPProvision
	if err := c.api.Get(ctx, pathGenerateTwoFactor, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QRCodePNG renders an otpauth:// URI as a PNG QR code locally, for
// callers that prefer not to ship image bytes over the wire.
func QRCodePNG(otpauthURI string) ([]byte, error) {
	code, err := qr.Encode(otpauthURI, qr.Q)
	if err != nil {
		return nil, err
	}
	return code.PNG(), nil
}

// EnableTwoFactorFlow confirms a provisioned secret with a code from the
// user's authenticator app. The secret rides along as a seed value; the
// user enters only the 6-digit code. Success returns a fresh principal
// with the two-factor flag set.
type EnableTwoFactorFlow struct {
	form    *submit.Form[EnableTwoFactorRequest, Principal]
	session *SessionStore
}

// NewEnableTwoFactorFlow creates an enrolment confirmation for the given
// provisioned secret.
func (c *Client) NewEnableTwoFactorFlow(totpSecret string) *EnableTwoFactorFlow {
	f := &EnableTwoFactorFlow{session: c.session}
	f.form = submit.New(func(ctx context.Context, req EnableTwoFactorRequest) (Principal, error) {
		var p Principal
		err := c.api.Post(ctx, pathEnableTwoFactor, req, &p)
		return p, err
	})
	f.form.SetSeed(EnableTwoFactorRequest{TOTPSecret: totpSecret})
	f.form.OnFinish(func(p Principal) {
		f.session.SetPrincipal(p)
	})
	return f
}

// State exposes the form's submission state.
func (f *EnableTwoFactorFlow) State() submit.Snapshot[Principal] {
	return f.form.Snapshot()
}

// Submit checks the code format locally and confirms the enrolment.
func (f *EnableTwoFactorFlow) Submit(ctx context.Context, code string) error {
	fe := FieldErrors{}
	validateTOTPCode(fe, "totp_code", code)
	if err := fe.asError(); err != nil {
		return err
	}
	return f.form.Submit(ctx, EnableTwoFactorRequest{TOTPCode: code})
}

// Reset clears the form, for reuse after closing the modal.
func (f *EnableTwoFactorFlow) Reset() {
	f.form.Reset()
}

// DisableTwoFactorFlow turns two-factor off again; the server demands a
// valid current code before doing so.
type DisableTwoFactorFlow struct {
	form    *submit.Form[DisableTwoFactorRequest, Principal]
	session *SessionStore
}

// NewDisableTwoFactorFlow creates a two-factor teardown flow.
func (c *Client) NewDisableTwoFactorFlow() *DisableTwoFactorFlow {
	f := &DisableTwoFactorFlow{session: c.session}
	f.form = submit.New(func(ctx context.Context, req DisableTwoFactorRequest) (Principal, error) {
		var p Principal
		err := c.api.Post(ctx, pathDisableTwoFactor, req, &p)
		return p, err
	})
	f.form.OnFinish(func(p Principal) {
		f.session.SetPrincipal(p)
	})
	return f
}

// State exposes the form's submission state.
func (f *DisableTwoFactorFlow) State() submit.Snapshot[Principal] {
	return f.form.Snapshot()
}

// Submit checks the code format locally and disables two-factor.
func (f *DisableTwoFactorFlow) Submit(ctx context.Context, code string) error {
	fe := FieldErrors{}
	validateTOTPCode(fe, "totp_code", code)
	if err := fe.asError(); err != nil {
		return err
	}
	return f.form.Submit(ctx, DisableTwoFactorRequest{TOTPCode: code})
}
