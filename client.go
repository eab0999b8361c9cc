package accountflow

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/pvdveen/accountflow/internal/rest"
)

// Endpoint paths relative to Config.HTTP.BaseURL.
const (
	pathWhoAmI             = "/api/whoami"
	pathLogin              = "/api/login"
	pathLoginTwoFactor     = "/api/login_2fa"
	pathRegister           = "/api/register"
	pathLogout             = "/api/logout"
	pathForgotPassword     = "/api/forgot_password"
	pathResetPassword      = "/api/reset_password"
	pathChangePassword     = "/api/change_password"
	pathDeleteAccount      = "/api/delete_account"
	pathVerifyEmail        = "/api/verify_email"
	pathResendVerification = "/api/resend_email_verification"
	pathGenerateTwoFactor  = "/api/generate_2fa_secret"
	pathEnableTwoFactor    = "/api/enable_2fa"
	pathDisableTwoFactor   = "/api/disable_2fa"
	pathUsers              = "/api/users"
	pathUser               = "/api/user"
)

// Client defines a public type used by accountflow APIs.
//
// Client instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise. All methods
// are safe for concurrent use after construction through
// [Builder.Build].
type Client struct {
	config  Config
	api     *rest.Client
	session *SessionStore
	log     *log.Logger
}

// Session returns the client's single session store. Exactly one store
// exists per Client; every flow writes into it and every route decision
// reads from it.
func (c *Client) Session() *SessionStore {
	return c.session
}

// whoAmI backs the session store's refresh.
func (c *Client) whoAmI(ctx context.Context) (*Principal, error) {
	var p Principal
	if err := c.api.Get(ctx, pathWhoAmI, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Logout ends the server session and clears the local one. The local
// transition to anonymous happens regardless of the call's outcome: a
// failed logout call is reported to the caller but never leaves the
// client believing it is still signed in.
func (c *Client) Logout(ctx context.Context) error {
	err := c.api.Post(ctx, pathLogout, nil, nil)
	if err != nil {
		c.log.WithError(err).Warn("logout call failed; clearing local session anyway")
	}
	c.session.Clear()
	return err
}

// ResendVerificationMail asks the server to send a fresh verification
// mail to the signed-in account.
func (c *Client) ResendVerificationMail(ctx context.Context) error {
	return c.api.Post(ctx, pathResendVerification, nil, nil)
}

// ListUsers fetches one page of the admin user listing. Admin-only: a
// non-admin caller receives a *rest.CallError carrying the
// requires_admin code, surfaced like any other domain error.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) (*UserPage, error) {
	var out UserPage
	path := fmt.Sprintf("%s?page=%d&per_page=%d", pathUsers, page, perPage)
	if err := c.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes the addressed user. Admin-only.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("%s/%d", pathUser, id), nil)
}
