package devserver

import "time"

// Config carries the tunables of the development server. Zero values are
// filled in by DefaultConfig; a Config is treated as immutable once the
// server has been constructed from it.
type Config struct {
	/* ==== HTTP ==== */

	// Addr is the listen address used by the standalone binary. The
	// integration tests ignore it and mount the router on httptest.
	Addr string

	/* ==== SESSIONS ==== */

	// RedisAddr points at an external Redis instance. When empty an
	// embedded miniredis is started and owned by the server.
	RedisAddr string

	// SessionTTL is the idle lifetime of a session record.
	SessionTTL time.Duration

	// CookieName is the name of the session cookie.
	CookieName string

	/* ==== TOKENS ==== */

	// TokenSecret signs password-reset and email-verification tokens.
	TokenSecret string

	// TokenTTL bounds the validity of issued tokens.
	TokenTTL time.Duration

	/* ==== SEED DATA ==== */

	// SeedAdminEmail and SeedAdminPassword describe the administrator
	// account created at startup. Leave SeedAdminEmail empty to skip
	// seeding.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// DefaultConfig returns the configuration the server starts with when
// nothing is overridden: embedded Redis, a seeded administrator, and
// token lifetimes long enough for interactive use.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8099",
		SessionTTL:        24 * time.Hour,
		CookieName:        "accountflow_session",
		TokenSecret:       "dev-only-signing-secret",
		TokenTTL:          30 * time.Minute,
		SeedAdminEmail:    "admin@test.nl",
		SeedAdminPassword: "Admin1234",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = d.SessionTTL
	}
	if c.CookieName == "" {
		c.CookieName = d.CookieName
	}
	if c.TokenSecret == "" {
		c.TokenSecret = d.TokenSecret
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = d.TokenTTL
	}
	return c
}
