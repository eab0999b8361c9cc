package accountflow

import (
	"errors"
	"net/url"
	"time"
)

// Config defines a public type used by accountflow APIs.
//
// Config instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type Config struct {
	HTTP  HTTPConfig
	Forms FormsConfig
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig defines a public type used by accountflow APIs.
//
// HTTPConfig instances are intended to be configured during
// initialization and then treated as immutable unless documented
// otherwise.
type HTTPConfig struct {
	// BaseURL is the root of the account API, e.g. "http://localhost:8080".
	// Endpoint paths ("/api/login", ...) are appended to it.
	BaseURL string
	// Timeout applies to the default http.Client only; an injected client
	// keeps its own transport settings.
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
FORMS CONFIG
====================================
*/

// FormsConfig defines a public type used by accountflow APIs.
//
// FormsConfig instances are intended to be configured during
// initialization and then treated as immutable unless documented
// otherwise.
type FormsConfig struct {
	// AutoResetOnSuccess returns single-step forms (forgot password,
	// change password, admin create user) to idle after their completion
	// hook ran, matching modal-close behavior. Multi-step flows manage
	// their own reset points regardless of this setting.
	AutoResetOnSuccess bool
}

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "accountflow",
		},
		Forms: FormsConfig{
			AutoResetOnSuccess: false,
		},
	}
}

// Validate checks the configuration for values Build cannot work with.
func (c Config) Validate() error {
	if c.HTTP.BaseURL == "" {
		return errors.New("accountflow: HTTP.BaseURL is required")
	}
	u, err := url.Parse(c.HTTP.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("accountflow: HTTP.BaseURL must be an absolute URL")
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("accountflow: HTTP.Timeout must not be negative")
	}
	return nil
}
