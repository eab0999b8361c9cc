package accountflow

import (
	"net/http"
	"net/http/cookiejar"

	log "github.com/sirupsen/logrus"

	"github.com/pvdveen/accountflow/internal/rest"
)

// Builder defines a public type used by accountflow APIs.
//
// Builder instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type Builder struct {
	config     Config
	httpClient *http.Client
	logger     *log.Logger

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the API root without replacing the rest of the
// configuration.
func (b *Builder) WithBaseURL(base string) *Builder {
	b.config.HTTP.BaseURL = base
	return b
}

// WithHTTPClient injects the http.Client used for every call. The client
// should carry a cookie jar; when it has none, Build installs one so the
// session cookie survives between calls.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithLogger injects the logger shared by the client and its flows.
func (b *Builder) WithLogger(logger *log.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and assembles a ready Client. The
// session store is created in its Unknown state; callers refresh it once
// eagerly at startup via Client.Session().Refresh.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = log.New()
	}

	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.HTTP.Timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}

	api := rest.New(cfg.HTTP.BaseURL, hc, cfg.HTTP.UserAgent, logger)

	client := &Client{
		config: cfg,
		api:    api,
		log:    logger,
	}
	client.session = newSessionStore(client.whoAmI, logger)

	b.built = true

	return client, nil
}
