// Command accountflow-devserver runs the reference account API on a
// local port, backed by embedded Redis unless REDIS_ADDR points at a
// real instance. It is the backend the accountflow client is developed
// and tested against.
//
// Run:
//
//	go run ./cmd/accountflow-devserver
//
// Then:
//
//	# login as the seeded administrator (cookie jar keeps the session)
//	curl -i -c jar.txt -X POST localhost:8099/api/login \
//	  -H 'Content-Type: application/json' \
//	  -d '{"email":"admin@test.nl","password":"Admin1234"}'
//
//	# who am i
//	curl -i -b jar.txt localhost:8099/api/whoami
package main

import (
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/pvdveen/accountflow/internal/devserver"
)

type envSettings struct {
	Addr              string        `envconfig:"ADDR" default:":8099"`
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"30m"`
	TokenSecret       string        `envconfig:"TOKEN_SECRET" default:"dev-only-signing-secret"`
	CookieName        string        `envconfig:"COOKIE_NAME" default:"accountflow_session"`
	SeedAdminEmail    string        `envconfig:"SEED_ADMIN_EMAIL" default:"admin@test.nl"`
	SeedAdminPassword string        `envconfig:"SEED_ADMIN_PASSWORD" default:"Admin1234"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	logger := log.New()

	var env envSettings
	if err := envconfig.Process("ACCOUNTFLOW", &env); err != nil {
		logger.WithError(err).Fatal("failed to load environment")
	}
	if level, err := log.ParseLevel(env.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	srv, err := devserver.New(devserver.Config{
		Addr:              env.Addr,
		RedisAddr:         env.RedisAddr,
		SessionTTL:        env.SessionTTL,
		TokenTTL:          env.TokenTTL,
		TokenSecret:       env.TokenSecret,
		CookieName:        env.CookieName,
		SeedAdminEmail:    env.SeedAdminEmail,
		SeedAdminPassword: env.SeedAdminPassword,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start devserver")
	}
	defer srv.Close()

	logger.WithField("addr", env.Addr).Info("devserver listening")
	if err := http.ListenAndServe(env.Addr, srv.Router()); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
