package devserver

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Server bundles the stores, the token issuer, and the HTTP handlers of
// the development account API.
type Server struct {
	cfg      Config
	log      *log.Logger
	users    *UserStore
	sessions *SessionStore
	tokens   *TokenIssuer

	mini *miniredis.Miniredis
	rdb  *redis.Client

	// Last issued tokens per address, in place of outbound mail.
	mailMu     sync.Mutex
	lastReset  map[string]string
	lastVerify map[string]string
}

// New constructs a server from cfg. With an empty RedisAddr an embedded
// miniredis is started and owned by the server; Close shuts it down.
// When SeedAdminEmail is set a verified administrator account is
// created.
func New(cfg Config, logger *log.Logger) (*Server, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.New()
	}

	s := &Server{
		cfg:        cfg,
		log:        logger,
		users:      NewUserStore(),
		tokens:     NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL),
		lastReset:  make(map[string]string),
		lastVerify: make(map[string]string),
	}

	addr := cfg.RedisAddr
	if addr == "" {
		mini, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("devserver: start embedded redis: %w", err)
		}
		s.mini = mini
		addr = mini.Addr()
	}
	s.rdb = redis.NewClient(&redis.Options{Addr: addr})
	s.sessions = NewSessionStore(s.rdb, cfg.SessionTTL)

	if cfg.SeedAdminEmail != "" {
		admin, err := s.users.Create(cfg.SeedAdminEmail, "Administrator", cfg.SeedAdminPassword, true, true)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("devserver: seed admin: %w", err)
		}
		logger.WithFields(log.Fields{
			"email": admin.Email,
			"id":    admin.ID,
		}).Info("seeded administrator account")
	}

	return s, nil
}

// Users exposes the account store, mainly for test setup.
func (s *Server) Users() *UserStore { return s.users }

// Close releases the Redis client and, if one was started, the embedded
// miniredis.
func (s *Server) Close() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Router returns the API route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/whoami", s.handleWhoAmI).Methods(http.MethodGet)
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/login_2fa", s.handleLoginTwoFactor).Methods(http.MethodPost)
	r.HandleFunc("/api/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodPost)

	r.HandleFunc("/api/forgot_password", s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/reset_password", s.handleResetPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/change_password", s.handleChangePassword).Methods(http.MethodPost)
	r.HandleFunc("/api/delete_account", s.handleDeleteAccount).Methods(http.MethodDelete)

	r.HandleFunc("/api/verify_email", s.handleVerifyEmail).Methods(http.MethodPost)
	r.HandleFunc("/api/resend_email_verification", s.handleResendVerification).Methods(http.MethodPost)

	r.HandleFunc("/api/generate_2fa_secret", s.handleGenerateTwoFactorSecret).Methods(http.MethodGet)
	r.HandleFunc("/api/enable_2fa", s.handleEnableTwoFactor).Methods(http.MethodPost)
	r.HandleFunc("/api/disable_2fa", s.handleDisableTwoFactor).Methods(http.MethodPost)

	r.HandleFunc("/api/users", s.handleListUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users", s.handleCreateUser).Methods(http.MethodPost)
	r.HandleFunc("/api/user/{id:[0-9]+}", s.handleDeleteUser).Methods(http.MethodDelete)

	return r
}

// LastResetToken returns the most recent password-reset token issued
// for an address, or "" when none was issued.
func (s *Server) LastResetToken(email string) string {
	s.mailMu.Lock()
	defer s.mailMu.Unlock()
	return s.lastReset[normalizeEmail(email)]
}

// LastVerificationToken returns the most recent email-verification
// token issued for an address, or "" when none was issued.
func (s *Server) LastVerificationToken(email string) string {
	s.mailMu.Lock()
	defer s.mailMu.Unlock()
	return s.lastVerify[normalizeEmail(email)]
}

func (s *Server) recordResetToken(email, token string) {
	s.mailMu.Lock()
	s.lastReset[normalizeEmail(email)] = token
	s.mailMu.Unlock()
	s.log.WithFields(log.Fields{
		"email": normalizeEmail(email),
		"token": token,
	}).Info("password reset token issued")
}

func (s *Server) recordVerificationToken(email, token string) {
	s.mailMu.Lock()
	s.lastVerify[normalizeEmail(email)] = token
	s.mailMu.Unlock()
	s.log.WithFields(log.Fields{
		"email": normalizeEmail(email),
		"token": token,
	}).Info("email verification token issued")
}
