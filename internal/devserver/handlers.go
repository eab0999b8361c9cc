package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"unicode"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/pvdveen/accountflow/internal/rest"
)

// principalJSON is the wire form of an authenticated account, shared by
// who-am-i, login, and the mutating account calls.
type principalJSON struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	IsAdmin          bool   `json:"is_admin"`
	IsVerified       bool   `json:"is_verified"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

type pageMetaJSON struct {
	TotalPages int `json:"total_pages"`
}

type userPageJSON struct {
	Items []principalJSON `json:"items"`
	Meta  pageMetaJSON    `json:"meta"`
}

func toPrincipal(u User) principalJSON {
	return principalJSON{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		IsAdmin:          u.IsAdmin,
		IsVerified:       u.IsVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Warn("failed to encode response body")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code rest.ErrorCode) {
	s.writeJSON(w, status, rest.Envelope{Code: code, Message: rest.MessageKey(code)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, rest.CodeUnknown)
		return false
	}
	return true
}

// currentUser resolves the session cookie to a user. On failure it has
// already written a 401 response.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (User, bool) {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, rest.CodeUserNotFound)
		return User{}, false
	}
	userID, err := s.sessions.Lookup(r.Context(), cookie.Value)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, rest.CodeUserNotFound)
		return User{}, false
	}
	u, err := s.users.ByID(userID)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, rest.CodeUserNotFound)
		return User{}, false
	}
	return u, true
}

// currentAdmin is currentUser plus an admin check (403 on failure).
func (s *Server) currentAdmin(w http.ResponseWriter, r *http.Request) (User, bool) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return User{}, false
	}
	if !u.IsAdmin {
		s.writeError(w, http.StatusForbidden, rest.CodeRequiresAdmin)
		return User{}, false
	}
	return u, true
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	sid, err := s.sessions.Create(r.Context(), userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// passwordMeetsConditions mirrors the policy the client pre-checks:
// at least eight characters with an upper-case letter, a lower-case
// letter, and a digit.
func passwordMeetsConditions(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

/* ==== SESSION ==== */

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, toPrincipal(u))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.users.Authenticate(req.Email, req.Password)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, rest.CodeInvalidCredentials)
		return
	}

	// With 2FA enabled the password step authenticates nothing yet:
	// the principal is returned for the client to inspect, but no
	// session is opened until the TOTP step succeeds.
	if u.TwoFactorEnabled {
		s.writeJSON(w, http.StatusOK, toPrincipal(u))
		return
	}

	if err := s.openSession(w, r, u.ID); err != nil {
		s.log.WithError(err).Error("failed to open session")
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusOK, toPrincipal(u))
}

func (s *Server) handleLoginTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"totp_code"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.users.ByEmail(req.Email)
	if err != nil || !u.TwoFactorEnabled {
		s.writeError(w, http.StatusUnauthorized, rest.CodeInvalidCredentials)
		return
	}
	if !ValidTOTPCode(u.TOTPSecret, req.Code) {
		s.writeError(w, http.StatusUnauthorized, rest.CodeInvalidTOTPCode)
		return
	}

	if err := s.openSession(w, r, u.ID); err != nil {
		s.log.WithError(err).Error("failed to open session")
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusOK, toPrincipal(u))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if !passwordMeetsConditions(req.Password) {
		s.writeError(w, http.StatusBadRequest, rest.CodePasswordConditions)
		return
	}

	u, err := s.users.Create(req.Email, req.Name, req.Password, false, false)
	if err == ErrEmailTaken {
		s.writeError(w, http.StatusConflict, rest.CodeAccountAlreadyExists)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("failed to create account")
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}

	if token, err := s.tokens.IssueVerification(u.Email); err == nil {
		s.recordVerificationToken(u.Email, token)
	}

	if err := s.openSession(w, r, u.ID); err != nil {
		s.log.WithError(err).Error("failed to open session")
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusCreated, toPrincipal(u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cfg.CookieName); err == nil {
		if err := s.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			s.log.WithError(err).Warn("failed to destroy session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	s.writeJSON(w, http.StatusOK, struct{}{})
}

/* ==== PASSWORDS ==== */

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	// The response never reveals whether the address has an account.
	if _, err := s.users.ByEmail(req.Email); err == nil {
		if token, err := s.tokens.IssueReset(req.Email); err == nil {
			s.recordResetToken(req.Email, token)
		}
	}
	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		ResetToken  string `json:"reset_token"`
		NewPassword string `json:"new_password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	switch err := s.tokens.VerifyReset(req.ResetToken, req.Email); err {
	case nil:
	case ErrTokenExpired:
		s.writeError(w, http.StatusBadRequest, rest.CodeTokenExpired)
		return
	default:
		s.writeError(w, http.StatusBadRequest, rest.CodeCouldNotResetPassword)
		return
	}

	if !passwordMeetsConditions(req.NewPassword) {
		s.writeError(w, http.StatusBadRequest, rest.CodePasswordConditions)
		return
	}

	u, err := s.users.ByEmail(req.Email)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, rest.CodeCouldNotResetPassword)
		return
	}
	if err := s.users.SetPassword(u.ID, req.NewPassword); err != nil {
		s.writeError(w, http.StatusBadRequest, rest.CodeCouldNotResetPassword)
		return
	}
	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if _, err := s.users.Authenticate(u.Email, req.CurrentPassword); err != nil {
		s.writeError(w, http.StatusForbidden, rest.CodeWrongPassword)
		return
	}
	if !passwordMeetsConditions(req.NewPassword) {
		s.writeError(w, http.StatusBadRequest, rest.CodePasswordConditions)
		return
	}
	if err := s.users.SetPassword(u.ID, req.NewPassword); err != nil {
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusOK, toPrincipal(u))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if err := s.users.Delete(u.ID); err != nil {
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	if cookie, err := r.Cookie(s.cfg.CookieName); err == nil {
		_ = s.sessions.Destroy(r.Context(), cookie.Value)
	}
	s.log.WithFields(log.Fields{"email": u.Email, "id": u.ID}).Info("account deleted")
	s.writeJSON(w, http.StatusOK, struct{}{})
}

/* ==== EMAIL VERIFICATION ==== */

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email             string `json:"email"`
		VerificationToken string `json:"verification_token"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	switch err := s.tokens.VerifyVerification(req.VerificationToken, req.Email); err {
	case nil:
	case ErrTokenExpired:
		s.writeError(w, http.StatusBadRequest, rest.CodeTokenExpired)
		return
	default:
		s.writeError(w, http.StatusBadRequest, rest.CodeCouldNotVerifyEmail)
		return
	}

	if err := s.users.MarkVerified(req.Email); err != nil {
		s.writeError(w, http.StatusBadRequest, rest.CodeCouldNotVerifyEmail)
		return
	}
	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	token, err := s.tokens.IssueVerification(u.Email)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.recordVerificationToken(u.Email, token)
	s.writeJSON(w, http.StatusOK, struct{}{})
}

/* ==== TWO-FACTOR ==== */

func (s *Server) handleGenerateTwoFactorSecret(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if u.TwoFactorEnabled {
		s.writeError(w, http.StatusConflict, rest.CodeTwoFactorAlreadyEnabled)
		return
	}

	secret, uri := GenerateTOTPSecret(u.Email)
	png, err := TOTPQRCode(uri)
	if err != nil {
		s.log.WithError(err).Warn("failed to render provisioning QR code")
	}
	s.writeJSON(w, http.StatusOK, struct {
		Secret     string `json:"totp_secret"`
		OTPAuthURI string `json:"otpauth_uri"`
		QRCodePNG  []byte `json:"qr_code,omitempty"`
	}{Secret: secret, OTPAuthURI: uri, QRCodePNG: png})
}

func (s *Server) handleEnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Secret string `json:"totp_secret"`
		Code   string `json:"totp_code"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if u.TwoFactorEnabled {
		s.writeError(w, http.StatusConflict, rest.CodeTwoFactorAlreadyEnabled)
		return
	}
	if !ValidTOTPCode(req.Secret, req.Code) {
		s.writeError(w, http.StatusBadRequest, rest.CodeIncorrectTOTPCode)
		return
	}

	updated, err := s.users.SetTwoFactor(u.ID, req.Secret, true)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusOK, toPrincipal(updated))
}

func (s *Server) handleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"totp_code"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if !u.TwoFactorEnabled {
		s.writeError(w, http.StatusConflict, rest.CodeTwoFactorAlreadyDisabled)
		return
	}
	if !ValidTOTPCode(u.TOTPSecret, req.Code) {
		s.writeError(w, http.StatusBadRequest, rest.CodeIncorrectTOTPCode)
		return
	}

	updated, err := s.users.SetTwoFactor(u.ID, "", false)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusOK, toPrincipal(updated))
}

/* ==== ADMIN ==== */

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentAdmin(w, r); !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	users, totalPages := s.users.List(page, perPage)

	items := make([]principalJSON, 0, len(users))
	for _, u := range users {
		items = append(items, toPrincipal(u))
	}
	s.writeJSON(w, http.StatusOK, userPageJSON{
		Items: items,
		Meta:  pageMetaJSON{TotalPages: totalPages},
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentAdmin(w, r); !ok {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if !passwordMeetsConditions(req.Password) {
		s.writeError(w, http.StatusBadRequest, rest.CodePasswordConditions)
		return
	}

	// Admin-created accounts are verified up front: there is no mail
	// loop to complete.
	u, err := s.users.Create(req.Email, "", req.Password, req.IsAdmin, true)
	if err == ErrEmailTaken {
		s.writeError(w, http.StatusConflict, rest.CodeAccountAlreadyExists)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, rest.CodeUnknown)
		return
	}
	s.writeJSON(w, http.StatusCreated, toPrincipal(u))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentAdmin(w, r); !ok {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusNotFound, rest.CodeUserNotFound)
		return
	}
	if err := s.users.Delete(id); err != nil {
		s.writeError(w, http.StatusNotFound, rest.CodeUserNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, struct{}{})
}
