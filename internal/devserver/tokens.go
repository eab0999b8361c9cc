package devserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token issued for one purpose never validates for
// another.
const (
	purposeReset  = "password_reset"
	purposeVerify = "email_verification"
)

var (
	// ErrTokenExpired marks a token that was valid but has aged out.
	ErrTokenExpired = errors.New("devserver: token expired")

	// ErrTokenInvalid marks a token that never was valid: bad
	// signature, wrong purpose, or wrong subject.
	ErrTokenInvalid = errors.New("devserver: token invalid")
)

// TokenIssuer signs and checks the short-lived JWTs that stand in for
// password-reset and email-verification mail links.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns an issuer signing with the given secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) issue(email, purpose string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     normalizeEmail(email),
		"purpose": purpose,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// IssueReset mints a password-reset token for an address.
func (t *TokenIssuer) IssueReset(email string) (string, error) {
	return t.issue(email, purposeReset)
}

// IssueVerification mints an email-verification token for an address.
func (t *TokenIssuer) IssueVerification(email string) (string, error) {
	return t.issue(email, purposeVerify)
}

func (t *TokenIssuer) verify(token, email, purpose string) error {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	if err != nil || !parsed.Valid {
		return ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ErrTokenInvalid
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return ErrTokenInvalid
	}
	if sub, _ := claims["sub"].(string); sub != normalizeEmail(email) {
		return ErrTokenInvalid
	}
	return nil
}

// VerifyReset checks a password-reset token against an address.
func (t *TokenIssuer) VerifyReset(token, email string) error {
	return t.verify(token, email, purposeReset)
}

// VerifyVerification checks an email-verification token against an
// address.
func (t *TokenIssuer) VerifyVerification(token, email string) error {
	return t.verify(token, email, purposeVerify)
}
