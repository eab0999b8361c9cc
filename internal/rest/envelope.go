package rest

import "encoding/json"

// ErrorCode is the small integer domain-error code carried by every non-200
// API response. The values mirror the server's error enum and are stable
// across releases.
type ErrorCode int

const (
	// CodeAccountAlreadyExists is returned by register and create-user calls.
	CodeAccountAlreadyExists ErrorCode = 0
	// CodeInvalidCredentials is returned by the password login call.
	CodeInvalidCredentials ErrorCode = 1
	// CodeInvalidTOTPCode is returned by the second-factor login call.
	CodeInvalidTOTPCode ErrorCode = 2
	// CodeWrongPassword is returned by the change-password call.
	CodeWrongPassword ErrorCode = 3
	// CodePasswordConditions is returned when a new password fails server policy.
	CodePasswordConditions ErrorCode = 4
	// CodeCouldNotResetPassword is returned by the reset-password call.
	CodeCouldNotResetPassword ErrorCode = 5
	// CodeTokenExpired is returned when a reset or verification token is stale.
	CodeTokenExpired ErrorCode = 6
	// CodeCouldNotVerifyEmail is returned by the verify-email call.
	CodeCouldNotVerifyEmail ErrorCode = 7
	// CodeRequiresAdmin is returned by admin-only calls.
	CodeRequiresAdmin ErrorCode = 8
	// CodeTwoFactorAlreadyEnabled is returned by the enable-2FA call.
	CodeTwoFactorAlreadyEnabled ErrorCode = 9
	// CodeIncorrectTOTPCode is returned by the enable/disable-2FA calls.
	CodeIncorrectTOTPCode ErrorCode = 10
	// CodeTwoFactorAlreadyDisabled is returned by the disable-2FA call.
	CodeTwoFactorAlreadyDisabled ErrorCode = 11
	// CodeUserNotFound is returned when the addressed user does not exist.
	CodeUserNotFound ErrorCode = 12
	// CodeUnknown is the server's own catch-all code.
	CodeUnknown ErrorCode = 13
)

// Reserved message keys that do not come out of the code table.
const (
	// KeyUnknownError is the fallback key for unmapped or missing codes.
	KeyUnknownError = "unknown_error"
	// KeyNetworkError is the key surfaced when no response was obtained at
	// all. It is deliberately distinct from KeyUnknownError: the recovery
	// action is retry, not corrected input.
	KeyNetworkError = "network_error"
)

var messageKeys = map[ErrorCode]string{
	CodeAccountAlreadyExists:     "account_already_exists",
	CodeInvalidCredentials:       "invalid_credentials",
	CodeInvalidTOTPCode:          "invalid_totp_code",
	CodeWrongPassword:            "wrong_password",
	CodePasswordConditions:       "password_does_not_match_conditions",
	CodeCouldNotResetPassword:    "could_not_reset_password",
	CodeTokenExpired:             "token_expired",
	CodeCouldNotVerifyEmail:      "could_not_verify_email",
	CodeRequiresAdmin:            "requires_admin",
	CodeTwoFactorAlreadyEnabled:  "two_factor_already_enabled",
	CodeIncorrectTOTPCode:        "incorrect_totp_code",
	CodeTwoFactorAlreadyDisabled: "two_factor_already_disabled",
	CodeUserNotFound:             "user_not_found",
	CodeUnknown:                  KeyUnknownError,
}

// MessageKey resolves a domain-error code to its symbolic message key.
// Unknown codes resolve to KeyUnknownError; the function is total and
// never panics.
func MessageKey(code ErrorCode) string {
	if key, ok := messageKeys[code]; ok {
		return key
	}
	return KeyUnknownError
}

// Envelope is the failure body attached to every non-200 response:
// {"error": <int>, "message": <human text>}. Message is informational
// only; clients key their UI off the code.
type Envelope struct {
	Code    ErrorCode `json:"error"`
	Message string    `json:"message,omitempty"`
}

// MessageKey resolves the envelope's code through the taxonomy table.
func (e Envelope) MessageKey() string {
	return MessageKey(e.Code)
}

// DecodeEnvelope interprets a failure body. A body without an "error"
// field must not collide with code 0, so the raw field is decoded as a
// pointer and absence maps to CodeUnknown.
func DecodeEnvelope(body []byte) Envelope {
	var raw struct {
		Code    *ErrorCode `json:"error"`
		Message string     `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || raw.Code == nil {
		return Envelope{Code: CodeUnknown, Message: raw.Message}
	}
	return Envelope{Code: *raw.Code, Message: raw.Message}
}
