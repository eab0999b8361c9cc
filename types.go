package accountflow

// Principal is the authenticated user as confirmed by the server. It is
// received wholesale on every successful authentication-family call and
// is never partially mutated client-side: any change arrives as a fresh
// Principal in the next successful response.
type Principal struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	IsAdmin          bool   `json:"is_admin"`
	IsVerified       bool   `json:"is_verified"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

// UserSummary is one row of the admin user listing.
type UserSummary struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	IsAdmin          bool   `json:"is_admin"`
	IsVerified       bool   `json:"is_verified"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

// PageMeta carries the pagination envelope of list calls.
type PageMeta struct {
	TotalPages int `json:"total_pages"`
}

// UserPage is the response of the admin user listing.
type UserPage struct {
	Items []UserSummary `json:"items"`
	Meta  PageMeta      `json:"meta"`
}

// PasswordCredentials is the value shape of the password login step.
type PasswordCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TOTPAttempt is the value shape of the second-factor login step. Email
// is carried over from the password step, not re-entered.
type TOTPAttempt struct {
	Email string `json:"email"`
	Code  string `json:"totp_code"`
}

// RegistrationDetails is the value shape of the registration form.
// PasswordConfirm is checked locally and never sent to the server.
type RegistrationDetails struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"-"`
}

// ForgotPasswordRequest is the value shape of the reset-request form.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the value shape of the reset confirmation.
// Email and ResetToken are seeded read-only from the incoming link.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest is the value shape of the change-password form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	NewConfirm      string `json:"-"`
}

// VerifyEmailRequest is the value shape of the email verification call.
// Both fields are seeded from the verification link.
type VerifyEmailRequest struct {
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
}

// EnableTwoFactorRequest is the value shape of the 2FA enrolment
// confirmation. The secret is seeded from the provisioning call.
type EnableTwoFactorRequest struct {
	TOTPSecret string `json:"totp_secret"`
	TOTPCode   string `json:"totp_code"`
}

// DisableTwoFactorRequest is the value shape of the 2FA teardown form.
type DisableTwoFactorRequest struct {
	TOTPCode string `json:"totp_code"`
}

// CreateUserRequest is the value shape of the admin create-user form.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Empty is the decoded shape of calls that succeed with no body worth
// reading (forgot password, reset password, verify email).
type Empty struct{}

// TOTPProvision is returned by the 2FA provisioning call: the base32
// secret to confirm with, the otpauth:// URI, and the server-rendered
// QR code as PNG bytes (transported base64-encoded).
type TOTPProvision struct {
	Secret     string `json:"totp_secret"`
	OTPAuthURI string `json:"otpauth_uri"`
	QRCodePNG  []byte `json:"qr_code"`
}
