package accountflow

import "regexp"

// Client-side validation mirrors, but never replaces, server validation.
// A failed check surfaces per-field message keys immediately and keeps
// the submission from ever reaching the network.

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	totpCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	hasUpperPattern = regexp.MustCompile(`[A-Z]`)
	hasLowerPattern = regexp.MustCompile(`[a-z]`)
	hasDigitPattern = regexp.MustCompile(`[0-9]`)
)

func validateEmail(fe FieldErrors, field, value string) {
	switch {
	case value == "":
		fe[field] = "please_enter_your_email"
	case !emailPattern.MatchString(value):
		fe[field] = "please_enter_a_valid_email"
	}
}

func validateTOTPCode(fe FieldErrors, field, value string) {
	switch {
	case value == "":
		fe[field] = "please_enter_a_6_digit_code"
	case !totpCodePattern.MatchString(value):
		fe[field] = "please_enter_a_valid_6_digit_code"
	}
}

func validateNewPassword(fe FieldErrors, field, value string) {
	switch {
	case value == "":
		fe[field] = "please_enter_a_password"
	case len(value) < 8:
		fe[field] = "your_password_must_have_8_characters_or_more"
	case !hasUpperPattern.MatchString(value):
		fe[field] = "your_password_must_have_1_uppercase_letter"
	case !hasLowerPattern.MatchString(value):
		fe[field] = "your_password_must_have_1_lowercase_letter"
	case !hasDigitPattern.MatchString(value):
		fe[field] = "your_password_must_have_1_digit"
	}
}

func validateConfirm(fe FieldErrors, field, password, confirm string) {
	switch {
	case confirm == "":
		fe[field] = "please_confirm_your_new_password"
	case confirm != password:
		fe[field] = "passwords_do_not_match"
	}
}

func validateRequired(fe FieldErrors, field, value, key string) {
	if value == "" {
		fe[field] = key
	}
}

// asError returns fe as an error when it holds at least one entry.
func (fe FieldErrors) asError() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
