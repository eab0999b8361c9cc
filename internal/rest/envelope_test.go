package rest

import "testing"

func TestMessageKeyCoversWholeTable(t *testing.T) {
	cases := map[ErrorCode]string{
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
		CodeUnknown:                  "unknown_error",
	}
	for code, want := range cases {
		if got := MessageKey(code); got != want {
			t.Errorf("MessageKey(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestMessageKeyUnmappedFallsBack(t *testing.T) {
	if got := MessageKey(ErrorCode(99)); got != KeyUnknownError {
		t.Fatalf("expected fallback to %s, got %q", KeyUnknownError, got)
	}
	if got := MessageKey(ErrorCode(-1)); got != KeyUnknownError {
		t.Fatalf("expected fallback to %s, got %q", KeyUnknownError, got)
	}
}

func TestDecodeEnvelopeZeroCode(t *testing.T) {
	env := DecodeEnvelope([]byte(`{"error":0,"message":"account_already_exists"}`))
	if env.Code != CodeAccountAlreadyExists {
		t.Fatalf("expected code 0 to survive decoding, got %d", env.Code)
	}
	if env.MessageKey() != "account_already_exists" {
		t.Fatalf("unexpected key %q", env.MessageKey())
	}
}

func TestDecodeEnvelopeMissingCode(t *testing.T) {
	for _, body := range []string{`{}`, `{"message":"oops"}`, `not json`, ``} {
		env := DecodeEnvelope([]byte(body))
		if env.Code != CodeUnknown {
			t.Errorf("body %q: expected CodeUnknown, got %d", body, env.Code)
		}
	}
}
