package devserver

import (
	"strings"
	"testing"

	"github.com/gokyle/twofactor"
)

func TestGenerateTOTPSecret(t *testing.T) {
	secret, uri := GenerateTOTPSecret("user@test.nl")
	if len(secret) != 32 {
		t.Fatalf("expected 32-character base32 secret, got %d", len(secret))
	}
	if strings.Contains(secret, "=") {
		t.Fatalf("expected unpadded secret, got %q", secret)
	}
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("expected otpauth URI, got %q", uri)
	}
}

func TestValidTOTPCode(t *testing.T) {
	secret, _ := GenerateTOTPSecret("user@test.nl")

	otp, err := twofactor.NewGoogleTOTP(secret)
	if err != nil {
		t.Fatalf("secret did not parse: %v", err)
	}
	if !ValidTOTPCode(secret, otp.OTP()) {
		t.Fatal("current code must validate")
	}
	if ValidTOTPCode(secret, "000000") {
		t.Fatal("arbitrary code must not validate")
	}
	if ValidTOTPCode("not base32 at all", "123456") {
		t.Fatal("unparseable secret must not validate")
	}
}

func TestTOTPQRCode(t *testing.T) {
	_, uri := GenerateTOTPSecret("user@test.nl")
	png, err := TOTPQRCode(uri)
	if err != nil {
		t.Fatalf("TOTPQRCode failed: %v", err)
	}
	if len(png) == 0 || string(png[1:4]) != "PNG" {
		t.Fatalf("expected PNG bytes, got %d bytes", len(png))
	}
}
