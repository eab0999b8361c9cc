package devserver

import (
	"encoding/base32"

	"github.com/gokyle/twofactor"
	"rsc.io/qr"
)

// GenerateTOTPSecret creates a fresh Google-authenticator style TOTP
// key and returns the base32 secret plus the otpauth URI for the given
// account label. The key is 20 bytes, so the base32 form needs no
// padding.
func GenerateTOTPSecret(label string) (secret, uri string) {
	t := twofactor.GenerateGoogleTOTP()
	secret = base32.StdEncoding.EncodeToString(t.Key())
	uri = t.URL(label)
	return secret, uri
}

// TOTPQRCode renders an otpauth URI as a PNG QR code for the
// provisioning response.
func TOTPQRCode(uri string) ([]byte, error) {
	code, err := qr.Encode(uri, qr.Q)
	if err != nil {
		return nil, err
	}
	return code.PNG(), nil
}

// ValidTOTPCode reports whether code is the current OTP for the given
// base32 secret. No clock-skew window: the devserver and its tests run
// on the same clock.
func ValidTOTPCode(secret, code string) bool {
	t, err := twofactor.NewGoogleTOTP(secret)
	if err != nil {
		return false
	}
	return t.OTP() == code
}
