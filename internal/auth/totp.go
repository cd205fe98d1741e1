package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpIssuer is the name shown in authenticator apps.
const totpIssuer = "Nova Creations"

// backupCodeCount is how many single-use fallback codes an enrollment gets.
const backupCodeCount = 8

// GenerateTOTPKey creates a new shared secret for the given account and
// returns the base32 secret plus the otpauth provisioning URL.
func GenerateTOTPKey(email string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// VerifyTOTP checks a submitted code against the secret, allowing one time
// step of clock drift in either direction.
func VerifyTOTP(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}
