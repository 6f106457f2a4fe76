package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

var otpSpace = big.NewInt(1_000_000)

// GenOTPCode generates a uniformly random 6-digit code as a zero-padded string
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPEqual compares two codes in constant time
func OTPEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// GenState returns a random url-safe string for OAuth state parameters
func GenState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}
