package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const loginEmailDomain = "trucomm.com"

// NewMMID returns a random 10-digit member id.
func NewMMID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%010d", n), nil
}

// LoginEmail derives the internal login address from a username and MMID.
// It is the credential identifier, distinct from the contact email.
func LoginEmail(username, mmid string) string {
	return fmt.Sprintf("%s_%s@%s", username, mmid, loginEmailDomain)
}
