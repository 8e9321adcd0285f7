package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// hashPassword returns the bcrypt hash of password at the given cost.
func hashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// checkPassword compares candidate with the stored credential.
// legacy is true when stored is not a bcrypt hash and was compared as plaintext.
func checkPassword(stored, candidate string) (ok, legacy bool) {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, true
}
