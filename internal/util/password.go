package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used for password and OTP
// digests.
const DefaultHashCost = 10

// HashPassword derives a salted bcrypt digest from plaintext. The salt is
// generated by bcrypt and embedded in the digest.
func HashPassword(plaintext string) (string, error) {
	if len(plaintext) == 0 {
		return "", errors.New("password cannot be empty")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), DefaultHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches digest. bcrypt performs
// the comparison in constant time regardless of where the inputs diverge.
func VerifyPassword(plaintext, digest string) bool {
	if len(plaintext) == 0 || len(digest) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
