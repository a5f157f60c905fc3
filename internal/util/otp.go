package util

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	otpMin   = 100000
	otpRange = 900000
)

// GenerateOTP returns a six-digit decimal code drawn uniformly from
// [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
