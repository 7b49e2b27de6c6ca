// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/pemira/evote-server/models"
)

var (
	ErrInvalidAdminCode = errors.New("invalid admin code")
)

// RandomCode generates one voter code: CodeLength characters drawn uniformly
// from CodeAlphabet (uppercase letters and digits). Uniqueness against the
// database is the store's concern; this only produces a candidate.
func RandomCode() (string, error) {
	alphabet := models.CodeAlphabet
	max := big.NewInt(int64(len(alphabet)))

	buf := make([]byte, models.CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate voter code: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidateAdminCode checks the presented admin code against the configured
// shared secret. Constant-time compare; not a real security boundary, just
// keeps the check from leaking prefix length via timing.
func ValidateAdminCode(presented, configured string) error {
	if !hmac.Equal([]byte(presented), []byte(configured)) {
		return ErrInvalidAdminCode
	}
	return nil
}
