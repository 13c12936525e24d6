// Package nonce issues and verifies the authorization tokens that gate the
// event-recording endpoint. A token is "<unix-timestamp>.<signature>" where
// the signature is a truncated HMAC-SHA256 of the timestamp, so the
// collector can verify tokens statelessly and expire them by age.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureLength is the number of hex characters used for the truncated
// HMAC signature.
const SignatureLength = 12

// DefaultMaxAge bounds how long an issued token stays valid.
const DefaultMaxAge = 12 * time.Hour

// Verification failures. All collapse to a generic rejection at the HTTP
// boundary; the distinction is for logs.
var (
	ErrMalformed = errors.New("nonce: malformed token")
	ErrExpired   = errors.New("nonce: token expired")
	ErrSignature = errors.New("nonce: signature mismatch")
)

// Signer issues and verifies nonce tokens using a shared secret.
type Signer struct {
	secret []byte
	maxAge time.Duration
}

// NewSigner creates a Signer with the given secret and DefaultMaxAge.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), maxAge: DefaultMaxAge}
}

// NewSignerWithMaxAge creates a Signer with an explicit token lifetime.
func NewSignerWithMaxAge(secret string, maxAge time.Duration) *Signer {
	return &Signer{secret: []byte(secret), maxAge: maxAge}
}

// Issue creates a token bound to the given time.
func (s *Signer) Issue(now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 10)

	return fmt.Sprintf("%s.%s", ts, s.sign(ts))
}

// Verify checks the token's structure, age, and signature against now.
// Tokens from the future are rejected the same as expired ones.
func (s *Signer) Verify(token string, now time.Time) error {
	ts, sig, ok := strings.Cut(token, ".")
	if !ok || ts == "" || len(sig) != SignatureLength {
		return ErrMalformed
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformed
	}

	age := now.Unix() - issued
	if age < 0 || age > int64(s.maxAge.Seconds()) {
		return ErrExpired
	}

	if !hmac.Equal([]byte(s.sign(ts)), []byte(sig)) {
		return ErrSignature
	}

	return nil
}

// sign computes the truncated HMAC-SHA256 hex signature of the message.
func (s *Signer) sign(message string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))

	return hex.EncodeToString(mac.Sum(nil))[:SignatureLength]
}
