// Package signing implements the HMAC tokens behind the admin gate. A token
// carries its own expiry, so no session state is stored server-side.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signer generates and validates HMAC based tokens.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer.
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign returns the hex signature for a subject/expiry pair.
func (s *Signer) Sign(subject string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	payload := fmt.Sprintf("%s:%d", subject, expiresUnix)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate compares the provided signature with the expected one.
func (s *Signer) Validate(subject, expires, signature string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	expected := s.Sign(subject, exp)
	// Constant-time comparison avoids leaking signature prefixes.
	return hmac.Equal([]byte(expected), []byte(signature))
}

// IssueToken mints a self-expiring token of the form "<expiry>.<signature>".
func (s *Signer) IssueToken(subject string, expiresAt time.Time) string {
	exp := expiresAt.Unix()
	return fmt.Sprintf("%d.%s", exp, s.Sign(subject, exp))
}

// VerifyToken checks the signature and the embedded expiry.
func (s *Signer) VerifyToken(subject, token string) bool {
	expires, signature, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || time.Unix(exp, 0).Before(time.Now()) {
		return false
	}
	return s.Validate(subject, expires, signature)
}
