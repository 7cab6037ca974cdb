package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned once a token's TTL has elapsed.
	ErrTokenExpired = errors.New("token expired")
)

// Signer seals opaque payloads into tamper-evident, expiring tokens bound to a subject.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns how long issued tokens remain valid.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign returns payload.expiry.signature where the signature covers the subject too.
func (s *Signer) Sign(subject string, payload []byte, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("subject required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := now.Add(s.ttl)
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{encoded, ts, s.mac(subject, ts, encoded)}, ".")
	return token, expiresAt, nil
}

// Verify checks the signature, subject binding and expiry, returning the payload.
func (s *Signer) Verify(token, subject string, now time.Time) ([]byte, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: format", ErrInvalidToken)
	}
	encoded, ts, signature := parts[0], parts[1], parts[2]

	expected := s.mac(subject, ts, encoded)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("%w: signature", ErrInvalidToken)
	}

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp", ErrInvalidToken)
	}
	if now.After(time.Unix(expUnix, 0)) {
		return nil, ErrTokenExpired
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: payload", ErrInvalidToken)
	}
	return payload, nil
}

func (s *Signer) mac(subject, ts, encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(subject + "|" + ts + "|" + encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
