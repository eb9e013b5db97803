// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrInvalidSessionID    = errors.New("invalid session id")
)

// NewSessionID returns a random UUID for a board session
func NewSessionID() string {
	return uuid.NewString()
}

// ParseSessionID checks the id is a well-formed UUID
func ParseSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidSessionID
	}
	return nil
}

// GenerateSessionToken creates an HMAC-based token for a session.
// Deterministic, so it can be validated without being stored.
func GenerateSessionToken(sessionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(sessionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateSessionToken checks if the provided token belongs to the session
func ValidateSessionToken(sessionID, token, salt string) error {
	expected := GenerateSessionToken(sessionID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidSessionToken
	}
	return nil
}

// GenerateSeed draws a random 64-bit proof seed
func GenerateSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate seed: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// EllipseAddress shortens an account address for display: the first and
// last six characters around an ellipsis.
func EllipseAddress(address string) string {
	const width = 6
	if len(address) <= 2*width {
		return address
	}
	return address[:width] + "..." + address[len(address)-width:]
}
