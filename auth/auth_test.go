// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestSessionID(t *testing.T) {
	id := NewSessionID()
	if err := ParseSessionID(id); err != nil {
		t.Fatalf("ParseSessionID(%q) error = %v", id, err)
	}
	if NewSessionID() == id {
		t.Error("NewSessionID() produced duplicate IDs")
	}
	if err := ParseSessionID("not-a-uuid"); err != ErrInvalidSessionID {
		t.Errorf("ParseSessionID() error = %v, want %v", err, ErrInvalidSessionID)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		salt      string
	}{
		{"standard", "3f1c1a52-2f1e-4b8a-9c57-5a0d1f0e2b11", "secret-salt"},
		{"empty session id", "", "salt"},
		{"empty salt", "session456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := GenerateSessionToken(tt.sessionID, tt.salt)
			if token == "" {
				t.Error("GenerateSessionToken() returned empty string")
			}
			if token != GenerateSessionToken(tt.sessionID, tt.salt) {
				t.Error("GenerateSessionToken() is not deterministic")
			}
			if tt.sessionID != "" && tt.salt != "" {
				if token == GenerateSessionToken(tt.sessionID+"x", tt.salt) {
					t.Error("GenerateSessionToken() produced same token for different sessions")
				}
			}
			if strings.Contains(token, "=") {
				t.Error("GenerateSessionToken() contains padding characters")
			}
		})
	}
}

func TestValidateSessionToken(t *testing.T) {
	sessionID := "test-session-123"
	salt := "test-salt"
	validToken := GenerateSessionToken(sessionID, salt)

	tests := []struct {
		name      string
		sessionID string
		token     string
		salt      string
		wantErr   bool
	}{
		{"valid token", sessionID, validToken, salt, false},
		{"wrong token", sessionID, "wrong-token", salt, true},
		{"wrong session id", "different-session", validToken, salt, true},
		{"wrong salt", sessionID, validToken, "different-salt", true},
		{"empty token", sessionID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionToken(tt.sessionID, tt.token, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidSessionToken {
				t.Errorf("ValidateSessionToken() error = %v, want %v", err, ErrInvalidSessionToken)
			}
		})
	}
}

func TestGenerateSeed(t *testing.T) {
	a, err := GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed() error = %v", err)
	}
	b, _ := GenerateSeed()
	if a == b {
		t.Error("GenerateSeed() produced the same seed twice (extremely unlikely)")
	}
}

func TestEllipseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"SHORT", "SHORT"},
		{"ABCDEFGHIJKL", "ABCDEFGHIJKL"},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ234567ABCDEFGHIJKLMNOPQRSTUVWX", "ABCDEF...STUVWX"},
	}
	for _, tt := range tests {
		if got := EllipseAddress(tt.in); got != tt.want {
			t.Errorf("EllipseAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
