package domain

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestIdentity_Validate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("wonderland"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	tests := []struct {
		name     string
		identity Identity
		want     error
	}{
		{"valid", Identity{Username: "alice", PasswordHash: string(hash), Role: "admin"}, nil},
		{"missing username", Identity{PasswordHash: string(hash), Role: "admin"}, ErrMalformedIdentity},
		{"missing hash", Identity{Username: "alice", Role: "admin"}, ErrMalformedIdentity},
		{"missing role", Identity{Username: "alice", PasswordHash: string(hash)}, ErrMissingRole},
		{"plaintext hash", Identity{Username: "carol", PasswordHash: "plaintext-secret", Role: "user"}, ErrMalformedIdentity},
		{"truncated hash", Identity{Username: "carol", PasswordHash: string(hash[:40]), Role: "user"}, ErrMalformedIdentity},
		{"unsupported cost", Identity{Username: "carol", PasswordHash: "$2a$99$" + strings.Repeat("a", 53), Role: "user"}, ErrMalformedIdentity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.identity.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if err != nil && strings.Contains(err.Error(), tc.identity.PasswordHash) && tc.identity.PasswordHash != "" {
				t.Fatalf("error leaks password hash: %v", err)
			}
		})
	}
}
