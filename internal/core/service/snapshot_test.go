package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/99minutos/identity-service/internal/core/domain"
)

type stubIdentitySource struct {
	records []domain.Identity
	err     error
	calls   int
}

func (s *stubIdentitySource) ListIdentities(_ context.Context) ([]domain.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestLoadSnapshot_Success(t *testing.T) {
	src := &stubIdentitySource{records: []domain.Identity{
		{Username: "alice", PasswordHash: hashPassword(t, "hash-a"), Role: "admin"},
		{Username: "bob", PasswordHash: hashPassword(t, "hash-b"), Role: "viewer"},
	}}

	snap, err := LoadSnapshot(context.Background(), src, "stub")
	if err != nil {
		t.Fatalf("LoadSnapshot returned error: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected exactly one bulk read, got %d", src.calls)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", snap.Len())
	}

	rec, err := snap.Lookup("bob")
	if err != nil {
		t.Fatalf("lookup bob: %v", err)
	}
	if rec.Role != "viewer" {
		t.Fatalf("unexpected role: %s", rec.Role)
	}

	stats := snap.Stats()
	if stats.Source != "stub" || stats.Records != 2 || stats.LoadedAt.IsZero() {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestLoadSnapshot_SourceUnavailable(t *testing.T) {
	src := &stubIdentitySource{err: errors.New("connection refused")}

	snap, err := LoadSnapshot(context.Background(), src, "stub")
	if snap != nil {
		t.Fatalf("expected no snapshot")
	}
	if !errors.Is(err, domain.ErrSnapshotUnavailable) {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}
}

func TestNewSnapshot_RejectsInvalidRecords(t *testing.T) {
	cases := []struct {
		name    string
		records []domain.Identity
		want    error
	}{
		{
			name:    "missing role",
			records: []domain.Identity{{Username: "alice", PasswordHash: hashPassword(t, "hash")}},
			want:    domain.ErrMissingRole,
		},
		{
			name:    "missing username",
			records: []domain.Identity{{PasswordHash: hashPassword(t, "hash"), Role: "admin"}},
			want:    domain.ErrMalformedIdentity,
		},
		{
			name:    "missing hash",
			records: []domain.Identity{{Username: "alice", Role: "admin"}},
			want:    domain.ErrMalformedIdentity,
		},
		{
			name:    "plaintext hash",
			records: []domain.Identity{{Username: "carol", PasswordHash: "plaintext-secret", Role: "user"}},
			want:    domain.ErrMalformedIdentity,
		},
		{
			name:    "truncated hash",
			records: []domain.Identity{{Username: "carol", PasswordHash: hashPassword(t, "secret")[:30], Role: "user"}},
			want:    domain.ErrMalformedIdentity,
		},
		{
			name: "duplicate username",
			records: []domain.Identity{
				{Username: "alice", PasswordHash: hashPassword(t, "hash-1"), Role: "admin"},
				{Username: "alice", PasswordHash: hashPassword(t, "hash-2"), Role: "viewer"},
			},
			want: domain.ErrAmbiguousIdentity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := NewSnapshot("stub", tc.records)
			if snap != nil {
				t.Fatalf("expected no partial snapshot")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if strings.Contains(err.Error(), "$2a$") || strings.Contains(err.Error(), "plaintext-secret") {
				t.Fatalf("error leaks password hash: %v", err)
			}
		})
	}
}

func TestSnapshot_UsernamesAreCaseSensitive(t *testing.T) {
	snap, err := NewSnapshot("stub", []domain.Identity{
		{Username: "alice", PasswordHash: hashPassword(t, "hash-1"), Role: "admin"},
		{Username: "Alice", PasswordHash: hashPassword(t, "hash-2"), Role: "viewer"},
	})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	if _, err := snap.Lookup("ALICE"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
	rec, _ := snap.Lookup("Alice")
	if rec.Role != "viewer" {
		t.Fatalf("unexpected record for Alice: %+v", rec)
	}
}

func TestSnapshot_IsolatedFromSourceSlice(t *testing.T) {
	records := []domain.Identity{{Username: "alice", PasswordHash: hashPassword(t, "hash"), Role: "admin"}}

	snap, err := NewSnapshot("stub", records)
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	records[0].Role = "root"
	records[0].Username = "mallory"

	rec, err := snap.Lookup("alice")
	if err != nil {
		t.Fatalf("lookup alice: %v", err)
	}
	if rec.Role != "admin" {
		t.Fatalf("snapshot mutated through source slice: %+v", rec)
	}
	if _, err := snap.Lookup("mallory"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected mallory to be unknown, got %v", err)
	}
}

func TestNewSnapshot_Empty(t *testing.T) {
	snap, err := NewSnapshot("stub", nil)
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}
	if _, err := snap.Lookup("anyone"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}
