package service

import (
	"context"
	"fmt"
	"time"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/pkg/metrics"
)

// Snapshot is the immutable in-memory set of identity records, keyed by
// username. It is built once at startup and shared read-only by every
// concurrent authentication, so it needs no locking.
type Snapshot struct {
	byUsername map[string]domain.Identity
	source     string
	loadedAt   time.Time
}

// LoadSnapshot reads every record from src and materializes a Snapshot.
// Any failure is fatal for startup: an unreachable store wraps
// domain.ErrSnapshotUnavailable, invalid or duplicate records fail as in NewSnapshot.
func LoadSnapshot(ctx context.Context, src ports.IdentitySource, sourceName string) (*Snapshot, error) {
	records, err := src.ListIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w: %w", sourceName, domain.ErrSnapshotUnavailable, err)
	}
	return NewSnapshot(sourceName, records)
}

// NewSnapshot validates records and indexes them by username. A record
// without role fails with domain.ErrMissingRole, one without username or hash
// with domain.ErrMalformedIdentity, and a repeated username with
// domain.ErrAmbiguousIdentity. No partial snapshot is ever returned.
func NewSnapshot(sourceName string, records []domain.Identity) (*Snapshot, error) {
	byUsername := make(map[string]domain.Identity, len(records))
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("load snapshot: record %d (username %q): %w", i, rec.Username, err)
		}
		if _, dup := byUsername[rec.Username]; dup {
			return nil, fmt.Errorf("load snapshot: username %q: %w", rec.Username, domain.ErrAmbiguousIdentity)
		}
		byUsername[rec.Username] = rec
	}

	metrics.SnapshotRecords.WithLabelValues(sourceName).Set(float64(len(byUsername)))

	return &Snapshot{
		byUsername: byUsername,
		source:     sourceName,
		loadedAt:   time.Now().UTC(),
	}, nil
}

// Lookup returns the record for username or domain.ErrIdentityNotFound.
func (s *Snapshot) Lookup(username string) (domain.Identity, error) {
	rec, ok := s.byUsername[username]
	if !ok {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}
	return rec, nil
}

// Len returns the number of records held.
func (s *Snapshot) Len() int {
	return len(s.byUsername)
}

// Stats summarises the snapshot for operators.
func (s *Snapshot) Stats() domain.SnapshotStats {
	return domain.SnapshotStats{
		Source:   s.source,
		Records:  len(s.byUsername),
		LoadedAt: s.loadedAt,
	}
}
