package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// IdentitySource is the external record store the credential snapshot is
// materialized from. Implementations only read.
type IdentitySource interface {
	// ListIdentities returns every stored record in one bulk read.
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
}

// IdentityLookup resolves a username against an in-memory credential set.
// It returns domain.ErrIdentityNotFound or domain.ErrAmbiguousIdentity when
// the username does not resolve to exactly one record.
type IdentityLookup interface {
	Lookup(username string) (domain.Identity, error)
}
