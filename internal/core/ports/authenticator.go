package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// Authenticator verifies a credential pair and mints an identity token.
// Every authentication failure is reported as domain.ErrInvalidCredentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.AuthResult, error)
}

// TokenIssuer signs identity tokens for an authenticated subject.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)
}
