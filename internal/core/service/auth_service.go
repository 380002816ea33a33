package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/pkg/metrics"
)

// dummyPassword seeds the hash compared against when a username is unknown.
const dummyPassword = "identity-service/unknown-user"

// AuthService verifies credential pairs against the credential snapshot and
// mints identity tokens. It holds no mutable state and is safe for concurrent use.
type AuthService struct {
	lookup    ports.IdentityLookup
	issuer    ports.TokenIssuer
	slots     *semaphore.Weighted
	dummyHash []byte
	log       zerolog.Logger
}

type authOptions struct {
	maxVerifications int
	dummyCost        int
}

// AuthOption customises an AuthService.
type AuthOption func(*authOptions)

// WithMaxConcurrentVerifications bounds how many bcrypt comparisons run at
// once. Values <= 0 select 2 * GOMAXPROCS.
func WithMaxConcurrentVerifications(n int) AuthOption {
	return func(o *authOptions) { o.maxVerifications = n }
}

// WithDummyHashCost sets the bcrypt cost of the hash burned for unknown
// usernames. It should match the cost used at enrollment.
func WithDummyHashCost(cost int) AuthOption {
	return func(o *authOptions) { o.dummyCost = cost }
}

// NewAuthService builds the Authenticator over an already loaded lookup and issuer.
func NewAuthService(lookup ports.IdentityLookup, issuer ports.TokenIssuer, log zerolog.Logger, opts ...AuthOption) (*AuthService, error) {
	o := authOptions{dummyCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxVerifications <= 0 {
		o.maxVerifications = 2 * runtime.GOMAXPROCS(0)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), o.dummyCost)
	if err != nil {
		return nil, fmt.Errorf("new auth service: dummy hash: %w", err)
	}

	return &AuthService{
		lookup:    lookup,
		issuer:    issuer,
		slots:     semaphore.NewWeighted(int64(o.maxVerifications)),
		dummyHash: dummy,
		log:       log,
	}, nil
}

// Authenticate checks username/password and returns the sanitized identity
// with a freshly signed token. Unknown users, wrong passwords and ambiguous
// records all return domain.ErrInvalidCredentials. Any other error is an
// internal failure (cancelled while waiting for a verification slot, signing).
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	if username == "" || password == "" {
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.lookup.Lookup(username)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) && !errors.Is(err, domain.ErrAmbiguousIdentity) {
			metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("authenticate: lookup: %w", err)
		}
		// Unknown and ambiguous usernames still pay for one comparison so
		// their latency matches a wrong password.
		if _, verr := s.verify(ctx, s.dummyHash, password); verr != nil {
			return nil, verr
		}
		return nil, s.reject(username, err)
	}

	ok, err := s.verify(ctx, []byte(identity.PasswordHash), password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.reject(username, domain.ErrPasswordMismatch)
	}

	token, err := s.issuer.Issue(identity.Username, identity.Role)
	if err != nil {
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("authenticate: issue token: %w", err)
	}

	metrics.TokensIssuedTotal.Inc()
	metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.log.Info().Str("username", identity.Username).Str("role", identity.Role).Msg("authenticated")

	return identity.Result(token), nil
}

// verify runs one bcrypt comparison inside a verification slot.
func (s *AuthService) verify(ctx context.Context, hash []byte, password string) (bool, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return false, fmt.Errorf("authenticate: wait for verification slot: %w", err)
	}
	defer s.slots.Release(1)

	metrics.VerificationsInFlight.Inc()
	start := time.Now()
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	metrics.PasswordVerifyDuration.Observe(time.Since(start).Seconds())
	metrics.VerificationsInFlight.Dec()

	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		s.log.Error().Err(err).Msg("stored password hash could not be compared")
	}
	return err == nil, nil
}

// reject records the internal cause and returns the generic failure.
func (s *AuthService) reject(username string, cause error) error {
	switch {
	case errors.Is(cause, domain.ErrAmbiguousIdentity):
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeAmbiguous).Inc()
		s.log.Warn().Str("username", username).Msg("ambiguous identity record, refusing authentication")
	case errors.Is(cause, domain.ErrIdentityNotFound):
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		s.log.Debug().Str("username", username).Msg("authentication failed: unknown username")
	default:
		metrics.AuthenticationsTotal.WithLabelValues(metrics.OutcomeMismatch).Inc()
		s.log.Debug().Str("username", username).Msg("authentication failed: password mismatch")
	}
	return domain.ErrInvalidCredentials
}
