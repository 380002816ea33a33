// Package token mints and verifies the HS256 identity tokens handed out after
// a successful login. The same shared secret is used on both sides, so any
// downstream service holding it can verify a token without calling back.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the validity window of every issued token.
const DefaultTTL = 24 * time.Hour

// IssuedAtLeeway is how far a token's iat may lie in the verifier's future,
// absorbing clock skew between issuer and verifier. It never extends exp.
const IssuedAtLeeway = 30 * time.Second

var (
	ErrEmptySecret   = errors.New("token: signing secret must not be empty")
	ErrInvalidClaims = errors.New("token: subject and role are required")
	ErrInvalidToken  = errors.New("token: invalid token")
)

// Claims is the payload of an identity token: sub, role, iat and exp.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies identity tokens with a process-wide symmetric key.
// A Signer is immutable after construction and safe for concurrent use.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a Signer.
type Option func(*Signer)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock sets the time source used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSigner copies secret and returns a Signer bound to it.
func NewSigner(secret []byte, opts ...Option) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	s := &Signer{secret: key, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the validity window applied to issued tokens.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject carrying role, valid for [now, now+TTL).
func (s *Signer) Issue(subject, role string) (string, error) {
	if subject == "" || role == "" {
		return "", ErrInvalidClaims
	}

	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses raw, checks the HS256 signature and the validity window and
// returns the claims. Every failure wraps ErrInvalidToken; expiry additionally
// matches jwt.ErrTokenExpired. Expiry is exact; only iat gets IssuedAtLeeway.
func (s *Signer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if iat := claims.IssuedAt; iat != nil && iat.After(s.now().Add(IssuedAtLeeway)) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenUsedBeforeIssued)
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrInvalidClaims)
	}
	return claims, nil
}
