package redis

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/identity-service/internal/core/domain"
)

const (
	// DefaultKeyPrefix namespaces identity hashes: identity:user:<username>.
	DefaultKeyPrefix = "identity:user:"

	scanCount = 200

	fieldPasswordHash = "password_hash"
	fieldRole         = "role"
)

// IdentitySource reads identity records stored as one Redis hash per user.
// The username is the key suffix after the prefix; the hash carries
// password_hash and role.
type IdentitySource struct {
	client *redis.Client
	prefix string
}

// NewIdentitySource creates an IdentitySource wrapping the given Redis client.
func NewIdentitySource(client *redis.Client, prefix string) *IdentitySource {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &IdentitySource{client: client, prefix: prefix}
}

// ListIdentities scans every key under the prefix and reads the hashes in a
// single pipeline.
func (s *IdentitySource) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan identities: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	// SCAN may return a key more than once.
	slices.Sort(keys)
	keys = slices.Compact(keys)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("read identities: %w", err)
	}

	out := make([]domain.Identity, 0, len(keys))
	for i, cmd := range cmds {
		fields := cmd.Val()
		out = append(out, domain.Identity{
			Username:     strings.TrimPrefix(keys[i], s.prefix),
			PasswordHash: fields[fieldPasswordHash],
			Role:         fields[fieldRole],
		})
	}
	return out, nil
}

// Ping reports whether Redis answers.
func (s *IdentitySource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
