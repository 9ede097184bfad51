package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeIndex maps active join codes to session ids in Redis. A code is
// reserved at creation and released when the session leaves voting, so
// uniqueness only holds among active sessions.
type CodeIndex interface {
	Reserve(ctx context.Context, code, sessionID string) (bool, error)
	Lookup(ctx context.Context, code string) (string, error)
	Release(ctx context.Context, code string) error
}

type codeIndex struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeIndex creates a new join-code index
func NewCodeIndex(client *redis.Client, ttl time.Duration) CodeIndex {
	return &codeIndex{client: client, ttl: ttl}
}

func (c *codeIndex) key(code string) string {
	return fmt.Sprintf("code:%s", code)
}

// Reserve claims a code for a session. Returns false if the code is
// already held by another active session.
func (c *codeIndex) Reserve(ctx context.Context, code, sessionID string) (bool, error) {
	return c.client.SetNX(ctx, c.key(code), sessionID, c.ttl).Result()
}

// Lookup resolves a code to a session id, or "" if unclaimed
func (c *codeIndex) Lookup(ctx context.Context, code string) (string, error) {
	id, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *codeIndex) Release(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
