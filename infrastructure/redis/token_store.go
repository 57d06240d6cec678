package redis

import (
	"context"
	"time"

	"task-tracker-api/domain/ports"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenStore เก็บ jti ที่ logout แล้ว, หมดอายุพร้อม token
type TokenStore struct {
	client *Client
}

func NewTokenStore(client *Client) ports.TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.client.Set(ctx, revokedTokenPrefix+jti, "1", ttl)
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.client.Exists(ctx, revokedTokenPrefix+jti)
}
