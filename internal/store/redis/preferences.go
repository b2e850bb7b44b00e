// Package redis keeps per-user view preferences in Redis, for deployments
// that share them across API instances without a database round trip.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Preferences struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Preferences, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Preferences{client: client}, nil
}

// ViewKey is the key holding the visible columns of one user and resource.
func ViewKey(username, resource string) string {
	return "view:" + username + ":" + resource
}

func (p *Preferences) Close() error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("redis.Preferences.Close: %w", err)
	}
	return nil
}

// Get returns the saved columns and whether any were saved.
func (p *Preferences) Get(ctx context.Context, username, resource string) ([]string, bool, error) {
	raw, err := p.client.Get(ctx, ViewKey(username, resource)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis.Preferences.Get: %w", err)
	}

	var columns []string
	if err := json.Unmarshal(raw, &columns); err != nil {
		return nil, false, fmt.Errorf("redis.Preferences.Get: decode: %w", err)
	}
	return columns, true, nil
}

// Put replaces the saved columns. Preferences do not expire.
func (p *Preferences) Put(ctx context.Context, username, resource string, columns []string) error {
	raw, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("redis.Preferences.Put: encode: %w", err)
	}
	if err := p.client.Set(ctx, ViewKey(username, resource), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis.Preferences.Put: %w", err)
	}
	return nil
}
