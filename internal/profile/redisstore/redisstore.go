package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"docbot/internal/profile"
)

const profileKeyPrefix = "profile:"

// Store implements profile.Store on top of Redis, one JSON document per user.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Conn opens a Redis connection and verifies it with a ping.
func Conn(ctx context.Context, host, port, pass string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		DialTimeout: timeout,
		Password:    pass,
		DB:          db,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}

	return client, nil
}

func (s *Store) Get(ctx context.Context, userID string) (profile.Profile, error) {
	val, err := s.client.Get(ctx, profileKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func (s *Store) Put(ctx context.Context, p profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileKeyPrefix+p.UserID, data, 0).Err()
}

// List returns every stored profile. Used by the weekly scheduler.
func (s *Store) List(ctx context.Context) ([]profile.Profile, error) {
	keys, err := s.client.Keys(ctx, profileKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	var out []profile.Profile
	for _, key := range keys {
		val, err := s.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var p profile.Profile
		if err := json.Unmarshal([]byte(val), &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
