package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	badgeLoginKey      = "mes:badge:login_enabled"
	scanDebouncePrefix = "mes:badge:scan:"
)

// SettingsRepository holds runtime toggles of the badge scan endpoint.
type SettingsRepository interface {
	BadgeLoginEnabled(ctx context.Context) (bool, error)
	SetBadgeLoginEnabled(ctx context.Context, enabled bool) error
	// ClaimScan returns false when the same badge was claimed within window.
	ClaimScan(ctx context.Context, uid string, window time.Duration) (bool, error)
}

type redisSettingsRepository struct {
	client   *redis.Client
	fallback bool
}

// NewRedisSettingsRepository stores settings in Redis. fallback is used until
// the flag is written for the first time.
func NewRedisSettingsRepository(client *redis.Client, fallback bool) SettingsRepository {
	return &redisSettingsRepository{client: client, fallback: fallback}
}

func (r *redisSettingsRepository) BadgeLoginEnabled(ctx context.Context) (bool, error) {
	raw, err := r.client.Get(ctx, badgeLoginKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.fallback, nil
	}
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(raw)
}

func (r *redisSettingsRepository) SetBadgeLoginEnabled(ctx context.Context, enabled bool) error {
	return r.client.Set(ctx, badgeLoginKey, strconv.FormatBool(enabled), 0).Err()
}

func (r *redisSettingsRepository) ClaimScan(ctx context.Context, uid string, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, nil
	}
	return r.client.SetNX(ctx, scanDebouncePrefix+uid, time.Now().UnixMilli(), window).Result()
}
