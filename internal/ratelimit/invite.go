package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldops-app/fieldops/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyInviteOrg = "invite:org:%s"

// InviteLimiter throttles invitation issuance per organization.
type InviteLimiter struct {
	enabled bool

	bucket *TokenBucket

	orgRate  float64
	orgBurst int
}

func NewInviteLimiter(cfg config.Config) (*InviteLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.InviteOrgRate <= 0 || limitCfg.InviteOrgBurst <= 0 {
		return nil, errors.New("invite rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &InviteLimiter{
		enabled:  true,
		bucket:   NewTokenBucket(client),
		orgRate:  limitCfg.InviteOrgRate,
		orgBurst: limitCfg.InviteOrgBurst,
	}, nil
}

func (l *InviteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *InviteLimiter) Allow(ctx context.Context, orgID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyInviteOrg, strings.TrimSpace(orgID)), l.orgRate, l.orgBurst)
}
