// Package ratelimit 基于 redis_rate 的请求限流，用于登录/注册等凭据接口
package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Limit 限流规则
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// Result 限流判定结果
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// RedisLimiter redis_rate 滑动窗口实现
type RedisLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRedisLimiter 创建限流器，复用已有 Redis 连接
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{limiter: redis_rate.NewLimiter(client)}
}

// Allow 判定 key 在规则下是否放行
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := l.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		RetryAfter: res.RetryAfter,
	}, nil
}
