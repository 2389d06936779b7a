package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sentinel/config"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
	"sentinel/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口（秒）
	Window int
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 是否按用户ID限流（需要认证）
	ByUserID bool
	// 是否按IP限流
	ByIP bool
}

// DefaultRateLimitConfig 通用限流。警报触发路径刻意不限流，
// 紧急请求宁可放行也不能误杀。
var DefaultRateLimitConfig = RateLimitConfig{
	Window:      60,
	MaxRequests: 100,
	KeyPrefix:   "rate:limit",
	ByUserID:    true,
	ByIP:        true,
}

// QueryRateLimitConfig 查询类接口限流（轨迹、报告列表）
var QueryRateLimitConfig = RateLimitConfig{
	Window:      60,
	MaxRequests: 60,
	KeyPrefix:   "rate:query",
	ByUserID:    true,
	ByIP:        false,
}

// RateLimiter 基于 Redis zset 的滑动窗口限流器
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{config: config}
}

func (rl *RateLimiter) getKey(c *app.RequestContext) string {
	var identifier string

	if rl.config.ByUserID {
		if uid, _, ok := GetIdentity(c); ok {
			identifier = fmt.Sprintf("user:%d", uid)
		}
	}
	if identifier == "" && rl.config.ByIP {
		identifier = "ip:" + c.ClientIP()
	}
	return redis.Key(rl.config.KeyPrefix, identifier)
}

// Allow 滑动窗口判定
func (rl *RateLimiter) Allow(ctx context.Context, c *app.RequestContext) (bool, int, error) {
	key := rl.getKey(c)
	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	client := redis.Client()
	pipe := client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

// RateLimitMiddleware 创建限流中间件。Redis 故障时放行，
// 限流是保护措施不是正确性前提。
func RateLimitMiddleware(cfg RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(cfg)

	return func(ctx context.Context, c *app.RequestContext) {
		if !config.Cfg.RateLimitEnabled || redis.Client() == nil {
			c.Next(ctx)
			return
		}

		allowed, count, err := limiter.Allow(ctx, c)
		if err != nil {
			zap.L().Error("rate limit check failed", zap.Error(err))
			c.Next(ctx)
			return
		}

		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		remaining := cfg.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			response.Error(ctx, c, errors.RateLimited)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 通用限流中间件
func GeneralRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(DefaultRateLimitConfig)
}
