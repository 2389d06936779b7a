package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"sentinel/config"
	"sentinel/internal/model"
	"sentinel/pkg/response"
)

const (
	IdentityKey = "uid"
	RoleKey     = "role"
)

var authMiddleware *jwt.HertzJWTMiddleware

func initAuthMiddleware() error {
	mw, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:       "Sentinel API",
		Key:         []byte(config.Cfg.JWTSecret),
		Timeout:     time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute,
		MaxRefresh:  time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour,
		IdentityKey: IdentityKey,

		// 令牌由 pkg/token 签发，uid 与 role 都在声明里，
		// 授权判断不回表查角色
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			uid, ok := claims[IdentityKey].(float64)
			if !ok {
				return nil
			}
			role, _ := claims[RoleKey].(string)
			if !model.Role(role).Valid() {
				return nil
			}
			c.Set(RoleKey, model.Role(role))
			return int64(uid)
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, response.ErrorResponse{
				Error: message,
				Code:  "UNAUTHORIZED",
			})
		},

		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
	})
	if err != nil {
		return err
	}
	authMiddleware = mw
	return nil
}

// AuthMiddleware 返回认证中间件
func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("auth middleware not initialized, call middleware.Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetIdentity 从请求上下文取出已认证的用户 ID 与角色
func GetIdentity(c *app.RequestContext) (int64, model.Role, bool) {
	uidVal, exists := c.Get(IdentityKey)
	if !exists {
		return 0, "", false
	}
	uid, ok := uidVal.(int64)
	if !ok {
		return 0, "", false
	}

	roleVal, exists := c.Get(RoleKey)
	if !exists {
		return 0, "", false
	}
	role, ok := roleVal.(model.Role)
	if !ok || !role.Valid() {
		return 0, "", false
	}
	return uid, role, true
}
