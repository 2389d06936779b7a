package middleware

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"sentinel/config"
	"sentinel/pkg/response"
)

// RecoverMiddleware 捕获处理链中的 panic，记录堆栈后返回 500。
// 生产环境不回显细节。
func RecoverMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("panic recovered",
					zap.Any("error", r),
					zap.String("path", string(c.Path())),
					zap.String("method", string(c.Method())),
					zap.ByteString("stack", debug.Stack()),
				)

				message := "Internal server error"
				if !config.Cfg.IsProduction() {
					if err, ok := r.(error); ok {
						message = err.Error()
					}
				}
				c.Abort()
				c.JSON(http.StatusInternalServerError, response.ErrorResponse{
					Error: message,
					Code:  "INTERNAL_ERROR",
				})
			}
		}()
		c.Next(ctx)
	}
}
