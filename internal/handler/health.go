package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/config"
)

// Health 健康检查
func Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": config.Cfg.ServiceName,
	})
}
