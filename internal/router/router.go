package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"sentinel/internal/handler"
	"sentinel/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())

	h.GET("/health", handler.Health)

	v1 := h.Group("/v1")

	// 认证相关路由，不挂认证中间件
	auth := v1.Group("/auth")
	{
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	v1.Use(middleware.AuthMiddleware())
	{
		// 警报触发路径不挂限流，紧急请求宁可放行
		v1.POST("/emergency-alert", handler.EmergencyAlert)
		v1.POST("/decoy-mode", handler.DecoyMode)
		v1.POST("/wearable-device", handler.WearableDevice)

		v1.POST("/incident-reporting", middleware.GeneralRateLimitMiddleware(), handler.IncidentReporting)
		v1.POST("/location-tracking", middleware.RateLimitMiddleware(middleware.QueryRateLimitConfig), handler.LocationTracking)
	}
}
