package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.uber.org/zap"

	"sentinel/config"
	"sentinel/internal/middleware"
	"sentinel/internal/router"
	"sentinel/pkg/blob"
	"sentinel/pkg/logger"
	"sentinel/pkg/metrics"
	"sentinel/pkg/otel"
	"sentinel/pkg/snowflake"
	"sentinel/storage"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 音频证据对象存储，初始化失败只降级不拦启动
	if err := blob.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize object storage", zap.Error(err))
		logger.Logger.Info("Audio evidence upload will be disabled")
	}

	if err := otel.Init(ctx); err != nil {
		logger.Logger.Warn("Failed to initialize tracing", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otel.Shutdown(shutdownCtx); err != nil {
				logger.Logger.Error("Failed to shutdown otel", zap.Error(err))
			}
		}()
		if err := metrics.Init(); err != nil {
			logger.Logger.Warn("Failed to register metrics", zap.Error(err))
		}
	}

	// 初始化中间件
	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)

	opts := []hertzconfig.Option{server.WithHostPorts(addr)}
	var h *server.Hertz
	if config.Cfg.TracingEnabled {
		tracer, tracingCfg := hertztracing.NewServerTracer()
		h = server.Default(append(opts, tracer)...)
		h.Use(hertztracing.ServerMiddleware(tracingCfg))
	} else {
		h = server.Default(opts...)
	}

	router.Register(h)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
