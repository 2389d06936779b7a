package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sentinel/internal/queue"
	"sentinel/pkg/logger"
	"sentinel/pkg/metrics"
	"sentinel/pkg/otel"
	"sentinel/pkg/sms"
	"sentinel/pkg/snowflake"
	"sentinel/storage/mq"
)

// 短信扇出 worker：消费队列里的警报短信任务并外呼短信网关。
// 与 API 进程分开部署，短信网关抖动不影响警报接口的延迟。
func main() {
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := mq.Init(); err != nil {
		logger.Logger.Fatal("Failed to connect to rabbitmq", zap.Error(err))
	}
	defer mq.Close()

	if err := snowflake.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	sms.Init()

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

	// 消费循环断开后退避重连，ctx 取消才真正退出
	for {
		err := queue.StartSMSFanoutConsumer(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			break
		}
		logger.Logger.Error("SMS fanout consumer stopped, retrying", zap.Error(err))

		select {
		case <-ctx.Done():
			logger.Logger.Info("Worker shutting down gracefully")
			return
		case <-time.After(5 * time.Second):
		}
	}

	logger.Logger.Info("Worker shutting down gracefully")
}
