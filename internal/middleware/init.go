package middleware

import "go.uber.org/zap"

// Init 初始化所有中间件
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		zap.L().Error("failed to initialize auth middleware", zap.Error(err))
		return err
	}

	zap.L().Info("middlewares initialized")
	return nil
}
