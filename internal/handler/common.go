package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/middleware"
	"sentinel/internal/model"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
)

// requireIdentity 取出已认证身份，取不到直接写 401 并返回 false
func requireIdentity(ctx context.Context, c *app.RequestContext) (int64, model.Role, bool) {
	uid, role, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return 0, "", false
	}
	return uid, role, true
}
