package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/service"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
	"sentinel/pkg/token"
)

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 用刷新令牌换发新的令牌对。
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req refreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	claims, err := token.ParseToken(req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	// 换发前确认账号仍然有效，被停用的账号不能续期
	profile, err := service.Profile().GetActive(ctx, claims.UserID)
	if err != nil {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	accessToken, refreshToken, err := token.GenerateTokenPair(profile.ID, profile.Role)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
