package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/model/dto"
	"sentinel/internal/service"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
)

// LocationTracking 位置追踪接口，按 action 分发。
// POST /v1/location-tracking
func LocationTracking(ctx context.Context, c *app.RequestContext) {
	var req dto.LocationTrackingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	uid, role, ok := requireIdentity(ctx, c)
	if !ok {
		return
	}

	switch req.Action {
	case "submit":
		ping, err := service.Location().Submit(ctx, uid, &req)
		if err != nil {
			response.Error(ctx, c, err)
			return
		}
		response.Success(ctx, c, response.H{"ping": ping})
	case "history":
		pings, err := service.Location().History(ctx, uid, role, &req)
		if err != nil {
			response.Error(ctx, c, err)
			return
		}
		response.Success(ctx, c, response.H{"pings": pings})
	default:
		response.Error(ctx, c, errors.InvalidAction)
	}
}
