package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/model/dto"
	"sentinel/internal/service"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
)

// DecoyMode 伪装模式接口，按 action 分发。
// POST /v1/decoy-mode
func DecoyMode(ctx context.Context, c *app.RequestContext) {
	var req dto.DecoyModeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	uid, _, ok := requireIdentity(ctx, c)
	if !ok {
		return
	}

	switch req.Action {
	case "setup":
		setupDecoy(ctx, c, uid, &req)
	case "update":
		updateDecoy(ctx, c, uid, &req)
	case "get_config":
		getDecoyConfig(ctx, c, uid)
	case "validate_duress":
		validateDuress(ctx, c, uid, &req)
	case "activate_fake_interface":
		activateFakeInterface(ctx, c, uid)
	case "deactivate_fake_interface":
		deactivateFakeInterface(ctx, c, uid)
	default:
		response.Error(ctx, c, errors.InvalidAction)
	}
}

func setupDecoy(ctx context.Context, c *app.RequestContext, uid int64, req *dto.DecoyModeRequest) {
	cfg, err := service.Duress().Setup(ctx, uid, service.DuressSetupInput{
		DuressPassword:     req.DuressPassword,
		Enabled:            req.Enabled,
		AppType:            req.AppType,
		ActivationGesture:  req.ActivationGesture,
		SilentAlertEnabled: req.SilentAlertEnabled,
	})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"config": cfg})
}

func updateDecoy(ctx context.Context, c *app.RequestContext, uid int64, req *dto.DecoyModeRequest) {
	cfg, err := service.Duress().Update(ctx, uid, service.DuressSetupInput{
		DuressPassword:     req.DuressPassword,
		Enabled:            req.Enabled,
		AppType:            req.AppType,
		ActivationGesture:  req.ActivationGesture,
		SilentAlertEnabled: req.SilentAlertEnabled,
	})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"config": cfg})
}

func getDecoyConfig(ctx context.Context, c *app.RequestContext, uid int64) {
	cfg, err := service.Duress().GetConfig(ctx, uid)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"config": cfg})
}

func validateDuress(ctx context.Context, c *app.RequestContext, uid int64, req *dto.DecoyModeRequest) {
	fakeActive, alert, err := service.Duress().ValidateDuress(ctx, uid, req.DuressPassword, req.Location)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	result := dto.DuressValidationResult{
		Valid:                true,
		FakeInterfaceActive:  fakeActive,
		SilentAlertTriggered: alert != nil,
	}
	if alert != nil {
		result.AlertID = &alert.ID
	}
	response.Success(ctx, c, response.H{"result": result})
}

func activateFakeInterface(ctx context.Context, c *app.RequestContext, uid int64) {
	if err := service.Duress().ActivateFakeInterface(ctx, uid); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

func deactivateFakeInterface(ctx context.Context, c *app.RequestContext, uid int64) {
	if err := service.Duress().DeactivateFakeInterface(ctx, uid); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}
