package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/model/dto"
	"sentinel/internal/service"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
)

// WearableDevice 可穿戴设备接口，按 action 分发。
// POST /v1/wearable-device
func WearableDevice(ctx context.Context, c *app.RequestContext) {
	var req dto.WearableRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	uid, _, ok := requireIdentity(ctx, c)
	if !ok {
		return
	}

	switch req.Action {
	case "pair":
		pairDevice(ctx, c, uid, &req)
	case "unpair":
		unpairDevice(ctx, c, uid, &req)
	case "update_status":
		updateDeviceStatus(ctx, c, uid, &req)
	case "get_devices":
		getDevices(ctx, c, uid)
	case "trigger_button":
		triggerButton(ctx, c, uid, &req)
	case "trigger_heartrate":
		reportHeartRate(ctx, c, uid, &req)
	case "trigger_gesture":
		triggerGesture(ctx, c, uid, &req)
	default:
		response.Error(ctx, c, errors.InvalidAction)
	}
}

func pairDevice(ctx context.Context, c *app.RequestContext, uid int64, req *dto.WearableRequest) {
	device, err := service.Wearable().Pair(ctx, uid, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"device": device})
}

func unpairDevice(ctx context.Context, c *app.RequestContext, uid int64, req *dto.WearableRequest) {
	if req.DeviceID == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	if err := service.Wearable().Unpair(ctx, uid, *req.DeviceID); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, nil)
}

func updateDeviceStatus(ctx context.Context, c *app.RequestContext, uid int64, req *dto.WearableRequest) {
	device, err := service.Wearable().UpdateStatus(ctx, uid, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"device": device})
}

func getDevices(ctx context.Context, c *app.RequestContext, uid int64) {
	devices, err := service.Wearable().GetDevices(ctx, uid)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"devices": devices})
}

func triggerButton(ctx context.Context, c *app.RequestContext, uid int64, req *dto.WearableRequest) {
	if req.DeviceID == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	alert, err := service.Wearable().TriggerButton(ctx, uid, *req.DeviceID, req.Location)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"alert": alert})
}

func reportHeartRate(ctx context.Context, c *app.RequestContext, uid int64, req *dto.WearableRequest) {
	if req.DeviceID == nil || req.HeartRate == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	alert, err := service.Wearable().TriggerHeartRate(ctx, uid, *req.DeviceID, *req.HeartRate, req.Location)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	payload := response.H{"alert_triggered": alert != nil}
	if alert != nil {
		payload["alert"] = alert
	}
	response.Success(ctx, c, payload)
}

func triggerGesture(ctx context.Context, c *app.RequestContext, uid int64, req *dto.WearableRequest) {
	if req.DeviceID == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	alert, err := service.Wearable().TriggerGesture(ctx, uid, *req.DeviceID, req.GestureType, req.Location)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	payload := response.H{"alert_triggered": alert != nil}
	if alert != nil {
		payload["alert"] = alert
	}
	response.Success(ctx, c, payload)
}
