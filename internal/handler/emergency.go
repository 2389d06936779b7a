package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/model"
	"sentinel/internal/model/dto"
	"sentinel/internal/service"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
)

// EmergencyAlert 紧急警报接口，按 action 分发。
// POST /v1/emergency-alert
func EmergencyAlert(ctx context.Context, c *app.RequestContext) {
	var req dto.EmergencyAlertRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	uid, role, ok := requireIdentity(ctx, c)
	if !ok {
		return
	}

	switch req.Action {
	case "create":
		triggerAlert(ctx, c, uid, &req)
	case "silent_duress":
		triggerDuressAlert(ctx, c, uid, &req)
	case "resolve":
		closeAlert(ctx, c, uid, role, &req, model.AlertStatusResolved)
	case "cancel":
		closeAlert(ctx, c, uid, role, &req, model.AlertStatusCancelled)
	case "fetch_active":
		getActiveAlert(ctx, c, uid)
	case "start_recording":
		startRecording(ctx, c, uid, role, &req)
	case "stop_recording":
		stopRecording(ctx, c, uid, role, &req)
	default:
		response.Error(ctx, c, errors.InvalidAction)
	}
}

func triggerAlert(ctx context.Context, c *app.RequestContext, uid int64, req *dto.EmergencyAlertRequest) {
	if req.Level == "" {
		response.Error(ctx, c, errors.MissingField)
		return
	}

	alert, err := service.Alert().Create(ctx, service.CreateAlertInput{
		UserID:        uid,
		EventID:       req.EventID,
		Level:         model.AlertLevel(req.Level),
		Location:      req.Location,
		Message:       req.Message,
		TriggerSource: model.TriggerSourceManual,
		LogLocation:   true,
	})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"alert": alert})
}

func triggerDuressAlert(ctx context.Context, c *app.RequestContext, uid int64, req *dto.EmergencyAlertRequest) {
	alert, err := service.Duress().TriggerDuressAlert(ctx, uid, req.DuressPassword, req.Location)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"alert": alert})
}

func closeAlert(ctx context.Context, c *app.RequestContext, uid int64, role model.Role, req *dto.EmergencyAlertRequest, status model.AlertStatus) {
	if req.AlertID == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	alert, err := service.Alert().Resolve(ctx, uid, role, *req.AlertID, status)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"alert": alert})
}

func getActiveAlert(ctx context.Context, c *app.RequestContext, uid int64) {
	alert, err := service.Alert().FetchActive(ctx, uid)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"alert": alert})
}

func startRecording(ctx context.Context, c *app.RequestContext, uid int64, role model.Role, req *dto.EmergencyAlertRequest) {
	uploadURL, filePath, alertID, err := service.Alert().PrepareAudioUpload(ctx, uid, role, req.AlertID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{
		"upload_url": uploadURL,
		"file_path":  filePath,
		"alert_id":   alertID,
	})
}

func stopRecording(ctx context.Context, c *app.RequestContext, uid int64, role model.Role, req *dto.EmergencyAlertRequest) {
	recording, err := service.Alert().AttachAudio(ctx, uid, role, req.AlertID, req.FilePath, req.DurationSeconds)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"recording": recording})
}
