package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentinel/internal/model"
	"sentinel/pkg/blob"
	bizerr "sentinel/pkg/errors"
	"sentinel/pkg/metrics"
	"sentinel/storage/database"
	"sentinel/utils"
)

// AlertService 警报生命周期：创建、挂载音频、关闭、查询当前活跃警报。
// 警报落库是主操作，扇出与位置留痕属于次级步骤，失败只记日志不回滚。
type AlertService struct {
	db       *gorm.DB
	notifier *NotifyService
	blob     blob.Client
}

var (
	alertService *AlertService
	alertOnce    sync.Once
)

// Alert 获取警报服务单例
func Alert() *AlertService {
	alertOnce.Do(func() {
		alertService = NewAlertService(database.DB(), Notify(), blob.GetClient())
	})
	return alertService
}

func NewAlertService(db *gorm.DB, notifier *NotifyService, blobClient blob.Client) *AlertService {
	return &AlertService{db: db, notifier: notifier, blob: blobClient}
}

// CreateAlertInput 创建警报的全部参数
type CreateAlertInput struct {
	UserID         int64
	EventID        *int64
	Level          model.AlertLevel
	Location       *model.GeoPoint
	Message        *string
	TriggerSource  model.TriggerSource
	IsSilentDuress bool
	// Silent 扇出时携带静默标记，通知文案不变
	Silent bool
	// LogLocation 是否同时写入一条紧急位置记录
	LogLocation bool
}

// Create 创建一条警报并扇出通知
func (s *AlertService) Create(ctx context.Context, in CreateAlertInput) (*model.Alert, error) {
	if !in.Level.Valid() {
		return nil, bizerr.InvalidAlertLevel
	}
	if in.Location != nil && !utils.ValidateCoordinates(in.Location.Lat, in.Location.Lng) {
		return nil, bizerr.InvalidCoordinates
	}

	alert := model.Alert{
		UserID:         in.UserID,
		EventID:        in.EventID,
		Level:          in.Level,
		Location:       in.Location,
		Message:        in.Message,
		Status:         model.AlertStatusActive,
		TriggerSource:  in.TriggerSource,
		IsSilentDuress: in.IsSilentDuress,
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	metrics.AlertTriggered(ctx, string(alert.Level), string(alert.TriggerSource))

	if err := s.notifier.FanOut(ctx, &alert, in.Silent); err != nil {
		zap.L().Error("alert fanout failed",
			zap.Int64("alert_id", alert.ID),
			zap.Error(err),
		)
	}

	if in.LogLocation && in.Location != nil {
		ping := model.LocationPing{
			UserID:              in.UserID,
			EventID:             in.EventID,
			AlertID:             &alert.ID,
			Latitude:            in.Location.Lat,
			Longitude:           in.Location.Lng,
			Accuracy:            in.Location.Accuracy,
			IsEmergencyTracking: true,
			Timestamp:           time.Now().UTC(),
		}
		if err := s.db.WithContext(ctx).Create(&ping).Error; err != nil {
			zap.L().Warn("failed to log alert location",
				zap.Int64("alert_id", alert.ID),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("alert created",
		zap.Int64("alert_id", alert.ID),
		zap.Int64("user_id", alert.UserID),
		zap.String("level", string(alert.Level)),
		zap.String("source", string(alert.TriggerSource)),
	)
	return &alert, nil
}

// Resolve 关闭警报。终态不可逆，重复关闭报错；
// 本人或安保角色可关闭，其他人一律拒绝。
func (s *AlertService) Resolve(ctx context.Context, requesterID int64, role model.Role, alertID int64, status model.AlertStatus) (*model.Alert, error) {
	if !status.Terminal() {
		return nil, bizerr.InvalidRequest
	}

	var alert model.Alert
	if err := s.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.AlertNotFound
		}
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}

	if alert.UserID != requesterID && !role.IsSecurity() {
		return nil, bizerr.Forbidden
	}
	if alert.Status.Terminal() {
		return nil, bizerr.AlertAlreadyClosed
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      status,
		"resolved_at": now,
		"resolved_by": requesterID,
	}
	if err := s.db.WithContext(ctx).Model(&alert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}
	alert.Status = status
	alert.ResolvedAt = &now
	alert.ResolvedBy = &requesterID
	metrics.AlertResolved(ctx, string(status))

	zap.L().Info("alert closed",
		zap.Int64("alert_id", alert.ID),
		zap.String("status", string(status)),
		zap.Int64("resolved_by", requesterID),
	)
	return &alert, nil
}

// FetchActive 返回用户最近一条活跃警报，没有则返回 nil
func (s *AlertService) FetchActive(ctx context.Context, userID int64) (*model.Alert, error) {
	var alert model.Alert
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.AlertStatusActive).
		Order("created_at DESC").
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query active alert: %w", err)
	}
	return &alert, nil
}

// Get 按 ID 查询警报
func (s *AlertService) Get(ctx context.Context, alertID int64) (*model.Alert, error) {
	var alert model.Alert
	if err := s.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.AlertNotFound
		}
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	return &alert, nil
}

// PrepareAudioUpload 为音频证据生成限时直传地址。
// alertID 缺省时挂到当前活跃警报，没有活跃警报则报错；
// 指定别人的警报需要安保角色。
func (s *AlertService) PrepareAudioUpload(ctx context.Context, userID int64, role model.Role, alertID *int64) (uploadURL, filePath string, targetAlertID int64, err error) {
	if s.blob == nil {
		return "", "", 0, bizerr.BlobNotConfigured
	}

	if alertID == nil {
		active, ferr := s.FetchActive(ctx, userID)
		if ferr != nil {
			return "", "", 0, ferr
		}
		if active == nil {
			return "", "", 0, bizerr.NoActiveAlert
		}
		targetAlertID = active.ID
	} else {
		alert, gerr := s.Get(ctx, *alertID)
		if gerr != nil {
			return "", "", 0, gerr
		}
		if alert.UserID != userID && !role.IsSecurity() {
			return "", "", 0, bizerr.Forbidden
		}
		targetAlertID = alert.ID
	}

	filePath = fmt.Sprintf("%d/%d/%d_%s.webm", userID, targetAlertID, time.Now().UnixMilli(), uuid.NewString()[:8])
	uploadURL, err = s.blob.PresignUpload(ctx, filePath)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to presign audio upload: %w", err)
	}
	return uploadURL, filePath, targetAlertID, nil
}

// AttachAudio 登记一段已上传的音频证据，并回填警报的录音地址。
// 警报引用失效不拦录音写入，但存在的警报必须属于本人或由安保角色操作。
func (s *AlertService) AttachAudio(ctx context.Context, userID int64, role model.Role, alertID *int64, filePath string, durationSeconds *int) (*model.AudioRecording, error) {
	if filePath == "" {
		return nil, bizerr.MissingField
	}

	if alertID != nil {
		var alert model.Alert
		err := s.db.WithContext(ctx).First(&alert, *alertID).Error
		switch {
		case err == nil:
			if alert.UserID != userID && !role.IsSecurity() {
				return nil, bizerr.Forbidden
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 引用失效，录音照常保留
		default:
			return nil, fmt.Errorf("failed to load alert: %w", err)
		}
	}

	fileURL := filePath
	if s.blob != nil {
		fileURL = s.blob.PublicURL(filePath)
	}

	recording := model.AudioRecording{
		UserID:               userID,
		AlertID:              alertID,
		FileURL:              fileURL,
		DurationSeconds:      durationSeconds,
		IsEmergencyRecording: alertID != nil,
	}
	if err := s.db.WithContext(ctx).Create(&recording).Error; err != nil {
		return nil, fmt.Errorf("failed to save audio recording: %w", err)
	}

	if alertID != nil {
		err := s.db.WithContext(ctx).
			Model(&model.Alert{}).
			Where("id = ?", *alertID).
			Update("audio_recording_url", fileURL).Error
		if err != nil {
			zap.L().Warn("failed to link audio to alert",
				zap.Int64("alert_id", *alertID),
				zap.Error(err),
			)
		}
	}
	return &recording, nil
}
