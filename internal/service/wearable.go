package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentinel/internal/model"
	"sentinel/internal/model/dto"
	bizerr "sentinel/pkg/errors"
	"sentinel/storage/database"
)

// 心率触发阈值。持续高心率先于突变判断，两者都不满足不触发。
const (
	heartRateSustainedThreshold = 150
	heartRateSpikeDelta         = 30
)

// WearableService 可穿戴设备配对与触发
type WearableService struct {
	db     *gorm.DB
	alerts *AlertService
}

var (
	wearableService *WearableService
	wearableOnce    sync.Once
)

// Wearable 获取可穿戴设备服务单例
func Wearable() *WearableService {
	wearableOnce.Do(func() {
		wearableService = NewWearableService(database.DB(), Alert())
	})
	return wearableService
}

func NewWearableService(db *gorm.DB, alerts *AlertService) *WearableService {
	return &WearableService{db: db, alerts: alerts}
}

// Pair 配对一台新设备。MAC 地址已被占用则拒绝。
func (s *WearableService) Pair(ctx context.Context, userID int64, req *dto.WearableRequest) (*model.Wearable, error) {
	if req.Name == "" || req.DeviceType == "" {
		return nil, bizerr.MissingField
	}
	deviceType := model.WearableType(req.DeviceType)
	if !deviceType.Valid() {
		return nil, bizerr.InvalidRequest
	}

	if req.MacAddress != nil && *req.MacAddress != "" {
		var count int64
		err := s.db.WithContext(ctx).
			Model(&model.Wearable{}).
			Where("mac_address = ? AND is_paired = ?", *req.MacAddress, true).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check mac address: %w", err)
		}
		if count > 0 {
			return nil, bizerr.DeviceAlreadyPaired
		}
	}

	device := model.Wearable{
		UserID:            userID,
		Name:              req.Name,
		DeviceType:        deviceType,
		MacAddress:        req.MacAddress,
		BluetoothDeviceID: req.BluetoothDeviceID,
		IsPaired:          true,
		IsConnected:       true,
		BatteryLevel:      req.BatteryLevel,
		FirmwareVersion:   req.FirmwareVersion,
		GestureConfig:     req.GestureConfig,
		LastSync:          time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&device).Error; err != nil {
		return nil, fmt.Errorf("failed to pair device: %w", err)
	}

	zap.L().Info("wearable paired",
		zap.Int64("device_id", device.ID),
		zap.Int64("user_id", userID),
		zap.String("type", string(deviceType)),
	)
	return &device, nil
}

// Unpair 解除配对并软删除设备记录
func (s *WearableService) Unpair(ctx context.Context, userID, deviceID int64) error {
	device, err := s.getOwned(ctx, userID, deviceID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"is_paired":    false,
		"is_connected": false,
	}
	if err := s.db.WithContext(ctx).Model(device).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to unpair device: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(device).Error; err != nil {
		return fmt.Errorf("failed to remove device: %w", err)
	}
	zap.L().Info("wearable unpaired", zap.Int64("device_id", deviceID))
	return nil
}

// UpdateStatus 更新设备连接状态、电量、固件版本，并刷新同步时间
func (s *WearableService) UpdateStatus(ctx context.Context, userID int64, req *dto.WearableRequest) (*model.Wearable, error) {
	if req.DeviceID == nil {
		return nil, bizerr.MissingField
	}
	device, err := s.getOwned(ctx, userID, *req.DeviceID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"last_sync": time.Now().UTC()}
	if req.IsConnected != nil {
		updates["is_connected"] = *req.IsConnected
	}
	if req.BatteryLevel != nil {
		updates["battery_level"] = *req.BatteryLevel
	}
	if req.FirmwareVersion != nil {
		updates["firmware_version"] = *req.FirmwareVersion
	}
	if req.HeartRate != nil {
		updates["last_heart_rate"] = *req.HeartRate
	}
	if req.GestureConfig != nil {
		updates["gesture_config"] = model.GestureConfig(req.GestureConfig)
	}
	if err := s.db.WithContext(ctx).Model(device).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update device status: %w", err)
	}
	return s.getOwned(ctx, userID, device.ID)
}

// GetDevices 返回用户全部已配对设备
func (s *WearableService) GetDevices(ctx context.Context, userID int64) ([]model.Wearable, error) {
	var devices []model.Wearable
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_paired = ?", userID, true).
		Order("created_at DESC").
		Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// TriggerButton 紧急按钮触发，固定产生 critical 警报
func (s *WearableService) TriggerButton(ctx context.Context, userID, deviceID int64, location *model.GeoPoint) (*model.Alert, error) {
	device, err := s.getOwned(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Emergency button pressed on %s", device.Name)
	return s.alerts.Create(ctx, CreateAlertInput{
		UserID:        userID,
		Level:         model.AlertLevelCritical,
		Location:      location,
		Message:       &msg,
		TriggerSource: model.TriggerSourceWearableButton,
		LogLocation:   true,
	})
}

// TriggerHeartRate 心率上报触发。持续高心率产生 medium 警报，
// 相对上次读数的突变产生 high 警报；都不满足只更新读数不触发。
func (s *WearableService) TriggerHeartRate(ctx context.Context, userID, deviceID int64, hr int, location *model.GeoPoint) (*model.Alert, error) {
	device, err := s.getOwned(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}
	sustained := hr >= heartRateSustainedThreshold
	spike := device.LastHeartRate != nil && hr-*device.LastHeartRate > heartRateSpikeDelta

	updates := map[string]interface{}{
		"last_heart_rate": hr,
		"last_sync":       time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Model(device).Updates(updates).Error; err != nil {
		zap.L().Warn("failed to update heart rate reading",
			zap.Int64("device_id", deviceID), zap.Error(err))
	}

	if !sustained && !spike {
		return nil, nil
	}

	level := model.AlertLevelHigh
	if sustained {
		level = model.AlertLevelMedium
	}
	msg := fmt.Sprintf("Abnormal heart rate detected: %d bpm on %s", hr, device.Name)
	return s.alerts.Create(ctx, CreateAlertInput{
		UserID:        userID,
		Level:         level,
		Location:      location,
		Message:       &msg,
		TriggerSource: model.TriggerSourceWearableHeartRate,
		LogLocation:   true,
	})
}

// TriggerGesture 手势触发。设备手势配置里未启用的手势静默忽略。
func (s *WearableService) TriggerGesture(ctx context.Context, userID, deviceID int64, gestureType string, location *model.GeoPoint) (*model.Alert, error) {
	if gestureType == "" {
		return nil, bizerr.MissingField
	}
	device, err := s.getOwned(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	if !device.GestureConfig[gestureType] {
		zap.L().Info("gesture not enabled on device",
			zap.Int64("device_id", deviceID),
			zap.String("gesture", gestureType),
		)
		return nil, nil
	}

	msg := fmt.Sprintf("Emergency gesture %q detected on %s", gestureType, device.Name)
	return s.alerts.Create(ctx, CreateAlertInput{
		UserID:        userID,
		Level:         model.AlertLevelHigh,
		Location:      location,
		Message:       &msg,
		TriggerSource: model.TriggerSourceWearableGesture,
		LogLocation:   true,
	})
}

func (s *WearableService) getOwned(ctx context.Context, userID, deviceID int64) (*model.Wearable, error) {
	var device model.Wearable
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_paired = ?", deviceID, userID, true).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.DeviceNotFound
		}
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	return &device, nil
}
