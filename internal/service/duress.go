package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentinel/config"
	"sentinel/internal/model"
	bizerr "sentinel/pkg/errors"
	"sentinel/storage/database"
	"sentinel/utils"
)

// DuressService 胁迫口令与伪装模式。验证失败的各种原因
// （未配置、已停用、口令不符）对外折叠为同一个错误，不给攻击者探测口。
type DuressService struct {
	db         *gorm.DB
	alerts     *AlertService
	hashParams utils.HashParams
	fakeTTL    time.Duration

	dummyOnce sync.Once
	dummyHash string
}

var (
	duressService *DuressService
	duressOnce    sync.Once
)

// Duress 获取胁迫服务单例
func Duress() *DuressService {
	duressOnce.Do(func() {
		duressService = NewDuressService(database.DB(), Alert(), utils.HashParams{
			Time:    config.Cfg.DuressHashTime,
			Memory:  config.Cfg.DuressHashMemory,
			Threads: config.Cfg.DuressHashThreads,
		}, time.Duration(config.Cfg.FakeInterfaceTTLMinutes)*time.Minute)
	})
	return duressService
}

func NewDuressService(db *gorm.DB, alerts *AlertService, params utils.HashParams, fakeTTL time.Duration) *DuressService {
	return &DuressService{db: db, alerts: alerts, hashParams: params, fakeTTL: fakeTTL}
}

// DuressSetupInput 伪装模式配置参数
type DuressSetupInput struct {
	DuressPassword     string
	Enabled            *bool
	AppType            string
	ActivationGesture  string
	SilentAlertEnabled *bool
}

// Setup 建立或重置伪装模式配置，口令必填
func (s *DuressService) Setup(ctx context.Context, userID int64, in DuressSetupInput) (*model.DecoyConfig, error) {
	if in.DuressPassword == "" {
		return nil, bizerr.MissingField
	}

	hash, err := utils.HashDuressPassword(in.DuressPassword, s.hashParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash duress password: %w", err)
	}

	cfg, err := s.loadConfig(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load decoy config: %w", err)
	}
	if cfg == nil {
		cfg = &model.DecoyConfig{UserID: userID}
	}

	cfg.DuressPasswordHash = hash
	cfg.Enabled = true
	cfg.SilentAlertEnabled = true
	if in.Enabled != nil {
		cfg.Enabled = *in.Enabled
	}
	if in.SilentAlertEnabled != nil {
		cfg.SilentAlertEnabled = *in.SilentAlertEnabled
	}
	if in.AppType != "" {
		appType := model.DecoyAppType(in.AppType)
		if !appType.Valid() {
			return nil, bizerr.InvalidRequest
		}
		cfg.AppType = appType
	} else if cfg.AppType == "" {
		cfg.AppType = model.DecoyAppCalculator
	}
	if in.ActivationGesture != "" {
		gesture := model.ActivationGesture(in.ActivationGesture)
		if !gesture.Valid() {
			return nil, bizerr.InvalidRequest
		}
		cfg.ActivationGesture = gesture
	} else if cfg.ActivationGesture == "" {
		cfg.ActivationGesture = model.GestureTripleTap
	}

	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("failed to save decoy config: %w", err)
	}
	zap.L().Info("decoy config saved", zap.Int64("user_id", userID))
	return cfg, nil
}

// Update 局部更新伪装模式配置，口令可选替换
func (s *DuressService) Update(ctx context.Context, userID int64, in DuressSetupInput) (*model.DecoyConfig, error) {
	cfg, err := s.loadConfig(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.InvalidRequest
		}
		return nil, fmt.Errorf("failed to load decoy config: %w", err)
	}

	updates := map[string]interface{}{}
	if in.DuressPassword != "" {
		hash, herr := utils.HashDuressPassword(in.DuressPassword, s.hashParams)
		if herr != nil {
			return nil, fmt.Errorf("failed to hash duress password: %w", herr)
		}
		updates["duress_password_hash"] = hash
	}
	if in.Enabled != nil {
		updates["enabled"] = *in.Enabled
	}
	if in.SilentAlertEnabled != nil {
		updates["silent_alert_enabled"] = *in.SilentAlertEnabled
	}
	if in.AppType != "" {
		appType := model.DecoyAppType(in.AppType)
		if !appType.Valid() {
			return nil, bizerr.InvalidRequest
		}
		updates["app_type"] = appType
	}
	if in.ActivationGesture != "" {
		gesture := model.ActivationGesture(in.ActivationGesture)
		if !gesture.Valid() {
			return nil, bizerr.InvalidRequest
		}
		updates["activation_gesture"] = gesture
	}
	if len(updates) == 0 {
		return cfg, nil
	}

	if err := s.db.WithContext(ctx).Model(cfg).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update decoy config: %w", err)
	}
	return s.loadConfig(ctx, userID)
}

// GetConfig 返回伪装模式配置，未配置返回 nil。
// 假界面会话到期时现场清理激活标记。
func (s *DuressService) GetConfig(ctx context.Context, userID int64) (*model.DecoyConfig, error) {
	cfg, err := s.loadConfig(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load decoy config: %w", err)
	}

	if cfg.FakeInterfaceActive && !cfg.FakeInterfaceAlive(s.fakeTTL, time.Now()) {
		if derr := s.DeactivateFakeInterface(ctx, userID); derr != nil {
			zap.L().Warn("failed to expire fake interface session",
				zap.Int64("user_id", userID), zap.Error(derr))
		} else {
			cfg.FakeInterfaceActive = false
			cfg.FakeInterfaceActivatedAt = nil
		}
	}
	return cfg, nil
}

// verify 核对胁迫口令。配置缺失或停用时也对一个固定哈希做等量验证，
// 让失败路径耗时一致。
func (s *DuressService) verify(ctx context.Context, userID int64, password string) bool {
	cfg, err := s.loadConfig(ctx, userID)
	if err != nil || !cfg.Enabled || cfg.DuressPasswordHash == "" {
		utils.VerifyDuressPassword(password, s.dummy())
		return false
	}
	return utils.VerifyDuressPassword(password, cfg.DuressPasswordHash)
}

// TriggerDuressAlert 核对口令并创建静默胁迫警报。
// 位置留痕只在 silent_alert_enabled 时进行。
func (s *DuressService) TriggerDuressAlert(ctx context.Context, userID int64, password string, location *model.GeoPoint) (*model.Alert, error) {
	if !s.verify(ctx, userID, password) {
		return nil, bizerr.DuressInvalid
	}

	cfg, err := s.loadConfig(ctx, userID)
	if err != nil {
		return nil, bizerr.DuressInvalid
	}

	msg := "Silent duress alert triggered"
	alert, err := s.alerts.Create(ctx, CreateAlertInput{
		UserID:         userID,
		Level:          model.AlertLevelCritical,
		Location:       location,
		Message:        &msg,
		TriggerSource:  model.TriggerSourceDuressPassword,
		IsSilentDuress: true,
		Silent:         true,
		LogLocation:    cfg.SilentAlertEnabled,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("duress alert triggered", zap.Int64("alert_id", alert.ID))
	return alert, nil
}

// ValidateDuress 伪装模式里的口令验证：成功即激活假界面会话，
// 并在启用静默警报时顺带触发一条胁迫警报。
func (s *DuressService) ValidateDuress(ctx context.Context, userID int64, password string, location *model.GeoPoint) (fakeActive bool, alert *model.Alert, err error) {
	if !s.verify(ctx, userID, password) {
		return false, nil, bizerr.DuressInvalid
	}

	cfg, err := s.loadConfig(ctx, userID)
	if err != nil {
		return false, nil, bizerr.DuressInvalid
	}

	if err := s.ActivateFakeInterface(ctx, userID); err != nil {
		return false, nil, err
	}

	if cfg.SilentAlertEnabled {
		msg := "Silent duress alert triggered"
		alert, err = s.alerts.Create(ctx, CreateAlertInput{
			UserID:         userID,
			Level:          model.AlertLevelCritical,
			Location:       location,
			Message:        &msg,
			TriggerSource:  model.TriggerSourceDuressPassword,
			IsSilentDuress: true,
			Silent:         true,
			LogLocation:    location != nil,
		})
		if err != nil {
			zap.L().Error("failed to create silent alert on duress validation",
				zap.Int64("user_id", userID), zap.Error(err))
			alert = nil
		}
	}
	return true, alert, nil
}

// ActivateFakeInterface 激活假界面会话并刷新激活时间
func (s *DuressService) ActivateFakeInterface(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).
		Model(&model.DecoyConfig{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"fake_interface_active":       true,
			"fake_interface_activated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to activate fake interface: %w", err)
	}
	return nil
}

// DeactivateFakeInterface 关闭假界面会话
func (s *DuressService) DeactivateFakeInterface(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).
		Model(&model.DecoyConfig{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"fake_interface_active":       false,
			"fake_interface_activated_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate fake interface: %w", err)
	}
	return nil
}

func (s *DuressService) loadConfig(ctx context.Context, userID int64) (*model.DecoyConfig, error) {
	var cfg model.DecoyConfig
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *DuressService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash = utils.DummyDuressHash(s.hashParams)
	})
	return s.dummyHash
}
