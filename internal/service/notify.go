package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentinel/config"
	"sentinel/internal/model"
	"sentinel/internal/queue"
	"sentinel/pkg/metrics"
	"sentinel/storage/database"
)

// SMSPublisher 短信扇出任务发布函数，nil 表示短信通道未启用
type SMSPublisher func(ctx context.Context, msg model.SMSFanoutMessage) error

// NotifyService 负责警报扇出：通知行同步落库（推送腿的持久化交接），
// 短信任务投递到消息队列由 worker 异步发送。
type NotifyService struct {
	db         *gorm.DB
	publishSMS SMSPublisher
}

var (
	notifyService *NotifyService
	notifyOnce    sync.Once
)

// Notify 获取通知服务单例
func Notify() *NotifyService {
	notifyOnce.Do(func() {
		var publisher SMSPublisher
		if config.Cfg.SMSConfigured() {
			publisher = queue.PublishSMSFanout
		}
		notifyService = NewNotifyService(database.DB(), publisher)
	})
	return notifyService
}

func NewNotifyService(db *gorm.DB, publisher SMSPublisher) *NotifyService {
	return &NotifyService{db: db, publishSMS: publisher}
}

// FanOut 向全体在职安保人员扇出一条警报。
// 静默警报与普通警报的标题正文完全一致，静默性只体现在 data 载荷里，
// 展示层据此决定呈现方式，旁观者无法从通知外观分辨。
func (s *NotifyService) FanOut(ctx context.Context, alert *model.Alert, silent bool) error {
	var roster []model.Profile
	err := s.db.WithContext(ctx).
		Where("role IN ? AND is_active = ?", []model.Role{model.RoleSecurityTeam, model.RoleSecurityAdmin}, true).
		Find(&roster).Error
	if err != nil {
		return fmt.Errorf("failed to load security roster: %w", err)
	}
	if len(roster) == 0 {
		zap.L().Warn("no active security personnel to notify", zap.Int64("alert_id", alert.ID))
		return nil
	}

	subjectName := s.subjectName(ctx, alert.UserID)
	title := fmt.Sprintf("Emergency Alert: %s", strings.ToUpper(string(alert.Level)))
	body := fmt.Sprintf("%s has triggered a %s alert", subjectName, alert.Level)

	data := model.JSONB{
		"alert_id":       alert.ID,
		"level":          string(alert.Level),
		"trigger_source": string(alert.TriggerSource),
	}
	if alert.Location != nil {
		data["location"] = alert.Location
	}
	if silent {
		data["silent"] = true
		data["is_silent_duress"] = true
	}

	rows := make([]model.Notification, 0, len(roster))
	for _, member := range roster {
		rows = append(rows, model.Notification{
			RecipientID: member.ID,
			AlertID:     alert.ID,
			Type:        "emergency",
			Title:       title,
			Body:        body,
			Data:        data,
			SentVia:     model.StringList{string(model.NotificationChannelPush)},
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}
	metrics.NotificationsFanout(ctx, len(rows), silent)

	s.dispatchSMS(ctx, alert, roster, subjectName, silent)
	return nil
}

// dispatchSMS 投递短信扇出任务，尽力而为，失败只记日志
func (s *NotifyService) dispatchSMS(ctx context.Context, alert *model.Alert, roster []model.Profile, subjectName string, silent bool) {
	if s.publishSMS == nil {
		return
	}

	recipients := make([]model.SMSRecipient, 0, len(roster))
	for _, member := range roster {
		if member.Phone == nil || *member.Phone == "" {
			continue
		}
		recipients = append(recipients, model.SMSRecipient{
			ProfileID: member.ID,
			Phone:     *member.Phone,
		})
	}
	if len(recipients) == 0 {
		return
	}

	msg := model.SMSFanoutMessage{
		AlertID:    alert.ID,
		Level:      alert.Level,
		UserName:   subjectName,
		Location:   alert.Location,
		Silent:     silent,
		Recipients: recipients,
	}
	if err := s.publishSMS(ctx, msg); err != nil {
		zap.L().Warn("failed to publish sms fanout task",
			zap.Int64("alert_id", alert.ID),
			zap.Error(err),
		)
	}
}

func (s *NotifyService) subjectName(ctx context.Context, userID int64) string {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, userID).Error; err != nil || profile.FullName == "" {
		return "A user"
	}
	return profile.FullName
}
