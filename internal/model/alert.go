package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AlertLevel 警报级别枚举
type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "low"
	AlertLevelMedium   AlertLevel = "medium"
	AlertLevelHigh     AlertLevel = "high"
	AlertLevelCritical AlertLevel = "critical"
)

// Valid 判断级别是否为四个合法取值之一
func (l AlertLevel) Valid() bool {
	switch l {
	case AlertLevelLow, AlertLevelMedium, AlertLevelHigh, AlertLevelCritical:
		return true
	}
	return false
}

// AlertStatus 警报状态枚举。active 为初始态，resolved/cancelled 为终态，不可逆转。
type AlertStatus string

const (
	AlertStatusActive    AlertStatus = "active"
	AlertStatusResolved  AlertStatus = "resolved"
	AlertStatusCancelled AlertStatus = "cancelled"
)

// Terminal 终态判断
func (s AlertStatus) Terminal() bool {
	return s == AlertStatusResolved || s == AlertStatusCancelled
}

// TriggerSource 警报触发来源枚举
type TriggerSource string

const (
	TriggerSourceManual            TriggerSource = "manual"
	TriggerSourceDuressPassword    TriggerSource = "duress_password"
	TriggerSourceWearableButton    TriggerSource = "wearable_button"
	TriggerSourceWearableHeartRate TriggerSource = "wearable_heartrate"
	TriggerSourceWearableGesture   TriggerSource = "wearable_gesture"
)

// GeoPoint 坐标（JSONB 存储）
type GeoPoint struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

func (g GeoPoint) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GeoPoint) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			bytes = []byte(s)
		} else {
			return errors.New("failed to unmarshal GeoPoint value")
		}
	}
	return json.Unmarshal(bytes, g)
}

// Alert 警报模型，整个平台的核心实体
type Alert struct {
	BaseModel
	UserID            int64         `gorm:"not null;index:idx_alerts_user_status" json:"user_id"`
	EventID           *int64        `gorm:"index" json:"event_id,omitempty"`
	Level             AlertLevel    `gorm:"type:varchar(16);not null" json:"level"`
	Location          *GeoPoint     `gorm:"type:jsonb" json:"location,omitempty"`
	Message           *string       `gorm:"type:varchar(512)" json:"message,omitempty"`
	AudioRecordingURL *string       `gorm:"type:varchar(512)" json:"audio_recording_url,omitempty"`
	Status            AlertStatus   `gorm:"type:varchar(16);not null;default:'active';index:idx_alerts_user_status" json:"status"`
	TriggerSource     TriggerSource `gorm:"type:varchar(32);not null" json:"trigger_source"`
	IsSilentDuress    bool          `gorm:"not null;default:false" json:"is_silent_duress"`
	ResolvedAt        *time.Time    `gorm:"type:timestamptz" json:"resolved_at,omitempty"`
	ResolvedBy        *int64        `json:"resolved_by,omitempty"`
}

// TableName 指定表名
func (Alert) TableName() string {
	return "alerts"
}
