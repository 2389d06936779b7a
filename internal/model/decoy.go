package model

import "time"

// DecoyAppType 假界面外观类型枚举
type DecoyAppType string

const (
	DecoyAppCalculator DecoyAppType = "calculator"
	DecoyAppWeather    DecoyAppType = "weather"
	DecoyAppNotes      DecoyAppType = "notes"
)

// Valid 判断外观类型是否合法
func (t DecoyAppType) Valid() bool {
	switch t {
	case DecoyAppCalculator, DecoyAppWeather, DecoyAppNotes:
		return true
	}
	return false
}

// ActivationGesture 假界面唤起手势枚举
type ActivationGesture string

const (
	GestureTripleTap       ActivationGesture = "triple_tap"
	GestureLongPress       ActivationGesture = "long_press"
	GestureInvisibleButton ActivationGesture = "invisible_button"
)

// Valid 判断唤起手势是否合法
func (g ActivationGesture) Valid() bool {
	switch g {
	case GestureTripleTap, GestureLongPress, GestureInvisibleButton:
		return true
	}
	return false
}

// DecoyConfig 每用户唯一的胁迫/伪装配置。
// 口令只存 argon2id 哈希；假界面会话记录激活时间，配合 TTL 判定有效性。
type DecoyConfig struct {
	BaseModel
	UserID                   int64             `gorm:"uniqueIndex;not null" json:"user_id"`
	Enabled                  bool              `gorm:"not null;default:true" json:"enabled"`
	DuressPasswordHash       string            `gorm:"type:varchar(255);not null" json:"-"` // 口令哈希，不对外暴露
	SilentAlertEnabled       bool              `gorm:"not null;default:true" json:"silent_alert_enabled"`
	FakeInterfaceActive      bool              `gorm:"not null;default:false" json:"fake_interface_active"`
	FakeInterfaceActivatedAt *time.Time        `gorm:"type:timestamptz" json:"fake_interface_activated_at,omitempty"`
	AppType                  DecoyAppType      `gorm:"type:varchar(16);not null;default:'calculator'" json:"app_type"`
	ActivationGesture        ActivationGesture `gorm:"type:varchar(32);not null;default:'triple_tap'" json:"activation_gesture"`
}

// TableName 指定表名
func (DecoyConfig) TableName() string {
	return "decoy_configs"
}

// FakeInterfaceAlive 假界面会话是否仍在有效期内
func (c *DecoyConfig) FakeInterfaceAlive(ttl time.Duration, now time.Time) bool {
	if !c.FakeInterfaceActive || c.FakeInterfaceActivatedAt == nil {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(*c.FakeInterfaceActivatedAt) < ttl
}
