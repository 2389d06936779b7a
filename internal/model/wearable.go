package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// WearableType 可穿戴设备类型枚举
type WearableType string

const (
	WearableTypeWatch    WearableType = "watch"
	WearableTypeButton   WearableType = "button"
	WearableTypeBracelet WearableType = "bracelet"
	WearableTypePendant  WearableType = "pendant"
	WearableTypeOther    WearableType = "other"
)

// Valid 判断设备类型是否合法
func (t WearableType) Valid() bool {
	switch t {
	case WearableTypeWatch, WearableTypeButton, WearableTypeBracelet, WearableTypePendant, WearableTypeOther:
		return true
	}
	return false
}

// GestureConfig 手势到是否触发警报的映射（JSONB 存储）
type GestureConfig map[string]bool

func (g GestureConfig) Value() (driver.Value, error) {
	if g == nil {
		return json.Marshal(map[string]bool{})
	}
	return json.Marshal(g)
}

func (g *GestureConfig) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			bytes = []byte(s)
		} else {
			return errors.New("failed to unmarshal GestureConfig value")
		}
	}
	return json.Unmarshal(bytes, g)
}

// Wearable 已配对的可穿戴设备
type Wearable struct {
	BaseModel
	UserID            int64         `gorm:"not null;index:idx_wearables_user" json:"user_id"`
	Name              string        `gorm:"type:varchar(128);not null" json:"name"`
	DeviceType        WearableType  `gorm:"type:varchar(16);not null" json:"device_type"`
	MacAddress        *string       `gorm:"type:varchar(32);index" json:"mac_address,omitempty"`
	BluetoothDeviceID *string       `gorm:"type:varchar(64)" json:"bluetooth_device_id,omitempty"`
	IsPaired          bool          `gorm:"not null;default:false" json:"is_paired"`
	IsConnected       bool          `gorm:"not null;default:false" json:"is_connected"`
	BatteryLevel      *int          `json:"battery_level,omitempty"`
	FirmwareVersion   *string       `gorm:"type:varchar(32)" json:"firmware_version,omitempty"`
	LastHeartRate     *int          `json:"last_heart_rate,omitempty"`
	GestureConfig     GestureConfig `gorm:"type:jsonb;default:'{}'" json:"gesture_config"`
	LastSync          time.Time     `gorm:"type:timestamptz;not null" json:"last_sync"`
}

// TableName 指定表名
func (Wearable) TableName() string {
	return "wearables"
}
