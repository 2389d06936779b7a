package model

import "time"

// LocationPing GPS 采样记录，只追加，本核心不修改不删除
type LocationPing struct {
	BaseModel
	UserID              int64     `gorm:"not null;index:idx_location_pings_user_time" json:"user_id"`
	EventID             *int64    `gorm:"index" json:"event_id,omitempty"`
	AlertID             *int64    `gorm:"index:idx_location_pings_alert" json:"alert_id,omitempty"`
	Latitude            float64   `gorm:"not null" json:"latitude"`
	Longitude           float64   `gorm:"not null" json:"longitude"`
	Accuracy            *float64  `json:"accuracy,omitempty"`
	Altitude            *float64  `json:"altitude,omitempty"`
	Heading             *float64  `json:"heading,omitempty"`
	Speed               *float64  `json:"speed,omitempty"`
	IsEmergencyTracking bool      `gorm:"not null;default:false" json:"is_emergency_tracking"`
	Timestamp           time.Time `gorm:"type:timestamptz;not null;index:idx_location_pings_user_time" json:"timestamp"`
}

// TableName 指定表名
func (LocationPing) TableName() string {
	return "location_pings"
}
