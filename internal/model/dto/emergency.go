package dto

import "sentinel/internal/model"

// EmergencyAlertRequest 紧急警报接口统一请求体，action 决定生效字段
type EmergencyAlertRequest struct {
	Action          string          `json:"action" binding:"required"`
	Level           string          `json:"level,omitempty"`
	EventID         *int64          `json:"event_id,omitempty"`
	Location        *model.GeoPoint `json:"location,omitempty"`
	Message         *string         `json:"message,omitempty"`
	AlertID         *int64          `json:"alert_id,omitempty"`
	DuressPassword  string          `json:"duress_password,omitempty"`
	FilePath        string          `json:"file_path,omitempty"`
	DurationSeconds *int            `json:"duration_seconds,omitempty"`
}
