package dto

import "sentinel/internal/model"

// DecoyModeRequest 伪装模式接口统一请求体
type DecoyModeRequest struct {
	Action             string          `json:"action" binding:"required"`
	DuressPassword     string          `json:"duress_password,omitempty"`
	Enabled            *bool           `json:"enabled,omitempty"`
	AppType            string          `json:"app_type,omitempty"`
	ActivationGesture  string          `json:"activation_gesture,omitempty"`
	SilentAlertEnabled *bool           `json:"silent_alert_enabled,omitempty"`
	Location           *model.GeoPoint `json:"location,omitempty"`
}

// DuressValidationResult 胁迫口令验证结果
type DuressValidationResult struct {
	Valid                bool   `json:"valid"`
	FakeInterfaceActive  bool   `json:"fake_interface_active"`
	SilentAlertTriggered bool   `json:"silent_alert_triggered"`
	AlertID              *int64 `json:"alert_id,omitempty"`
}
