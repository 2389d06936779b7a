package dto

import "sentinel/internal/model"

// IncidentReportRequest 事件报告接口统一请求体
type IncidentReportRequest struct {
	Action      string          `json:"action" binding:"required"`
	ReportID    *int64          `json:"report_id,omitempty"`
	AlertID     *int64          `json:"alert_id,omitempty"`
	EventID     *int64          `json:"event_id,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Location    *model.GeoPoint `json:"location,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
	Status      string          `json:"status,omitempty"`
}
