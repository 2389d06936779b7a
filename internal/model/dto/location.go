package dto

// LocationTrackingRequest 位置上报与查询接口统一请求体
type LocationTrackingRequest struct {
	Action    string   `json:"action" binding:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	EventID   *int64   `json:"event_id,omitempty"`
	AlertID   *int64   `json:"alert_id,omitempty"`
	UserID    *int64   `json:"user_id,omitempty"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}
