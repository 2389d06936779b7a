package model

// SMSFanoutMessage 警报短信扇出任务，由 API 进程发布、worker 消费。
// 每条消息覆盖一次警报的全部短信接收人，worker 内按接收人独立容错。
type SMSFanoutMessage struct {
	MessageID  string             `json:"message_id"`
	AlertID    int64              `json:"alert_id"`
	Level      AlertLevel         `json:"level"`
	UserName   string             `json:"user_name"`
	Location   *GeoPoint          `json:"location,omitempty"`
	Silent     bool               `json:"silent"`
	Recipients []SMSRecipient     `json:"recipients"`
	RetryCount int                `json:"retry_count"`
}

// SMSRecipient 短信接收人
type SMSRecipient struct {
	ProfileID int64  `json:"profile_id"`
	Phone     string `json:"phone"`
}
