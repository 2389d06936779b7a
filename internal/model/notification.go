package model

// NotificationChannel 通知渠道枚举
type NotificationChannel string

const (
	NotificationChannelPush NotificationChannel = "push"
	NotificationChannelSMS  NotificationChannel = "sms"
)

// Notification 警报扇出产生的接收人通知记录。
// 推送通道的持久化交接就是这一行：行落库即视为已递交给推送侧。
type Notification struct {
	BaseModel
	RecipientID int64      `gorm:"not null;index:idx_notifications_recipient" json:"recipient_id"`
	AlertID     int64      `gorm:"not null;index:idx_notifications_alert" json:"alert_id"`
	Type        string     `gorm:"type:varchar(32);not null;default:'emergency'" json:"type"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Body        string     `gorm:"type:varchar(512);not null" json:"body"`
	Data        JSONB      `gorm:"type:jsonb" json:"data"`
	SentVia     StringList `gorm:"type:jsonb" json:"sent_via"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
