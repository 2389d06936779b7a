package model

import "strconv"

// Message 通讯线程消息。事件线程的 thread_id 约定为 "event_" + 事件 ID，
// 时间线重建时按此约定归并。
type Message struct {
	BaseModel
	ThreadID string `gorm:"type:varchar(64);not null;index:idx_messages_thread" json:"thread_id"`
	SenderID int64  `gorm:"not null" json:"sender_id"`
	Type     string `gorm:"type:varchar(16);not null;default:'chat'" json:"type"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "messages"
}

// EventThreadID 事件通讯线程的约定 ID
func EventThreadID(eventID int64) string {
	return "event_" + strconv.FormatInt(eventID, 10)
}
