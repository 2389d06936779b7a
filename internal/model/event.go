package model

// EventStatus 事件状态枚举
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event 安保事件（任务），警报与报告可关联到事件
type Event struct {
	BaseModel
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Status      EventStatus `gorm:"type:varchar(16);not null;default:'upcoming';index" json:"status"`
	ThreatLevel *string     `gorm:"type:varchar(16)" json:"threat_level,omitempty"`
	Location    *GeoPoint   `gorm:"type:jsonb" json:"location,omitempty"`
	CreatedBy   int64       `gorm:"not null" json:"created_by"`
}

// TableName 指定表名
func (Event) TableName() string {
	return "events"
}

// EventAssignment 安保人员与事件的指派关系
type EventAssignment struct {
	BaseModel
	EventID int64 `gorm:"not null;index:idx_event_assignments_event;uniqueIndex:uk_event_assignment" json:"event_id"`
	UserID  int64 `gorm:"not null;index:idx_event_assignments_user;uniqueIndex:uk_event_assignment" json:"user_id"`
}

// TableName 指定表名
func (EventAssignment) TableName() string {
	return "event_assignments"
}
