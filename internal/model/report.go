package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TimelineCategory 时间线条目类别。同一时刻的条目按类别固定优先级保持稳定顺序：
// 警报生命周期 → 位置 → 音频 → 事件 → 消息。
type TimelineCategory string

const (
	TimelineCategoryAlert    TimelineCategory = "alert"
	TimelineCategoryLocation TimelineCategory = "location"
	TimelineCategoryAudio    TimelineCategory = "audio"
	TimelineCategoryEvent    TimelineCategory = "event"
	TimelineCategoryMessage  TimelineCategory = "message"
)

// TimelineEntry 时间线单条记录
type TimelineEntry struct {
	Time        time.Time              `json:"time"`
	Category    TimelineCategory       `json:"category"`
	Description string                 `json:"description"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
}

// Timeline 按时间非降序排列的事件序列（JSONB 存储）
type Timeline []TimelineEntry

func (t Timeline) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *Timeline) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			bytes = []byte(s)
		} else {
			return errors.New("failed to unmarshal Timeline value")
		}
	}
	return json.Unmarshal(bytes, t)
}

// ReportStatus 报告状态枚举
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusArchived  ReportStatus = "archived"
)

// IncidentReport 事后报告。时间线由重建算法生成后嵌入保存，
// 重新生成会覆盖旧值。
type IncidentReport struct {
	BaseModel
	UserID      int64        `gorm:"not null;index:idx_incident_reports_user" json:"user_id"`
	AlertID     *int64       `gorm:"index" json:"alert_id,omitempty"`
	EventID     *int64       `gorm:"index" json:"event_id,omitempty"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Location    *GeoPoint    `gorm:"type:jsonb" json:"location,omitempty"`
	Attachments StringList   `gorm:"type:jsonb" json:"attachments"`
	AudioFiles  StringList   `gorm:"type:jsonb" json:"audio_files"`
	Timeline    Timeline     `gorm:"type:jsonb" json:"timeline,omitempty"`
	Status      ReportStatus `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
}

// TableName 指定表名
func (IncidentReport) TableName() string {
	return "incident_reports"
}
