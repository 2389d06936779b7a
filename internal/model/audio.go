package model

// AudioRecording 警报音频证据，软删除保留审计痕迹
type AudioRecording struct {
	BaseModel
	UserID               int64   `gorm:"not null;index" json:"user_id"`
	AlertID              *int64  `gorm:"index:idx_audio_recordings_alert" json:"alert_id,omitempty"`
	FileURL              string  `gorm:"type:varchar(512);not null" json:"file_url"`
	DurationSeconds      *int    `json:"duration_seconds,omitempty"`
	IsEmergencyRecording bool    `gorm:"not null;default:false" json:"is_emergency_recording"`
}

// TableName 指定表名
func (AudioRecording) TableName() string {
	return "audio_recordings"
}
