package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"sentinel/internal/model"
	"sentinel/storage/database"
)

// TimelineService 事后时间线重建。从警报生命周期、位置轨迹、音频证据、
// 事件动态与通讯消息五类来源归并出一条按时间非降序的序列。
// 重建是只读操作，对同一底层数据重复执行产出完全一致。
type TimelineService struct {
	db *gorm.DB
}

var (
	timelineService *TimelineService
	timelineOnce    sync.Once
)

// Timeline 获取时间线服务单例
func Timeline() *TimelineService {
	timelineOnce.Do(func() {
		timelineService = NewTimelineService(database.DB())
	})
	return timelineService
}

func NewTimelineService(db *gorm.DB) *TimelineService {
	return &TimelineService{db: db}
}

// Build 重建时间线。alertID 和 eventID 至少给一个；
// 引用的记录不存在时跳过对应来源而不是报错。
// 稳定排序保证同一时刻的条目维持 警报→位置→音频→事件→消息 的采集顺序。
func (s *TimelineService) Build(ctx context.Context, alertID, eventID *int64) (model.Timeline, error) {
	if alertID == nil && eventID == nil {
		return nil, fmt.Errorf("timeline requires an alert or event reference")
	}

	var entries model.Timeline
	if alertID != nil {
		alertEntries, err := s.collectAlertEntries(ctx, *alertID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, alertEntries...)
	}
	if eventID != nil {
		eventEntries, err := s.collectEventEntries(ctx, *eventID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, eventEntries...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

func (s *TimelineService) collectAlertEntries(ctx context.Context, alertID int64) (model.Timeline, error) {
	var entries model.Timeline

	var alert model.Alert
	if err := s.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load alert for timeline: %w", err)
	}

	creation := model.TimelineEntry{
		Time:        alert.CreatedAt,
		Category:    model.TimelineCategoryAlert,
		Description: fmt.Sprintf("%s alert triggered", strings.ToUpper(string(alert.Level))),
		Payload: map[string]interface{}{
			"alert_id":         alert.ID,
			"level":            string(alert.Level),
			"trigger_source":   string(alert.TriggerSource),
			"is_silent_duress": alert.IsSilentDuress,
		},
	}
	if alert.Message != nil {
		creation.Payload["message"] = *alert.Message
	}
	entries = append(entries, creation)

	if alert.ResolvedAt != nil {
		resolution := model.TimelineEntry{
			Time:        *alert.ResolvedAt,
			Category:    model.TimelineCategoryAlert,
			Description: "Alert " + string(alert.Status),
			Payload: map[string]interface{}{
				"alert_id": alert.ID,
				"status":   string(alert.Status),
			},
		}
		if alert.ResolvedBy != nil {
			resolution.Payload["resolved_by"] = *alert.ResolvedBy
		}
		entries = append(entries, resolution)
	}

	var pings []model.LocationPing
	err := s.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("timestamp ASC").
		Find(&pings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load location pings for timeline: %w", err)
	}
	for _, ping := range pings {
		payload := map[string]interface{}{
			"latitude":  ping.Latitude,
			"longitude": ping.Longitude,
		}
		if ping.Accuracy != nil {
			payload["accuracy"] = *ping.Accuracy
		}
		entries = append(entries, model.TimelineEntry{
			Time:        ping.Timestamp,
			Category:    model.TimelineCategoryLocation,
			Description: "Location update",
			Payload:     payload,
		})
	}

	var recordings []model.AudioRecording
	err = s.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("created_at ASC").
		Find(&recordings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audio recordings for timeline: %w", err)
	}
	for _, rec := range recordings {
		payload := map[string]interface{}{
			"file_url": rec.FileURL,
		}
		if rec.DurationSeconds != nil {
			payload["duration_seconds"] = *rec.DurationSeconds
		}
		entries = append(entries, model.TimelineEntry{
			Time:        rec.CreatedAt,
			Category:    model.TimelineCategoryAudio,
			Description: "Audio recording captured",
			Payload:     payload,
		})
	}

	return entries, nil
}

func (s *TimelineService) collectEventEntries(ctx context.Context, eventID int64) (model.Timeline, error) {
	var entries model.Timeline

	var event model.Event
	if err := s.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load event for timeline: %w", err)
	}

	creationPayload := map[string]interface{}{
		"event_id": event.ID,
		"name":     event.Name,
	}
	if event.ThreatLevel != nil {
		creationPayload["threat_level"] = *event.ThreatLevel
	}
	entries = append(entries, model.TimelineEntry{
		Time:        event.CreatedAt,
		Category:    model.TimelineCategoryEvent,
		Description: "Event created: " + event.Name,
		Payload:     creationPayload,
	})

	// 状态推进时间只能用 updated_at 近似，事件表不留状态变更历史
	switch event.Status {
	case model.EventStatusActive:
		entries = append(entries, model.TimelineEntry{
			Time:        event.UpdatedAt,
			Category:    model.TimelineCategoryEvent,
			Description: "Event activated",
			Payload:     map[string]interface{}{"event_id": event.ID},
		})
	case model.EventStatusCompleted:
		entries = append(entries, model.TimelineEntry{
			Time:        event.UpdatedAt,
			Category:    model.TimelineCategoryEvent,
			Description: "Event completed",
			Payload:     map[string]interface{}{"event_id": event.ID},
		})
	}

	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("thread_id = ?", model.EventThreadID(eventID)).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for timeline: %w", err)
	}
	for _, msg := range messages {
		entries = append(entries, model.TimelineEntry{
			Time:        msg.CreatedAt,
			Category:    model.TimelineCategoryMessage,
			Description: "Message sent",
			Payload: map[string]interface{}{
				"sender_id": msg.SenderID,
				"type":      msg.Type,
				"content":   msg.Content,
			},
		})
	}

	return entries, nil
}
