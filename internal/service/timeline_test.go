package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/model"
)

// 搭一个横跨五类来源的事发现场
func seedIncident(t *testing.T, env *testEnv, userID int64) (alertID, eventID int64, base time.Time) {
	t.Helper()

	base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	event := model.Event{
		Name:        "Summit Escort",
		Status:      model.EventStatusActive,
		ThreatLevel: strPtr("high"),
		CreatedBy:   userID,
	}
	event.CreatedAt = base.Add(-time.Hour)
	event.UpdatedAt = base.Add(-30 * time.Minute)
	require.NoError(t, env.db.Create(&event).Error)

	resolvedAt := base.Add(20 * time.Minute)
	resolvedBy := userID
	alert := model.Alert{
		UserID:        userID,
		EventID:       &event.ID,
		Level:         model.AlertLevelCritical,
		Status:        model.AlertStatusResolved,
		TriggerSource: model.TriggerSourceManual,
		ResolvedAt:    &resolvedAt,
		ResolvedBy:    &resolvedBy,
	}
	alert.CreatedAt = base
	require.NoError(t, env.db.Create(&alert).Error)

	for i, offset := range []time.Duration{2 * time.Minute, 5 * time.Minute, 9 * time.Minute} {
		ping := model.LocationPing{
			UserID:              userID,
			AlertID:             &alert.ID,
			Latitude:            39.9 + float64(i)*0.001,
			Longitude:           116.4,
			IsEmergencyTracking: true,
			Timestamp:           base.Add(offset),
		}
		require.NoError(t, env.db.Create(&ping).Error)
	}

	audio := model.AudioRecording{
		UserID:               userID,
		AlertID:              &alert.ID,
		FileURL:              "https://storage.test/audio-recordings/1.webm",
		IsEmergencyRecording: true,
	}
	audio.CreatedAt = base.Add(3 * time.Minute)
	require.NoError(t, env.db.Create(&audio).Error)

	message := model.Message{
		ThreadID: model.EventThreadID(event.ID),
		SenderID: userID,
		Type:     "chat",
		Content:  "Team dispatched",
	}
	message.CreatedAt = base.Add(6 * time.Minute)
	require.NoError(t, env.db.Create(&message).Error)

	return alert.ID, event.ID, base
}

func TestTimelineOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	alertID, eventID, base := seedIncident(t, env, owner.ID)

	timeline, err := env.timeline.Build(ctx, &alertID, &eventID)
	require.NoError(t, err)
	require.NotEmpty(t, timeline)

	// 时间非降序
	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].Time.Before(timeline[i-1].Time),
			"entry %d (%s) precedes entry %d (%s)",
			i, timeline[i].Description, i-1, timeline[i-1].Description)
	}

	descriptions := make([]string, len(timeline))
	for i, e := range timeline {
		descriptions[i] = e.Description
	}
	assert.Equal(t, []string{
		"Event created: Summit Escort",
		"Event activated",
		"CRITICAL alert triggered",
		"Location update",
		"Audio recording captured",
		"Location update",
		"Message sent",
		"Location update",
		"Alert resolved",
	}, descriptions)

	assert.Equal(t, base, timeline[2].Time)
	assert.Equal(t, model.TimelineCategoryAlert, timeline[2].Category)
}

// 对同一底层数据重复重建，输出逐字节一致
func TestTimelineDeterministic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	alertID, eventID, _ := seedIncident(t, env, owner.ID)

	first, err := env.timeline.Build(ctx, &alertID, &eventID)
	require.NoError(t, err)
	second, err := env.timeline.Build(ctx, &alertID, &eventID)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

// 同一时刻的条目维持采集顺序：警报条目先于位置条目
func TestTimelineStableTieBreak(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	alert := model.Alert{
		UserID:        owner.ID,
		Level:         model.AlertLevelHigh,
		Status:        model.AlertStatusActive,
		TriggerSource: model.TriggerSourceManual,
	}
	alert.CreatedAt = at
	require.NoError(t, env.db.Create(&alert).Error)

	ping := model.LocationPing{
		UserID:    owner.ID,
		AlertID:   &alert.ID,
		Latitude:  1,
		Longitude: 2,
		Timestamp: at,
	}
	require.NoError(t, env.db.Create(&ping).Error)

	timeline, err := env.timeline.Build(ctx, &alert.ID, nil)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, model.TimelineCategoryAlert, timeline[0].Category)
	assert.Equal(t, model.TimelineCategoryLocation, timeline[1].Category)
	assert.True(t, timeline[0].Time.Equal(timeline[1].Time))
}

func TestTimelineSkipsMissingReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	missing := int64(99999)
	timeline, err := env.timeline.Build(ctx, &missing, nil)
	require.NoError(t, err)
	assert.Empty(t, timeline)

	_, err = env.timeline.Build(ctx, nil, nil)
	assert.Error(t, err)
}
