package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/model"
	"sentinel/internal/queue"
)

func TestFanOutRosterSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, strPtr("+8613800000000"))
	withPhone := seedProfile(t, env.db, "Bob Wu", model.RoleSecurityTeam, strPtr("+8613800000001"))
	noPhone := seedProfile(t, env.db, "Carol Li", model.RoleSecurityAdmin, nil)

	// 停职的安保人员不在扇出名单里
	inactive := model.Profile{FullName: "Dave Qian", Role: model.RoleSecurityTeam, IsActive: false, Phone: strPtr("+8613800000002")}
	require.NoError(t, env.db.Create(&inactive).Error)

	alert, err := env.alerts.Create(ctx, CreateAlertInput{
		UserID:        owner.ID,
		Level:         model.AlertLevelCritical,
		TriggerSource: model.TriggerSourceManual,
	})
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, env.db.Where("alert_id = ?", alert.ID).Find(&notifications).Error)
	recipients := map[int64]bool{}
	for _, n := range notifications {
		recipients[n.RecipientID] = true
	}
	assert.Len(t, recipients, 2)
	assert.True(t, recipients[withPhone.ID])
	assert.True(t, recipients[noPhone.ID])
	assert.False(t, recipients[owner.ID])
	assert.False(t, recipients[inactive.ID])

	// 短信任务只包含有手机号的接收人
	msgs := env.sms.messages()
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Recipients, 1)
	assert.Equal(t, withPhone.ID, msgs[0].Recipients[0].ProfileID)
	assert.Equal(t, "+8613800000001", msgs[0].Recipients[0].Phone)
}

// 静默警报的通知从标题正文上与普通警报不可区分，
// 静默标记只进 data 载荷
func TestSilentNotificationIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	seedProfile(t, env.db, "Bob Wu", model.RoleSecurityTeam, strPtr("+8613800000001"))

	loud, err := env.alerts.Create(ctx, CreateAlertInput{
		UserID:        owner.ID,
		Level:         model.AlertLevelCritical,
		TriggerSource: model.TriggerSourceManual,
	})
	require.NoError(t, err)

	silent, err := env.alerts.Create(ctx, CreateAlertInput{
		UserID:         owner.ID,
		Level:          model.AlertLevelCritical,
		TriggerSource:  model.TriggerSourceDuressPassword,
		IsSilentDuress: true,
		Silent:         true,
	})
	require.NoError(t, err)

	var loudRow, silentRow model.Notification
	require.NoError(t, env.db.Where("alert_id = ?", loud.ID).First(&loudRow).Error)
	require.NoError(t, env.db.Where("alert_id = ?", silent.ID).First(&silentRow).Error)

	assert.Equal(t, loudRow.Title, silentRow.Title)
	assert.Equal(t, loudRow.Body, silentRow.Body)

	assert.NotContains(t, loudRow.Data, "silent")
	assert.Equal(t, true, silentRow.Data["silent"])
	assert.Equal(t, true, silentRow.Data["is_silent_duress"])

	// 短信正文同样不声张静默性
	msgs := env.sms.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, queue.BuildSMSBody(msgs[0]), queue.BuildSMSBody(msgs[1]))
	assert.False(t, msgs[0].Silent)
	assert.True(t, msgs[1].Silent)
}

func TestFanOutWithoutPublisher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	seedProfile(t, env.db, "Bob Wu", model.RoleSecurityTeam, strPtr("+8613800000001"))

	// 短信通道未配置时通知行照常落库
	notify := NewNotifyService(env.db, nil)
	alerts := NewAlertService(env.db, notify, nil)

	alert, err := alerts.Create(ctx, CreateAlertInput{
		UserID:        owner.ID,
		Level:         model.AlertLevelHigh,
		TriggerSource: model.TriggerSourceManual,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&model.Notification{}).Where("alert_id = ?", alert.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
