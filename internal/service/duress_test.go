package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/model"
	"sentinel/pkg/errors"
)

func TestDuressSetupAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	_, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{})
	assert.ErrorIs(t, err, errors.MissingField)

	cfg, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{
		DuressPassword: "help-me-1234",
		AppType:        "weather",
	})
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.SilentAlertEnabled)
	assert.Equal(t, model.DecoyAppWeather, cfg.AppType)
	assert.NotEqual(t, "help-me-1234", cfg.DuressPasswordHash)

	disabled := false
	cfg, err = env.duress.Update(ctx, owner.ID, DuressSetupInput{
		SilentAlertEnabled: &disabled,
		ActivationGesture:  "long_press",
	})
	require.NoError(t, err)
	assert.False(t, cfg.SilentAlertEnabled)
	assert.Equal(t, model.GestureLongPress, cfg.ActivationGesture)

	_, err = env.duress.Setup(ctx, owner.ID, DuressSetupInput{
		DuressPassword: "x",
		AppType:        "bank",
	})
	assert.ErrorIs(t, err, errors.InvalidRequest)
}

// 未配置、已停用、口令错误三种失败对外是同一个错误
func TestDuressFailuresAreOpaque(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	_, errNoConfig := env.duress.TriggerDuressAlert(ctx, owner.ID, "whatever", nil)
	assert.ErrorIs(t, errNoConfig, errors.DuressInvalid)

	_, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{DuressPassword: "real-password"})
	require.NoError(t, err)

	_, errWrong := env.duress.TriggerDuressAlert(ctx, owner.ID, "wrong-password", nil)
	assert.ErrorIs(t, errWrong, errors.DuressInvalid)

	off := false
	_, err = env.duress.Update(ctx, owner.ID, DuressSetupInput{Enabled: &off})
	require.NoError(t, err)

	_, errDisabled := env.duress.TriggerDuressAlert(ctx, owner.ID, "real-password", nil)
	assert.ErrorIs(t, errDisabled, errors.DuressInvalid)

	assert.Equal(t, errNoConfig, errWrong)
	assert.Equal(t, errWrong, errDisabled)

	// 全程不应产生任何警报
	var count int64
	require.NoError(t, env.db.Model(&model.Alert{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTriggerDuressAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	seedProfile(t, env.db, "Bob Wu", model.RoleSecurityTeam, strPtr("+8613800000001"))

	_, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{DuressPassword: "real-password"})
	require.NoError(t, err)

	alert, err := env.duress.TriggerDuressAlert(ctx, owner.ID, "real-password",
		&model.GeoPoint{Lat: 31.2, Lng: 121.5})
	require.NoError(t, err)
	assert.Equal(t, model.AlertLevelCritical, alert.Level)
	assert.Equal(t, model.TriggerSourceDuressPassword, alert.TriggerSource)
	assert.True(t, alert.IsSilentDuress)

	// silent_alert_enabled 时留位置痕迹
	var pings int64
	require.NoError(t, env.db.Model(&model.LocationPing{}).Where("alert_id = ?", alert.ID).Count(&pings).Error)
	assert.EqualValues(t, 1, pings)

	var row model.Notification
	require.NoError(t, env.db.Where("alert_id = ?", alert.ID).First(&row).Error)
	assert.Equal(t, true, row.Data["silent"])
}

func TestTriggerDuressAlertWithoutLocationTrail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	off := false
	_, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{
		DuressPassword:     "real-password",
		SilentAlertEnabled: &off,
	})
	require.NoError(t, err)

	alert, err := env.duress.TriggerDuressAlert(ctx, owner.ID, "real-password",
		&model.GeoPoint{Lat: 31.2, Lng: 121.5})
	require.NoError(t, err)

	var pings int64
	require.NoError(t, env.db.Model(&model.LocationPing{}).Where("alert_id = ?", alert.ID).Count(&pings).Error)
	assert.Zero(t, pings)
}

func TestValidateDuressActivatesFakeInterface(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	_, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{DuressPassword: "real-password"})
	require.NoError(t, err)

	fakeActive, alert, err := env.duress.ValidateDuress(ctx, owner.ID, "real-password", nil)
	require.NoError(t, err)
	assert.True(t, fakeActive)
	require.NotNil(t, alert)
	assert.True(t, alert.IsSilentDuress)

	cfg, err := env.duress.GetConfig(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, cfg.FakeInterfaceActive)

	require.NoError(t, env.duress.DeactivateFakeInterface(ctx, owner.ID))
	cfg, err = env.duress.GetConfig(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, cfg.FakeInterfaceActive)
}

func TestFakeInterfaceSessionExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	_, err := env.duress.Setup(ctx, owner.ID, DuressSetupInput{DuressPassword: "real-password"})
	require.NoError(t, err)
	require.NoError(t, env.duress.ActivateFakeInterface(ctx, owner.ID))

	// 把激活时间拨回 TTL 之前，会话应判定为已过期并被现场清理
	stale := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, env.db.Model(&model.DecoyConfig{}).
		Where("user_id = ?", owner.ID).
		Update("fake_interface_activated_at", stale).Error)

	cfg, err := env.duress.GetConfig(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, cfg.FakeInterfaceActive)

	var stored model.DecoyConfig
	require.NoError(t, env.db.Where("user_id = ?", owner.ID).First(&stored).Error)
	assert.False(t, stored.FakeInterfaceActive)
}

func TestGetConfigMissing(t *testing.T) {
	env := newTestEnv(t)
	cfg, err := env.duress.GetConfig(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
