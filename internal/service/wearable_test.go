package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/model"
	"sentinel/internal/model/dto"
	"sentinel/pkg/errors"
)

func pairTestDevice(t *testing.T, env *testEnv, userID int64, gestures map[string]bool) *model.Wearable {
	t.Helper()

	device, err := env.wearables.Pair(context.Background(), userID, &dto.WearableRequest{
		Name:          "Watch Pro",
		DeviceType:    "watch",
		MacAddress:    strPtr("AA:BB:CC:DD:EE:FF"),
		GestureConfig: gestures,
	})
	require.NoError(t, err)
	return device
}

func TestPairDevice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	device := pairTestDevice(t, env, owner.ID, nil)
	assert.True(t, device.IsPaired)
	assert.True(t, device.IsConnected)

	// 同 MAC 不允许重复配对
	_, err := env.wearables.Pair(ctx, owner.ID, &dto.WearableRequest{
		Name:       "Watch Clone",
		DeviceType: "watch",
		MacAddress: strPtr("AA:BB:CC:DD:EE:FF"),
	})
	assert.ErrorIs(t, err, errors.DeviceAlreadyPaired)

	_, err = env.wearables.Pair(ctx, owner.ID, &dto.WearableRequest{Name: "No Type"})
	assert.ErrorIs(t, err, errors.MissingField)

	_, err = env.wearables.Pair(ctx, owner.ID, &dto.WearableRequest{Name: "X", DeviceType: "toaster"})
	assert.ErrorIs(t, err, errors.InvalidRequest)
}

func TestUnpairDevice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	device := pairTestDevice(t, env, owner.ID, nil)

	require.NoError(t, env.wearables.Unpair(ctx, owner.ID, device.ID))

	devices, err := env.wearables.GetDevices(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, devices)

	// 解绑后 MAC 可再次配对
	_, err = env.wearables.Pair(ctx, owner.ID, &dto.WearableRequest{
		Name:       "Watch Pro 2",
		DeviceType: "watch",
		MacAddress: strPtr("AA:BB:CC:DD:EE:FF"),
	})
	require.NoError(t, err)
}

func TestTriggerButton(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	other := seedProfile(t, env.db, "Carol Li", model.RoleOfficial, nil)
	device := pairTestDevice(t, env, owner.ID, nil)

	alert, err := env.wearables.TriggerButton(ctx, owner.ID, device.ID, &model.GeoPoint{Lat: 1, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, model.AlertLevelCritical, alert.Level)
	assert.Equal(t, model.TriggerSourceWearableButton, alert.TriggerSource)

	// 别人的设备触发不了
	_, err = env.wearables.TriggerButton(ctx, other.ID, device.ID, nil)
	assert.ErrorIs(t, err, errors.DeviceNotFound)
}

func TestHeartRateThresholds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	t.Run("normal readings do not trigger", func(t *testing.T) {
		device := pairTestDevice(t, env, owner.ID, nil)

		// 没有历史读数，120 正常
		alert, err := env.wearables.TriggerHeartRate(ctx, owner.ID, device.ID, 120, nil)
		require.NoError(t, err)
		assert.Nil(t, alert)

		// 120 → 145，涨幅 25 未达突变阈值
		alert, err = env.wearables.TriggerHeartRate(ctx, owner.ID, device.ID, 145, nil)
		require.NoError(t, err)
		assert.Nil(t, alert)
	})

	t.Run("sustained high rate triggers medium", func(t *testing.T) {
		device, err := env.wearables.Pair(ctx, owner.ID, &dto.WearableRequest{
			Name: "Band", DeviceType: "bracelet",
		})
		require.NoError(t, err)

		// 110 → 150：既是持续高心率又是突变，持续条件优先，定 medium
		_, err = env.wearables.TriggerHeartRate(ctx, owner.ID, device.ID, 110, nil)
		require.NoError(t, err)
		alert, err := env.wearables.TriggerHeartRate(ctx, owner.ID, device.ID, 150, nil)
		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, model.AlertLevelMedium, alert.Level)
		assert.Equal(t, model.TriggerSourceWearableHeartRate, alert.TriggerSource)
	})

	t.Run("spike below sustained threshold triggers high", func(t *testing.T) {
		device, err := env.wearables.Pair(ctx, owner.ID, &dto.WearableRequest{
			Name: "Pendant", DeviceType: "pendant",
		})
		require.NoError(t, err)

		// 100 → 140：未达 150 但涨幅 40 超过突变阈值
		_, err = env.wearables.TriggerHeartRate(ctx, owner.ID, device.ID, 100, nil)
		require.NoError(t, err)
		alert, err := env.wearables.TriggerHeartRate(ctx, owner.ID, device.ID, 140, nil)
		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, model.AlertLevelHigh, alert.Level)
	})
}

func TestTriggerGesture(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	device := pairTestDevice(t, env, owner.ID, map[string]bool{"shake": true, "double_tap": false})

	alert, err := env.wearables.TriggerGesture(ctx, owner.ID, device.ID, "shake", nil)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, model.AlertLevelHigh, alert.Level)
	assert.Equal(t, model.TriggerSourceWearableGesture, alert.TriggerSource)

	// 配置里关闭的手势静默忽略
	alert, err = env.wearables.TriggerGesture(ctx, owner.ID, device.ID, "double_tap", nil)
	require.NoError(t, err)
	assert.Nil(t, alert)

	alert, err = env.wearables.TriggerGesture(ctx, owner.ID, device.ID, "unknown", nil)
	require.NoError(t, err)
	assert.Nil(t, alert)
}

func TestUpdateDeviceStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	device := pairTestDevice(t, env, owner.ID, nil)

	battery := 55
	connected := false
	updated, err := env.wearables.UpdateStatus(ctx, owner.ID, &dto.WearableRequest{
		DeviceID:     &device.ID,
		BatteryLevel: &battery,
		IsConnected:  &connected,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.BatteryLevel)
	assert.Equal(t, 55, *updated.BatteryLevel)
	assert.False(t, updated.IsConnected)
}
