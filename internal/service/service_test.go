package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sentinel/internal/model"
	"sentinel/pkg/blob"
	"sentinel/pkg/logger"
	"sentinel/pkg/snowflake"
	"sentinel/storage/database"
	"sentinel/utils"
)

func TestMain(m *testing.M) {
	logger.InitForTesting()
	if err := snowflake.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// 测试用低代价哈希参数，argon2id 全量代价在单测里太慢
var testHashParams = utils.HashParams{Time: 1, Memory: 16 * 1024, Threads: 1}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// smsRecorder 捕获发布出去的短信扇出任务
type smsRecorder struct {
	mu   sync.Mutex
	msgs []model.SMSFanoutMessage
}

func (r *smsRecorder) publish(_ context.Context, msg model.SMSFanoutMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *smsRecorder) messages() []model.SMSFanoutMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SMSFanoutMessage, len(r.msgs))
	copy(out, r.msgs)
	return out
}

type testEnv struct {
	db        *gorm.DB
	sms       *smsRecorder
	notify    *NotifyService
	alerts    *AlertService
	duress    *DuressService
	wearables *WearableService
	timeline  *TimelineService
	reports   *ReportService
	locations *LocationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	recorder := &smsRecorder{}
	notify := NewNotifyService(db, recorder.publish)
	alerts := NewAlertService(db, notify, blob.NewMockClient())
	timeline := NewTimelineService(db)

	return &testEnv{
		db:        db,
		sms:       recorder,
		notify:    notify,
		alerts:    alerts,
		duress:    NewDuressService(db, alerts, testHashParams, time.Hour),
		wearables: NewWearableService(db, alerts),
		timeline:  timeline,
		reports:   NewReportService(db, timeline),
		locations: NewLocationService(db, alerts),
	}
}

func seedProfile(t *testing.T, db *gorm.DB, name string, role model.Role, phone *string) *model.Profile {
	t.Helper()

	profile := model.Profile{
		FullName: name,
		Email:    name + "@example.com",
		Phone:    phone,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
