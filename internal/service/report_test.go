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

func TestCreateReportBuildsTimeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	alertID, eventID, _ := seedIncident(t, env, owner.ID)

	report, err := env.reports.Create(ctx, owner.ID, &dto.IncidentReportRequest{
		Action:      "create",
		AlertID:     &alertID,
		EventID:     &eventID,
		Title:       "Summit incident",
		Description: "Full account of the alert",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusDraft, report.Status)
	assert.NotEmpty(t, report.Timeline)
	require.Len(t, report.AudioFiles, 1)
	assert.Contains(t, report.AudioFiles[0], "audio-recordings")

	_, err = env.reports.Create(ctx, owner.ID, &dto.IncidentReportRequest{Title: "No description"})
	assert.ErrorIs(t, err, errors.MissingField)
}

func TestUpdateReportOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	responder := seedProfile(t, env.db, "Bob Wu", model.RoleSecurityAdmin, nil)

	report, err := env.reports.Create(ctx, owner.ID, &dto.IncidentReportRequest{
		Title:       "Draft",
		Description: "Initial",
	})
	require.NoError(t, err)

	// 哪怕是安保管理员也改不了别人的报告
	_, err = env.reports.Update(ctx, responder.ID, &dto.IncidentReportRequest{
		ReportID: &report.ID,
		Title:    "Hijacked",
	})
	assert.ErrorIs(t, err, errors.Forbidden)

	updated, err := env.reports.Update(ctx, owner.ID, &dto.IncidentReportRequest{
		ReportID: &report.ID,
		Title:    "Final",
		Status:   "submitted",
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, model.ReportStatusSubmitted, updated.Status)

	_, err = env.reports.Update(ctx, owner.ID, &dto.IncidentReportRequest{
		ReportID: &report.ID,
		Status:   "bogus",
	})
	assert.ErrorIs(t, err, errors.InvalidRequest)
}

func TestReportVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)
	peer := seedProfile(t, env.db, "Carol Li", model.RoleOfficial, nil)
	responder := seedProfile(t, env.db, "Bob Wu", model.RoleSecurityTeam, nil)

	event := model.Event{Name: "Patrol", Status: model.EventStatusActive, CreatedBy: responder.ID}
	require.NoError(t, env.db.Create(&event).Error)
	require.NoError(t, env.db.Create(&model.EventAssignment{EventID: event.ID, UserID: responder.ID}).Error)

	mine, err := env.reports.Create(ctx, owner.ID, &dto.IncidentReportRequest{
		Title: "Mine", Description: "own report",
	})
	require.NoError(t, err)
	onEvent, err := env.reports.Create(ctx, peer.ID, &dto.IncidentReportRequest{
		Title: "Event report", Description: "tied to event", EventID: &event.ID,
	})
	require.NoError(t, err)

	// 普通用户只能看见自己的
	visible, err := env.reports.List(ctx, owner.ID, model.RoleOfficial)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)

	// 安保人员能看见指派事件下的报告
	visible, err = env.reports.List(ctx, responder.ID, model.RoleSecurityTeam)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, onEvent.ID, visible[0].ID)

	// 单份读取：作者可见，安保可见，无关普通用户不可见
	_, err = env.reports.Get(ctx, peer.ID, model.RoleOfficial, mine.ID)
	assert.ErrorIs(t, err, errors.Forbidden)
	_, err = env.reports.Get(ctx, responder.ID, model.RoleSecurityTeam, mine.ID)
	require.NoError(t, err)
	_, err = env.reports.Get(ctx, owner.ID, model.RoleOfficial, 99999)
	assert.ErrorIs(t, err, errors.ReportNotFound)
}

func TestGenerateTimelinePersists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	alertID, eventID, _ := seedIncident(t, env, owner.ID)

	// 先建一个不含时间线的报告
	report, err := env.reports.Create(ctx, owner.ID, &dto.IncidentReportRequest{
		Title: "Late binding", Description: "timeline added after",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Timeline)

	timeline, err := env.reports.GenerateTimeline(ctx, owner.ID, &dto.IncidentReportRequest{
		ReportID: &report.ID,
		AlertID:  &alertID,
		EventID:  &eventID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, timeline)

	var stored model.IncidentReport
	require.NoError(t, env.db.First(&stored, report.ID).Error)
	assert.Len(t, stored.Timeline, len(timeline))

	_, err = env.reports.GenerateTimeline(ctx, owner.ID, &dto.IncidentReportRequest{})
	assert.ErrorIs(t, err, errors.MissingField)
}

func TestExportReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedProfile(t, env.db, "Alice Chen", model.RoleOfficial, nil)

	alertID, eventID, _ := seedIncident(t, env, owner.ID)
	report, err := env.reports.Create(ctx, owner.ID, &dto.IncidentReportRequest{
		Title:       "Export me",
		Description: "with related records",
		AlertID:     &alertID,
		EventID:     &eventID,
	})
	require.NoError(t, err)

	export, err := env.reports.Export(ctx, owner.ID, model.RoleOfficial, report.ID, "")
	require.NoError(t, err)
	assert.Equal(t, report.ID, export.Report.ID)
	assert.Equal(t, "json", export.Format)
	require.NotNil(t, export.Alert)
	assert.Equal(t, alertID, export.Alert.ID)
	require.NotNil(t, export.Event)
	assert.Equal(t, eventID, export.Event.ID)
	assert.False(t, export.ExportedAt.IsZero())

	pdf, err := env.reports.Export(ctx, owner.ID, model.RoleOfficial, report.ID, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf", pdf.Format)

	_, err = env.reports.Export(ctx, owner.ID, model.RoleOfficial, report.ID, "docx")
	assert.ErrorIs(t, err, errors.InvalidRequest)
}
