package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentinel/internal/model"
	"sentinel/internal/model/dto"
	bizerr "sentinel/pkg/errors"
	"sentinel/storage/database"
)

// ReportService 事件报告：创建时自动重建时间线并收集音频证据，
// 列表按角色收敛可见范围。
type ReportService struct {
	db       *gorm.DB
	timeline *TimelineService
}

var (
	reportService *ReportService
	reportOnce    sync.Once
)

// Report 获取报告服务单例
func Report() *ReportService {
	reportOnce.Do(func() {
		reportService = NewReportService(database.DB(), Timeline())
	})
	return reportService
}

func NewReportService(db *gorm.DB, timeline *TimelineService) *ReportService {
	return &ReportService{db: db, timeline: timeline}
}

// Create 创建报告。关联了警报或事件时顺带生成时间线与音频清单。
func (s *ReportService) Create(ctx context.Context, userID int64, req *dto.IncidentReportRequest) (*model.IncidentReport, error) {
	if req.Title == "" || req.Description == "" {
		return nil, bizerr.MissingField
	}

	report := model.IncidentReport{
		UserID:      userID,
		AlertID:     req.AlertID,
		EventID:     req.EventID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Attachments: model.StringList(req.Attachments),
		Status:      model.ReportStatusDraft,
	}

	if req.AlertID != nil || req.EventID != nil {
		timeline, err := s.timeline.Build(ctx, req.AlertID, req.EventID)
		if err != nil {
			zap.L().Warn("failed to build timeline for new report", zap.Error(err))
		} else {
			report.Timeline = timeline
		}
	}
	if req.AlertID != nil {
		report.AudioFiles = s.collectAudioFiles(ctx, *req.AlertID)
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	zap.L().Info("incident report created",
		zap.Int64("report_id", report.ID),
		zap.Int64("user_id", userID),
	)
	return &report, nil
}

// Update 更新报告，仅作者本人可改
func (s *ReportService) Update(ctx context.Context, userID int64, req *dto.IncidentReportRequest) (*model.IncidentReport, error) {
	if req.ReportID == nil {
		return nil, bizerr.MissingField
	}
	report, err := s.load(ctx, *req.ReportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, bizerr.Forbidden
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Location != nil {
		updates["location"] = req.Location
	}
	if req.Attachments != nil {
		updates["attachments"] = model.StringList(req.Attachments)
	}
	if req.Status != "" {
		status := model.ReportStatus(req.Status)
		switch status {
		case model.ReportStatusDraft, model.ReportStatusSubmitted, model.ReportStatusArchived:
			updates["status"] = status
		default:
			return nil, bizerr.InvalidRequest
		}
	}
	if len(updates) == 0 {
		return report, nil
	}

	if err := s.db.WithContext(ctx).Model(report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return s.load(ctx, report.ID)
}

// Get 查询单份报告，作者或安保角色可见
func (s *ReportService) Get(ctx context.Context, requesterID int64, role model.Role, reportID int64) (*model.IncidentReport, error) {
	report, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != requesterID && !role.IsSecurity() {
		return nil, bizerr.Forbidden
	}
	return report, nil
}

// List 列出可见报告：普通用户只看自己的，
// 安保角色还能看到自己被指派事件下的全部报告。
func (s *ReportService) List(ctx context.Context, requesterID int64, role model.Role) ([]model.IncidentReport, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")

	if role.IsSecurity() {
		sub := s.db.Model(&model.EventAssignment{}).
			Select("event_id").
			Where("user_id = ?", requesterID)
		query = query.Where("user_id = ? OR event_id IN (?)", requesterID, sub)
	} else {
		query = query.Where("user_id = ?", requesterID)
	}

	var reports []model.IncidentReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// GenerateTimeline 重建并回写时间线。给了 report_id 就持久化到报告，
// 否则只返回结果。
func (s *ReportService) GenerateTimeline(ctx context.Context, userID int64, req *dto.IncidentReportRequest) (model.Timeline, error) {
	alertID, eventID := req.AlertID, req.EventID

	var report *model.IncidentReport
	if req.ReportID != nil {
		var err error
		report, err = s.load(ctx, *req.ReportID)
		if err != nil {
			return nil, err
		}
		if report.UserID != userID {
			return nil, bizerr.Forbidden
		}
		if alertID == nil {
			alertID = report.AlertID
		}
		if eventID == nil {
			eventID = report.EventID
		}
	}
	if alertID == nil && eventID == nil {
		return nil, bizerr.MissingField
	}

	timeline, err := s.timeline.Build(ctx, alertID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}

	if report != nil {
		if err := s.db.WithContext(ctx).Model(report).Update("timeline", timeline).Error; err != nil {
			return nil, fmt.Errorf("failed to persist timeline: %w", err)
		}
	}
	return timeline, nil
}

// ReportExport 报告导出载荷
type ReportExport struct {
	Report     *model.IncidentReport `json:"report"`
	Alert      *model.Alert          `json:"alert,omitempty"`
	Event      *model.Event          `json:"event,omitempty"`
	Format     string                `json:"format"`
	ExportedAt time.Time             `json:"exported_at"`
}

// Export 汇出报告及其关联的警报与事件快照。
// pdf 格式同样返回结构化数据，渲染交给客户端。
func (s *ReportService) Export(ctx context.Context, requesterID int64, role model.Role, reportID int64, format string) (*ReportExport, error) {
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "pdf" {
		return nil, bizerr.InvalidRequest
	}

	report, err := s.Get(ctx, requesterID, role, reportID)
	if err != nil {
		return nil, err
	}

	export := &ReportExport{
		Report:     report,
		Format:     format,
		ExportedAt: time.Now().UTC(),
	}
	if report.AlertID != nil {
		var alert model.Alert
		if err := s.db.WithContext(ctx).First(&alert, *report.AlertID).Error; err == nil {
			export.Alert = &alert
		}
	}
	if report.EventID != nil {
		var event model.Event
		if err := s.db.WithContext(ctx).First(&event, *report.EventID).Error; err == nil {
			export.Event = &event
		}
	}
	return export, nil
}

func (s *ReportService) collectAudioFiles(ctx context.Context, alertID int64) model.StringList {
	var recordings []model.AudioRecording
	err := s.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("created_at ASC").
		Find(&recordings).Error
	if err != nil {
		zap.L().Warn("failed to collect audio files for report",
			zap.Int64("alert_id", alertID), zap.Error(err))
		return nil
	}
	files := make(model.StringList, 0, len(recordings))
	for _, rec := range recordings {
		files = append(files, rec.FileURL)
	}
	return files
}

func (s *ReportService) load(ctx context.Context, reportID int64) (*model.IncidentReport, error) {
	var report model.IncidentReport
	if err := s.db.WithContext(ctx).First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.ReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}
