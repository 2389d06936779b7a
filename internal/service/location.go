package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"sentinel/internal/model"
	"sentinel/internal/model/dto"
	bizerr "sentinel/pkg/errors"
	"sentinel/storage/database"
	"sentinel/utils"
)

const defaultLocationHistoryLimit = 200

// LocationService 位置上报与轨迹查询
type LocationService struct {
	db     *gorm.DB
	alerts *AlertService
}

var (
	locationService *LocationService
	locationOnce    sync.Once
)

// Location 获取位置服务单例
func Location() *LocationService {
	locationOnce.Do(func() {
		locationService = NewLocationService(database.DB(), Alert())
	})
	return locationService
}

func NewLocationService(db *gorm.DB, alerts *AlertService) *LocationService {
	return &LocationService{db: db, alerts: alerts}
}

// Submit 写入一条位置记录。显式关联警报、或用户当前有活跃警报时，
// 标记为紧急追踪。
func (s *LocationService) Submit(ctx context.Context, userID int64, req *dto.LocationTrackingRequest) (*model.LocationPing, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, bizerr.MissingField
	}
	if !utils.ValidateCoordinates(*req.Latitude, *req.Longitude) {
		return nil, bizerr.InvalidCoordinates
	}

	alertID := req.AlertID
	isEmergency := alertID != nil
	if alertID == nil {
		active, err := s.alerts.FetchActive(ctx, userID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			alertID = &active.ID
			isEmergency = true
		}
	}

	ping := model.LocationPing{
		UserID:              userID,
		EventID:             req.EventID,
		AlertID:             alertID,
		Latitude:            *req.Latitude,
		Longitude:           *req.Longitude,
		Accuracy:            req.Accuracy,
		Altitude:            req.Altitude,
		Heading:             req.Heading,
		Speed:               req.Speed,
		IsEmergencyTracking: isEmergency,
		Timestamp:           time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&ping).Error; err != nil {
		return nil, fmt.Errorf("failed to save location ping: %w", err)
	}
	return &ping, nil
}

// History 查询位置轨迹。普通用户只能看自己的轨迹，
// 安保角色可以查任意用户；时间窗口和数量上限可选。
func (s *LocationService) History(ctx context.Context, requesterID int64, role model.Role, req *dto.LocationTrackingRequest) ([]model.LocationPing, error) {
	targetUserID := requesterID
	if req.UserID != nil {
		targetUserID = *req.UserID
	}
	if targetUserID != requesterID && !role.IsSecurity() {
		return nil, bizerr.Forbidden
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", targetUserID)
	if req.AlertID != nil {
		query = query.Where("alert_id = ?", *req.AlertID)
	}
	if req.EventID != nil {
		query = query.Where("event_id = ?", *req.EventID)
	}
	if req.StartTime != "" {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return nil, bizerr.InvalidRequest
		}
		query = query.Where("timestamp >= ?", start)
	}
	if req.EndTime != "" {
		end, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return nil, bizerr.InvalidRequest
		}
		query = query.Where("timestamp <= ?", end)
	}

	limit := req.Limit
	if limit <= 0 || limit > defaultLocationHistoryLimit {
		limit = defaultLocationHistoryLimit
	}

	var pings []model.LocationPing
	if err := query.Order("timestamp ASC").Limit(limit).Find(&pings).Error; err != nil {
		return nil, fmt.Errorf("failed to query location history: %w", err)
	}
	return pings, nil
}
