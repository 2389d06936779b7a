package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"sentinel/internal/model"
	bizerr "sentinel/pkg/errors"
	"sentinel/storage/database"
)

// ProfileService 用户档案查询。档案由外部身份系统写入，这里只读。
type ProfileService struct {
	db *gorm.DB
}

var (
	profileService *ProfileService
	profileOnce    sync.Once
)

// Profile 获取档案服务单例
func Profile() *ProfileService {
	profileOnce.Do(func() {
		profileService = NewProfileService(database.DB())
	})
	return profileService
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetActive 返回仍在职的用户档案
func (s *ProfileService) GetActive(ctx context.Context, userID int64) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", userID, true).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.InvalidUserID
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}
