package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

type blacklistRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBlacklistRepository creates a new IP blacklist repository
func NewBlacklistRepository(db *gorm.DB, logger *zap.Logger) repository.BlacklistRepository {
	return &blacklistRepository{db: db, logger: logger}
}

func (r *blacklistRepository) FindEffective(ctx context.Context, ip string, now time.Time) (*model.IpBlacklistEntry, error) {
	var entry model.IpBlacklistEntry
	err := r.db.WithContext(ctx).
		Where("ip = ? AND (expires_at IS NULL OR expires_at > ?)", ip, now).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up blacklist entry: %w", err)
	}
	return &entry, nil
}

func (r *blacklistRepository) Insert(ctx context.Context, entry *model.IpBlacklistEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		r.logger.Error("Failed to insert blacklist entry",
			zap.String("ip", entry.IP),
			zap.Error(err))
		return fmt.Errorf("failed to insert blacklist entry: %w", err)
	}
	return nil
}

func (r *blacklistRepository) List(ctx context.Context) ([]model.IpBlacklistEntry, error) {
	var entries []model.IpBlacklistEntry
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklist entries: %w", err)
	}
	return entries, nil
}

func (r *blacklistRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.IpBlacklistEntry{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete blacklist entry: %w", err)
	}
	return nil
}

func (r *blacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&model.IpBlacklistEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired blacklist entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
