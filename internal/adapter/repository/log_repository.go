package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

// SchemaCreationEndpoint is the endpoint whose successful POSTs count as
// project creations for the usage accountant.
const SchemaCreationEndpoint = "/create-api-from-schema"

type apiLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewApiLogRepository creates a new api log repository
func NewApiLogRepository(db *gorm.DB, logger *zap.Logger) repository.ApiLogRepository {
	return &apiLogRepository{db: db, logger: logger}
}

func (r *apiLogRepository) Insert(ctx context.Context, log *model.ApiLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to insert api log: %w", err)
	}
	return nil
}

func (r *apiLogRepository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ApiLog{}).
		Where("ip = ? AND timestamp >= ?", ip, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count requests by ip: %w", err)
	}
	return count, nil
}

func (r *apiLogRepository) CountByIdentifierSince(ctx context.Context, identifier string, endpoints []string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ApiLog{}).
		Where("x_auth_user_id = ? AND endpoint IN ? AND timestamp >= ?", identifier, endpoints, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count requests by identifier: %w", err)
	}
	return count, nil
}

func (r *apiLogRepository) CountProjectCreations(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ApiLog{}).
		Where("x_auth_user_id = ? AND endpoint = ? AND status_code = ? AND timestamp >= ? AND timestamp < ?",
			userID, SchemaCreationEndpoint, 200, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count project creations: %w", err)
	}
	return count, nil
}

func (r *apiLogRepository) CountApiRequests(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ApiLog{}).
		Where("x_auth_user_id = ? AND is_api_request = ? AND timestamp >= ? AND timestamp < ?",
			userID, true, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count api requests: %w", err)
	}
	return count, nil
}

type securityLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSecurityLogRepository creates a new security log repository
func NewSecurityLogRepository(db *gorm.DB, logger *zap.Logger) repository.SecurityLogRepository {
	return &securityLogRepository{db: db, logger: logger}
}

func (r *securityLogRepository) Insert(ctx context.Context, log *model.SecurityLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to insert security log: %w", err)
	}
	return nil
}

func (r *securityLogRepository) CountByIPAndTypeSince(ctx context.Context, ip string, eventType string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SecurityLog{}).
		Where("ip = ? AND type = ? AND timestamp >= ?", ip, eventType, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count security events: %w", err)
	}
	return count, nil
}

type errorLogRepository struct {
	db *gorm.DB
}

// NewErrorLogRepository creates a new error log repository
func NewErrorLogRepository(db *gorm.DB) repository.ErrorLogRepository {
	return &errorLogRepository{db: db}
}

func (r *errorLogRepository) Insert(ctx context.Context, log *model.ErrorLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to insert error log: %w", err)
	}
	return nil
}

type emailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository creates a new email log repository
func NewEmailLogRepository(db *gorm.DB) repository.EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Insert(ctx context.Context, log *model.EmailLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to insert email log: %w", err)
	}
	return nil
}
