package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PasswordResetToken{},
		&model.PaymentPlan{},
		&model.PaymentOrder{},
		&model.UserSubscription{},
		&model.ApiLog{},
		&model.SecurityLog{},
		&model.ErrorLog{},
		&model.EmailLog{},
		&model.IpBlacklistEntry{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createConstraints(db); err != nil {
		logger.Error("Failed to create constraints", zap.Error(err))
		return err
	}

	if err := createFunctions(db); err != nil {
		logger.Error("Failed to create functions", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}

func createExtensions(db *gorm.DB) error {
	// gen_random_uuid lives in pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}
	return nil
}

func createConstraints(db *gorm.DB) error {
	// One subscription row per (user_id, api_id); NULL api_id rows are the
	// global scope and must also be unique, hence COALESCE.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_user_subscriptions_user_api
		ON user_subscriptions (user_id, COALESCE(api_id, ''))`).Error
	if err != nil {
		return fmt.Errorf("failed to create subscription uniqueness index: %w", err)
	}
	return nil
}

func createFunctions(db *gorm.DB) error {
	// Kept for operational tooling; enforcement reads api_logs directly with
	// a calendar-month predicate, so the reset itself has nothing to zero.
	err := db.Exec(`
		CREATE OR REPLACE FUNCTION reset_monthly_usage() RETURNS void AS $$
		BEGIN
			-- usage windows derive from api_logs timestamps; nothing to do
			RETURN;
		END;
		$$ LANGUAGE plpgsql`).Error
	if err != nil {
		return fmt.Errorf("failed to create reset_monthly_usage function: %w", err)
	}
	return nil
}
