package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	adapter "github.com/ArifBabayev05/Backlify-v2-sub001/internal/adapter/repository"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User          domainRepo.UserRepository
	Plan          domainRepo.PlanRepository
	Order         domainRepo.OrderRepository
	Subscription  domainRepo.SubscriptionRepository
	ApiLog        domainRepo.ApiLogRepository
	SecurityLog   domainRepo.SecurityLogRepository
	ErrorLog      domainRepo.ErrorLogRepository
	EmailLog      domainRepo.EmailLogRepository
	Blacklist     domainRepo.BlacklistRepository
	RefreshToken  domainRepo.RefreshTokenRepository
	PasswordReset domainRepo.PasswordResetRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:          adapter.NewUserRepository(db, logger),
		Plan:          adapter.NewPlanRepository(db, logger),
		Order:         adapter.NewOrderRepository(db, logger),
		Subscription:  adapter.NewSubscriptionRepository(db, logger),
		ApiLog:        adapter.NewApiLogRepository(db, logger),
		SecurityLog:   adapter.NewSecurityLogRepository(db, logger),
		ErrorLog:      adapter.NewErrorLogRepository(db),
		EmailLog:      adapter.NewEmailLogRepository(db),
		Blacklist:     adapter.NewBlacklistRepository(db, logger),
		RefreshToken:  adapter.NewRefreshTokenRepository(db, logger),
		PasswordReset: adapter.NewPasswordResetRepository(db),
	}
}
