package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

// UsageKind selects which ceiling a check applies to.
type UsageKind int

const (
	UsageProjects UsageKind = iota
	UsageRequests
)

// UsageInfo is the state returned to callers and embedded in 403 bodies.
type UsageInfo struct {
	Plan    model.Plan `json:"plan"`
	Current int64      `json:"current"`
	Limit   int        `json:"limit"`
}

// Allowed reports whether one more unit fits under the limit.
func (u UsageInfo) Allowed() bool {
	return u.Limit <= 0 || u.Current < int64(u.Limit)
}

// UsageService counts projects and requests per principal per calendar month
// against the plan limit table. api_logs is the source of truth for counts.
type UsageService struct {
	apiLogRepo domainRepo.ApiLogRepository
	userRepo   domainRepo.UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewUsageService creates a new usage service
func NewUsageService(apiLogRepo domainRepo.ApiLogRepository, userRepo domainRepo.UserRepository, logger *zap.Logger) *UsageService {
	return &UsageService{
		apiLogRepo: apiLogRepo,
		userRepo:   userRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// MonthWindow returns [start of month, start of next month) for t in the
// server's local calendar.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}

// ResolvePrincipalID maps a caller identifier to the user's UUID string.
// Usernames resolve through the users table; UUIDs pass through. A missing
// user returns ("", nil): the accountant cannot verify limits and must allow.
func (s *UsageService) ResolvePrincipalID(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", nil
	}
	if _, err := uuid.Parse(identifier); err == nil {
		return identifier, nil
	}

	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.ID.String(), nil
}

// Check returns the current usage for the principal under the given plan.
// Enterprise plans short-circuit without touching the store.
func (s *UsageService) Check(ctx context.Context, identifier string, plan model.Plan, kind UsageKind) (UsageInfo, error) {
	limits := plan.Limits()
	info := UsageInfo{Plan: plan}
	switch kind {
	case UsageProjects:
		info.Limit = limits.Projects
	case UsageRequests:
		info.Limit = limits.RequestsPerMonth
	}

	if plan.Unlimited() {
		return info, nil
	}

	principalID, err := s.ResolvePrincipalID(ctx, identifier)
	if err != nil {
		return info, err
	}
	if principalID == "" {
		// Cannot verify limits without a user row; allow.
		s.logger.Debug("Usage check skipped, unknown principal",
			zap.String("identifier", identifier))
		return info, nil
	}

	from, to := MonthWindow(s.now())
	var count int64
	switch kind {
	case UsageProjects:
		count, err = s.apiLogRepo.CountProjectCreations(ctx, principalID, from, to)
	case UsageRequests:
		count, err = s.apiLogRepo.CountApiRequests(ctx, principalID, from, to)
	}
	if err != nil {
		return info, err
	}

	info.Current = count
	return info, nil
}

// ResetMonthly acknowledges the monthly rollover. Counts derive from a
// calendar-month predicate over api_logs, so there is no counter to zero;
// the task exists so operators can see the window advance in the logs.
func (s *UsageService) ResetMonthly(ctx context.Context) error {
	from, to := MonthWindow(s.now())
	s.logger.Info("Monthly usage window advanced",
		zap.Time("window_start", from),
		zap.Time("window_end", to))
	return nil
}
