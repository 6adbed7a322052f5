package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

// auditTimeout bounds the background write so a stuck database cannot pile
// up goroutines forever.
const auditTimeout = 5 * time.Second

// SecurityEvent is the input for one audit record.
type SecurityEvent struct {
	IP        string
	UserID    *string
	Method    string
	Path      string
	Type      string
	Detection map[string]interface{}
	Endpoint  string
	Details   string
}

// AuditService writes security and error records. All writes are
// fire-and-forget: they run in a background goroutine and failures are only
// logged, never surfaced to the request.
type AuditService struct {
	securityRepo domainRepo.SecurityLogRepository
	errorRepo    domainRepo.ErrorLogRepository
	logger       *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(securityRepo domainRepo.SecurityLogRepository, errorRepo domainRepo.ErrorLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		securityRepo: securityRepo,
		errorRepo:    errorRepo,
		logger:       logger,
	}
}

// RecordSecurityEvent persists a security log row asynchronously.
func (s *AuditService) RecordSecurityEvent(event SecurityEvent) {
	record := &model.SecurityLog{
		Timestamp: time.Now(),
		IP:        event.IP,
		UserID:    event.UserID,
		Method:    event.Method,
		Path:      event.Path,
		Type:      event.Type,
		Endpoint:  event.Endpoint,
		Details:   event.Details,
	}
	if event.Detection != nil {
		if raw, err := json.Marshal(event.Detection); err == nil {
			record.Detection = datatypes.JSON(raw)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.securityRepo.Insert(ctx, record); err != nil {
			s.logger.Warn("Failed to write security log",
				zap.String("type", event.Type),
				zap.Error(err))
			return
		}
		s.logger.Info("Security event recorded",
			zap.String("type", event.Type),
			zap.String("ip", event.IP))
	}()
}

// RecordError persists an error log row asynchronously.
func (s *AuditService) RecordError(requestID, method, path, message, stack string, context_ map[string]interface{}) {
	record := &model.ErrorLog{
		Timestamp: time.Now(),
		RequestID: requestID,
		Method:    method,
		Path:      path,
		Message:   message,
		Stack:     stack,
	}
	if context_ != nil {
		if raw, err := json.Marshal(context_); err == nil {
			record.Context = datatypes.JSON(raw)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.errorRepo.Insert(ctx, record); err != nil {
			s.logger.Warn("Failed to write error log",
				zap.String("request_id", requestID),
				zap.Error(err))
		}
	}()
}

// CountRecentByType counts security events of a type from one IP since the
// cutoff. Used by the input scanner's escalation rule.
func (s *AuditService) CountRecentByType(ctx context.Context, ip, eventType string, since time.Time) (int64, error) {
	return s.securityRepo.CountByIPAndTypeSince(ctx, ip, eventType, since)
}
