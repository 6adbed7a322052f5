package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/gateway/epoint"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// SubscriptionDuration is the validity window granted by a paid order.
const SubscriptionDuration = 30 * 24 * time.Hour

// PaymentGateway is the slice of the card gateway the usecase needs.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req *epoint.PaymentRequest) (*epoint.PaymentResponse, error)
	CheckStatus(ctx context.Context, transactionID string) (*epoint.StatusResponse, error)
	DecodeCallback(env *epoint.Envelope) (*epoint.Callback, error)
}

// CreateOrderInput is the payload for starting a plan upgrade.
type CreateOrderInput struct {
	PlanID string  `json:"planId"`
	ApiID  *string `json:"apiId,omitempty"`
}

// CreateOrderResult carries the gateway redirect back to the caller.
type CreateOrderResult struct {
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"paymentUrl"`
}

// CallbackResult reports how a gateway callback was handled. The HTTP layer
// answers 200 in every case; Success only shapes the body.
type CallbackResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SubscriptionDetail is the subscription view returned to clients.
type SubscriptionDetail struct {
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// PaymentUsecase sells plan upgrades: it creates pending orders, redirects
// payers to the gateway and finalizes orders from signed callbacks.
type PaymentUsecase struct {
	planRepo  domainRepo.PlanRepository
	orderRepo domainRepo.OrderRepository
	subRepo   domainRepo.SubscriptionRepository
	userRepo  domainRepo.UserRepository
	gateway   PaymentGateway
	audit     *AuditService
	cfg       config.GatewayConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	planRepo domainRepo.PlanRepository,
	orderRepo domainRepo.OrderRepository,
	subRepo domainRepo.SubscriptionRepository,
	userRepo domainRepo.UserRepository,
	gateway PaymentGateway,
	audit *AuditService,
	cfg config.GatewayConfig,
	logger *zap.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		planRepo:  planRepo,
		orderRepo: orderRepo,
		subRepo:   subRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		audit:     audit,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// ListPlans returns the purchasable plan catalogue.
func (p *PaymentUsecase) ListPlans(ctx context.Context) ([]model.PaymentPlan, error) {
	return p.planRepo.ListActive(ctx)
}

// CreateOrder opens a pending order for the principal and asks the gateway
// for a hosted payment page.
func (p *PaymentUsecase) CreateOrder(ctx context.Context, username string, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.PlanID == "" {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest, "planId is required", nil)
	}

	user, err := p.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Unknown principal", nil)
	}

	plan, err := p.planRepo.GetByPlanID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, apperrors.NewAppError(apperrors.ErrBadRequest,
			fmt.Sprintf("Unknown plan %q", input.PlanID), nil)
	}

	now := p.now()
	orderID := fmt.Sprintf("SUB_%d_%s", now.UnixMilli(), username)
	order := &model.PaymentOrder{
		OrderID:  orderID,
		UserID:   user.ID,
		PlanID:   plan.PlanID,
		ApiID:    input.ApiID,
		Amount:   plan.Price,
		Currency: plan.Currency,
		Status:   model.OrderStatusPending,
	}
	if err := p.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	resp, err := p.gateway.CreatePayment(ctx, &epoint.PaymentRequest{
		Amount:             plan.Price.StringFixed(2),
		Currency:           plan.Currency,
		OrderID:            orderID,
		Description:        fmt.Sprintf("Subscription upgrade to %s", plan.Name),
		SuccessRedirectURL: p.cfg.SuccessRedirectURL,
		ErrorRedirectURL:   p.cfg.ErrorRedirectURL,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Payment order created",
		zap.String("order_id", orderID),
		zap.String("plan_id", plan.PlanID),
		zap.String("username", username))

	return &CreateOrderResult{OrderID: orderID, PaymentURL: resp.RedirectURL}, nil
}

// HandleCallback finalizes an order from a signed gateway callback. The
// gateway requires a 200 answer in every case, so failures are reported in
// the result instead of as errors; only store failures propagate so the
// gateway retries.
func (p *PaymentUsecase) HandleCallback(ctx context.Context, env *epoint.Envelope, clientIP string) (*CallbackResult, error) {
	cb, err := p.gateway.DecodeCallback(env)
	if err != nil {
		p.audit.RecordSecurityEvent(SecurityEvent{
			IP:      clientIP,
			Method:  "POST",
			Path:    "/api/epoint/callback",
			Type:    apperrors.ErrBadRequest,
			Details: "Gateway callback rejected: " + err.Error(),
		})
		return &CallbackResult{Success: false, Message: "Invalid callback"}, nil
	}

	raw, err := json.Marshal(cb)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize callback payload: %w", err)
	}

	success := cb.Status == epoint.StatusSuccess
	result, err := p.orderRepo.Finalize(ctx, cb.OrderID, success, cb.TransactionID,
		datatypes.JSON(raw), p.now().Add(SubscriptionDuration))
	if err != nil {
		return nil, err
	}
	if result.Order == nil {
		p.audit.RecordSecurityEvent(SecurityEvent{
			IP:      clientIP,
			Method:  "POST",
			Path:    "/api/epoint/callback",
			Type:    apperrors.ErrBadRequest,
			Details: fmt.Sprintf("Gateway callback for unknown order %q", cb.OrderID),
		})
		return &CallbackResult{Success: false, Message: "Unknown order"}, nil
	}
	if !result.Applied {
		// Replay of an already finalized order; confirm without touching state.
		p.logger.Info("Gateway callback replay ignored",
			zap.String("order_id", cb.OrderID),
			zap.String("status", string(result.Order.Status)))
		return &CallbackResult{Success: true, Message: "Order already processed"}, nil
	}

	if success {
		if err := p.applyPlanUpgrade(ctx, result.Order); err != nil {
			p.logger.Error("Failed to apply plan upgrade after paid order",
				zap.String("order_id", cb.OrderID), zap.Error(err))
		}
		p.logger.Info("Order paid",
			zap.String("order_id", cb.OrderID),
			zap.String("transaction_id", cb.TransactionID))
	} else {
		p.logger.Info("Order failed at gateway",
			zap.String("order_id", cb.OrderID),
			zap.String("gateway_status", cb.Status))
	}

	return &CallbackResult{Success: true}, nil
}

// applyPlanUpgrade reflects a paid account-wide order onto users.plan_id so
// usage limits pick the new plan up. Api-scoped orders only grant the
// subscription row.
func (p *PaymentUsecase) applyPlanUpgrade(ctx context.Context, order *model.PaymentOrder) error {
	if order.ApiID != nil {
		return nil
	}
	user, err := p.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("order %s references missing user %s", order.OrderID, order.UserID)
	}
	if user.PlanID == order.PlanID {
		return nil
	}
	user.PlanID = order.PlanID
	return p.userRepo.Update(ctx, user)
}

// HasActiveSubscription reports whether the user holds an unexpired active
// subscription for the given api scope.
func (p *PaymentUsecase) HasActiveSubscription(ctx context.Context, username string, apiID *string) (bool, error) {
	sub, err := p.getActiveSubscription(ctx, username, apiID)
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}

// GetSubscription returns the active subscription detail, or nil when the
// user has none.
func (p *PaymentUsecase) GetSubscription(ctx context.Context, username string, apiID *string) (*SubscriptionDetail, error) {
	sub, err := p.getActiveSubscription(ctx, username, apiID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	return &SubscriptionDetail{
		Plan:      sub.PlanID,
		Status:    string(sub.Status),
		StartDate: sub.StartDate,
		EndDate:   sub.ExpirationDate,
	}, nil
}

func (p *PaymentUsecase) getActiveSubscription(ctx context.Context, username string, apiID *string) (*model.UserSubscription, error) {
	user, err := p.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Unknown principal", nil)
	}
	return p.subRepo.GetActive(ctx, user.ID, apiID, p.now())
}

// ListOrders returns the caller's order history, newest first.
func (p *PaymentUsecase) ListOrders(ctx context.Context, username string) ([]model.PaymentOrder, error) {
	user, err := p.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Unknown principal", nil)
	}
	return p.orderRepo.ListByUser(ctx, user.ID)
}

// GetOrderStatus returns the stored order and, when a transaction exists,
// the gateway's live view of it. Callers may only read their own orders.
func (p *PaymentUsecase) GetOrderStatus(ctx context.Context, username, orderID string) (*model.PaymentOrder, *epoint.StatusResponse, error) {
	user, err := p.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Unknown principal", nil)
	}

	order, err := p.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil || order.UserID != user.ID {
		return nil, nil, apperrors.NewAppError(apperrors.ErrNotFound, "Order not found", nil)
	}

	var gatewayStatus *epoint.StatusResponse
	if order.TransactionID != nil {
		gatewayStatus, err = p.gateway.CheckStatus(ctx, *order.TransactionID)
		if err != nil {
			// The stored order still answers the caller; the live status is
			// best-effort.
			p.logger.Warn("Gateway status check failed",
				zap.String("order_id", orderID), zap.Error(err))
			gatewayStatus = nil
		}
	}

	return order, gatewayStatus, nil
}
