package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/gateway/epoint"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// PaymentHandler exposes the plan catalogue, order creation and the gateway
// callback.
type PaymentHandler struct {
	payments *usecase.PaymentUsecase
	logger   *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *usecase.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

func principalUsername(c echo.Context) (string, error) {
	p := middleware.PrincipalFrom(c)
	if p.Anonymous || p.Username == "" {
		return "", apperrors.NewAppError(apperrors.ErrUnauthorized, "Authentication required", nil)
	}
	return p.Username, nil
}

// ListPlans handles GET /api/payment/plans.
func (h *PaymentHandler) ListPlans(c echo.Context) error {
	plans, err := h.payments.ListPlans(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "plans": plans})
}

// CreateOrder handles POST /api/payment/order.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	username, err := principalUsername(c)
	if err != nil {
		return err
	}

	var input usecase.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, "Invalid request payload", err)
	}

	result, err := h.payments.CreateOrder(c.Request().Context(), username, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"orderId":    result.OrderID,
		"paymentUrl": result.PaymentURL,
	})
}

// Callback handles POST /api/epoint/callback. The gateway requires a 200
// answer whatever happens, so every outcome except a store failure is
// reported in the body.
func (h *PaymentHandler) Callback(c echo.Context) error {
	var env epoint.Envelope
	if err := c.Bind(&env); err != nil || env.Data == "" || env.Signature == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Invalid callback"})
	}

	result, err := h.payments.HandleCallback(c.Request().Context(), &env, c.RealIP())
	if err != nil {
		// A store failure must surface as a retryable error to the gateway.
		h.logger.Error("Gateway callback finalize failed", zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// CheckSubscription handles GET /api/payment/check-subscription.
func (h *PaymentHandler) CheckSubscription(c echo.Context) error {
	username, err := principalUsername(c)
	if err != nil {
		return err
	}

	apiID := optionalString(c.QueryParam("apiId"))
	active, err := h.payments.HasActiveSubscription(c.Request().Context(), username, apiID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"hasActiveSubscription": active})
}

// GetSubscription handles GET /api/payment/subscription.
func (h *PaymentHandler) GetSubscription(c echo.Context) error {
	username, err := principalUsername(c)
	if err != nil {
		return err
	}

	apiID := optionalString(c.QueryParam("apiId"))
	detail, err := h.payments.GetSubscription(c.Request().Context(), username, apiID)
	if err != nil {
		return err
	}
	if detail == nil {
		return apperrors.NewAppError(apperrors.ErrSubscriptionRequired, "No active subscription", nil)
	}

	return c.JSON(http.StatusOK, detail)
}

// ListOrders handles GET /api/payment/orders.
func (h *PaymentHandler) ListOrders(c echo.Context) error {
	username, err := principalUsername(c)
	if err != nil {
		return err
	}

	orders, err := h.payments.ListOrders(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

// GetOrderStatus handles GET /api/payment/order/:orderId/status.
func (h *PaymentHandler) GetOrderStatus(c echo.Context) error {
	username, err := principalUsername(c)
	if err != nil {
		return err
	}

	order, gatewayStatus, err := h.payments.GetOrderStatus(c.Request().Context(), username, c.Param("orderId"))
	if err != nil {
		return err
	}

	body := echo.Map{"success": true, "order": order}
	if gatewayStatus != nil {
		body["gatewayStatus"] = gatewayStatus
	}
	return c.JSON(http.StatusOK, body)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
