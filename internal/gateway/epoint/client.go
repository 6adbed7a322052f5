package epoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
)

// Client talks to the card gateway HTTP API.
type Client struct {
	baseURL    string
	publicKey  string
	privateKey string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway client from config.
func NewClient(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.APIURL,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// PublicKey exposes the merchant public key for payload construction.
func (c *Client) PublicKey() string {
	return c.publicKey
}

// Language returns the configured gateway page language.
func (c *Client) Language() string {
	return c.language
}

// VerifyEnvelope checks an inbound envelope against the shared secret.
func (c *Client) VerifyEnvelope(env *Envelope) bool {
	return VerifySignature(c.privateKey, env.Data, env.Signature)
}

// DecodeCallback verifies and decodes a gateway callback envelope.
func (c *Client) DecodeCallback(env *Envelope) (*Callback, error) {
	var cb Callback
	if err := Open(c.privateKey, env, &cb); err != nil {
		return nil, err
	}
	return &cb, nil
}

// post seals the payload, sends it as form-compatible JSON and decodes the
// response envelope into out.
func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	env, err := Seal(c.privateKey, payload)
	if err != nil {
		return &GatewayError{Code: "MARSHAL_ERROR", Message: "Failed to prepare request", Details: err.Error()}
	}

	body, err := json.Marshal(env)
	if err != nil {
		return &GatewayError{Code: "MARSHAL_ERROR", Message: "Failed to prepare request", Details: err.Error()}
	}

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return &GatewayError{Code: "REQUEST_ERROR", Message: "Failed to create request", Details: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Gateway request failed",
			zap.String("path", path),
			zap.Error(err))
		return &GatewayError{Code: "API_ERROR", Message: "Gateway API request failed", Details: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{Code: "RESPONSE_ERROR", Message: "Failed to read response", Details: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gateway returned non-200",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))
		return &GatewayError{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: "Gateway API request failed",
			Details: string(respBody),
		}
	}

	var respEnv Envelope
	if err := json.Unmarshal(respBody, &respEnv); err != nil {
		return &GatewayError{Code: "PARSE_ERROR", Message: "Failed to parse response", Details: err.Error()}
	}

	if err := Open(c.privateKey, &respEnv, out); err != nil {
		return &GatewayError{Code: "SIGNATURE_ERROR", Message: "Response signature verification failed", Details: err.Error()}
	}

	return nil
}

// CreatePayment requests a hosted payment page and returns the redirect URL.
func (c *Client) CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	req.PublicKey = c.publicKey
	if req.Language == "" {
		req.Language = c.language
	}

	var resp PaymentResponse
	if err := c.post(ctx, "/request", req, &resp); err != nil {
		return nil, err
	}

	if resp.Status != StatusSuccess || resp.RedirectURL == "" {
		return nil, &GatewayError{Code: "PAYMENT_REJECTED", Message: resp.Message, Details: resp.Status}
	}

	c.logger.Info("Gateway payment created",
		zap.String("order_id", req.OrderID),
		zap.String("amount", req.Amount))

	return &resp, nil
}

// CheckStatus asks the gateway for the state of a transaction.
func (c *Client) CheckStatus(ctx context.Context, transactionID string) (*StatusResponse, error) {
	req := &StatusRequest{PublicKey: c.publicKey, TransactionID: transactionID}
	var resp StatusResponse
	if err := c.post(ctx, "/check-status", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveCard starts a card registration flow.
func (c *Client) SaveCard(ctx context.Context, req *SaveCardRequest) (*SaveCardResponse, error) {
	req.PublicKey = c.publicKey
	if req.Language == "" {
		req.Language = c.language
	}
	var resp SaveCardResponse
	if err := c.post(ctx, "/save-card", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteSavedCardPayment charges a saved card.
func (c *Client) ExecuteSavedCardPayment(ctx context.Context, req *SavedCardPaymentRequest) (*GenericResponse, error) {
	req.PublicKey = c.publicKey
	if req.Language == "" {
		req.Language = c.language
	}
	var resp GenericResponse
	if err := c.post(ctx, "/execute-saved-card-payment", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReversePayment cancels or refunds a transaction.
func (c *Client) ReversePayment(ctx context.Context, req *ReverseRequest) (*GenericResponse, error) {
	req.PublicKey = c.publicKey
	if req.Language == "" {
		req.Language = c.language
	}
	var resp GenericResponse
	if err := c.post(ctx, "/reverse-payment", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreAuthCreate places a hold on the payer's card.
func (c *Client) PreAuthCreate(ctx context.Context, req *PreAuthRequest) (*PaymentResponse, error) {
	req.PublicKey = c.publicKey
	if req.Language == "" {
		req.Language = c.language
	}
	var resp PaymentResponse
	if err := c.post(ctx, "/pre-auth/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreAuthComplete captures a previous pre-authorization.
func (c *Client) PreAuthComplete(ctx context.Context, req *PreAuthCompleteRequest) (*GenericResponse, error) {
	req.PublicKey = c.publicKey
	var resp GenericResponse
	if err := c.post(ctx, "/pre-auth/complete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
