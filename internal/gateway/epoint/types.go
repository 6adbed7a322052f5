package epoint

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned when an envelope fails verification.
var ErrInvalidSignature = errors.New("gateway signature verification failed")

// GatewayError describes a failed gateway API call.
type GatewayError struct {
	Code    string
	Message string
	Details string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
}

// Callback statuses reported by the gateway.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PaymentRequest is the payload for the hosted payment page request.
type PaymentRequest struct {
	PublicKey          string `json:"public_key"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	Language           string `json:"language"`
	OrderID            string `json:"order_id"`
	Description        string `json:"description"`
	SuccessRedirectURL string `json:"success_redirect_url"`
	ErrorRedirectURL   string `json:"error_redirect_url"`
}

// PaymentResponse is the decoded response of the payment request call.
type PaymentResponse struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
	Message     string `json:"message,omitempty"`
}

// Callback is the decoded server-to-server payment result message.
type Callback struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	BankResponse  string `json:"bank_response,omitempty"`
	CardName      string `json:"card_name,omitempty"`
	CardMask      string `json:"card_mask,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Message       string `json:"message,omitempty"`
}

// StatusRequest asks the gateway for the state of a transaction.
type StatusRequest struct {
	PublicKey     string `json:"public_key"`
	TransactionID string `json:"transaction_id"`
}

// StatusResponse is the decoded check-status reply.
type StatusResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount,omitempty"`
	Message       string `json:"message,omitempty"`
}

// SaveCardRequest registers a card for tokenized payments.
type SaveCardRequest struct {
	PublicKey          string `json:"public_key"`
	Language           string `json:"language"`
	Description        string `json:"description"`
	SuccessRedirectURL string `json:"success_redirect_url"`
	ErrorRedirectURL   string `json:"error_redirect_url"`
}

// SaveCardResponse carries the card registration redirect and token.
type SaveCardResponse struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
	CardID      string `json:"card_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

// SavedCardPaymentRequest charges a previously saved card.
type SavedCardPaymentRequest struct {
	PublicKey   string `json:"public_key"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Language    string `json:"language"`
	OrderID     string `json:"order_id"`
	Description string `json:"description"`
	CardID      string `json:"card_id"`
}

// ReverseRequest cancels or refunds a completed transaction.
type ReverseRequest struct {
	PublicKey     string `json:"public_key"`
	TransactionID string `json:"transaction"`
	Currency      string `json:"currency"`
	Language      string `json:"language"`
	Amount        string `json:"amount,omitempty"`
}

// PreAuthRequest places a hold on the payer's card.
type PreAuthRequest struct {
	PublicKey          string `json:"public_key"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	Language           string `json:"language"`
	OrderID            string `json:"order_id"`
	Description        string `json:"description"`
	SuccessRedirectURL string `json:"success_redirect_url"`
	ErrorRedirectURL   string `json:"error_redirect_url"`
}

// PreAuthCompleteRequest captures a previous pre-authorization.
type PreAuthCompleteRequest struct {
	PublicKey     string `json:"public_key"`
	Amount        string `json:"amount"`
	TransactionID string `json:"transaction"`
}

// GenericResponse is the decoded reply for calls that only report status.
type GenericResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}
