package domain

import (
	"context"
	"time"
)

type CreateRequest struct {
	MerchantID string `json:"merchant_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

type CreateResponse struct {
	RequestID string    `json:"request_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FulfillRequest struct {
	RequestID    string `json:"-"`
	TxSignature  string `json:"tx_signature"`
	SenderWallet string `json:"sender_wallet"`
}

type FulfillResponse struct {
	Success     bool       `json:"success"`
	TxSignature string     `json:"tx_signature"`
	BlockTime   *time.Time `json:"block_time,omitempty"`
}

type GetRequest struct {
	ID string
}

type ListByMerchantRequest struct {
	MerchantID string
	Status     string
}

type Service interface {
	Create(context.Context, CreateRequest) (CreateResponse, error)
	Fulfill(context.Context, FulfillRequest) (FulfillResponse, error)
	GetByID(context.Context, GetRequest) (PaymentRequest, error)
	ListByMerchant(context.Context, ListByMerchantRequest) ([]PaymentRequest, error)
}
