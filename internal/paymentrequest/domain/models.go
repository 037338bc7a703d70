package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusExpired Status = "expired"
)

// PaymentRequest is an open invoice. Status moves exactly once,
// pending to paid or pending to expired, and never leaves a terminal
// state.
type PaymentRequest struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	MerchantID     snowflake.ID      `gorm:"not null;index" json:"merchant_id"`
	MerchantName   string            `gorm:"not null" json:"merchant_name"`
	MerchantWallet string            `gorm:"not null" json:"merchant_wallet"`
	Amount         decimal.Decimal   `gorm:"type:decimal(20,9);not null" json:"amount"`
	Currency       currency.Currency `gorm:"not null" json:"currency"`
	Status         Status            `gorm:"not null;index:idx_payment_requests_status_expires" json:"status"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
	ExpiresAt      time.Time         `gorm:"not null;index:idx_payment_requests_status_expires" json:"expires_at"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	TxSignature    *string           `json:"tx_signature,omitempty"`
	SenderWallet   *string           `json:"sender_wallet,omitempty"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updated_at"`
}

// TransactionRecord is the immutable receipt of a settled payment,
// keyed by the ledger signature so a settlement can never be recorded
// twice.
type TransactionRecord struct {
	Signature      string            `gorm:"primaryKey" json:"signature"`
	RequestID      snowflake.ID      `gorm:"not null;index" json:"request_id"`
	MerchantID     snowflake.ID      `gorm:"not null;index" json:"merchant_id"`
	MerchantName   string            `gorm:"not null" json:"merchant_name"`
	MerchantWallet string            `gorm:"not null" json:"merchant_wallet"`
	SenderWallet   string            `gorm:"not null" json:"sender_wallet"`
	Amount         decimal.Decimal   `gorm:"type:decimal(20,9);not null" json:"amount"`
	Currency       currency.Currency `gorm:"not null" json:"currency"`
	BlockTime      *time.Time        `json:"block_time,omitempty"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
}
