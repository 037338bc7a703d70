package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, request *PaymentRequest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentRequest, error)
	// MarkPaid flips a pending request to paid. It returns false when
	// the request was no longer pending at write time.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt time.Time, signature, sender string) (bool, error)
	// MarkExpired flips a pending request to expired. It returns false
	// when the request was no longer pending at write time.
	MarkExpired(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
	InsertRecord(ctx context.Context, db *gorm.DB, record *TransactionRecord) error
	FindRecord(ctx context.Context, db *gorm.DB, signature string) (*TransactionRecord, error)
	// FetchExpired returns pending requests whose deadline has passed,
	// bounded by limit. Finalizing them is the caller's job, row by
	// row through MarkExpired.
	FetchExpired(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*PaymentRequest, error)
	ListByMerchant(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, status Status, limit int) ([]*PaymentRequest, error)
}
