package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, merchant *Merchant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Merchant, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerWallet string) ([]*Merchant, error)
	// ApplySettlement increments the merchant's settlement counters for a
	// single committed payment. Callers run it inside the settlement
	// transaction.
	ApplySettlement(ctx context.Context, db *gorm.DB, id snowflake.ID, c currency.Currency, amount decimal.Decimal, now time.Time) error
}
