package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/shopspring/decimal"
)

type Merchant struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	WalletAddress string       `gorm:"not null;uniqueIndex" json:"wallet_address"`
	OwnerWallet   string       `gorm:"not null;index" json:"owner_wallet"`
	AcceptsSOL    bool         `gorm:"not null;default:true" json:"accepts_sol"`
	AcceptsUSDC   bool         `gorm:"not null;default:false" json:"accepts_usdc"`

	TotalPaymentsCount int64           `gorm:"not null;default:0" json:"total_payments_count"`
	TotalVolumeSOL     decimal.Decimal `gorm:"type:decimal(20,9);not null;default:0" json:"total_volume_sol"`
	TotalVolumeUSDC    decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"total_volume_usdc"`
	StatsUpdatedAt     *time.Time      `json:"stats_updated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Accepts reports whether the merchant settles in the given currency.
func (m Merchant) Accepts(c currency.Currency) bool {
	switch c {
	case currency.SOL:
		return m.AcceptsSOL
	case currency.USDC:
		return m.AcceptsUSDC
	}
	return false
}
