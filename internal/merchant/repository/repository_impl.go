package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/nearme-labs/nearme/internal/merchant/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, merchant *domain.Merchant) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO merchants (id, name, wallet_address, owner_wallet, accepts_sol, accepts_usdc,
		   total_payments_count, total_volume_sol, total_volume_usdc, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)`,
		merchant.ID,
		merchant.Name,
		merchant.WalletAddress,
		merchant.OwnerWallet,
		merchant.AcceptsSOL,
		merchant.AcceptsUSDC,
		merchant.CreatedAt,
		merchant.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Merchant, error) {
	var merchant domain.Merchant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, wallet_address, owner_wallet, accepts_sol, accepts_usdc,
		   total_payments_count, total_volume_sol, total_volume_usdc, stats_updated_at,
		   created_at, updated_at
		 FROM merchants WHERE id = ?`,
		id,
	).Scan(&merchant).Error
	if err != nil {
		return nil, err
	}
	if merchant.ID == 0 {
		return nil, nil
	}
	return &merchant, nil
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerWallet string) ([]*domain.Merchant, error) {
	var merchants []*domain.Merchant
	err := db.WithContext(ctx).
		Model(&domain.Merchant{}).
		Where("owner_wallet = ?", ownerWallet).
		Order("created_at desc, id desc").
		Find(&merchants).Error
	if err != nil {
		return nil, err
	}
	return merchants, nil
}

func (r *repo) ApplySettlement(ctx context.Context, db *gorm.DB, id snowflake.ID, c currency.Currency, amount decimal.Decimal, now time.Time) error {
	column := "total_volume_sol"
	if c == currency.USDC {
		column = "total_volume_usdc"
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE merchants
		 SET total_payments_count = total_payments_count + 1,
		     `+column+` = `+column+` + ?,
		     stats_updated_at = ?,
		     updated_at = ?
		 WHERE id = ?`,
		amount,
		now,
		now,
		id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
