package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, request *domain.PaymentRequest) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_requests (id, merchant_id, merchant_name, merchant_wallet, amount,
		   currency, status, created_at, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID,
		request.MerchantID,
		request.MerchantName,
		request.MerchantWallet,
		request.Amount,
		request.Currency,
		request.Status,
		request.CreatedAt,
		request.ExpiresAt,
		request.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PaymentRequest, error) {
	var request domain.PaymentRequest
	err := db.WithContext(ctx).Raw(
		`SELECT id, merchant_id, merchant_name, merchant_wallet, amount, currency, status,
		   created_at, expires_at, paid_at, tx_signature, sender_wallet, updated_at
		 FROM payment_requests WHERE id = ?`,
		id,
	).Scan(&request).Error
	if err != nil {
		return nil, err
	}
	if request.ID == 0 {
		return nil, nil
	}
	return &request, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt time.Time, signature, sender string) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payment_requests
		 SET status = ?, paid_at = ?, tx_signature = ?, sender_wallet = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusPaid,
		paidAt,
		signature,
		sender,
		paidAt,
		id,
		domain.StatusPending,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkExpired(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payment_requests
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusExpired,
		now,
		id,
		domain.StatusPending,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) InsertRecord(ctx context.Context, db *gorm.DB, record *domain.TransactionRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO transaction_records (signature, request_id, merchant_id, merchant_name,
		   merchant_wallet, sender_wallet, amount, currency, block_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Signature,
		record.RequestID,
		record.MerchantID,
		record.MerchantName,
		record.MerchantWallet,
		record.SenderWallet,
		record.Amount,
		record.Currency,
		record.BlockTime,
		record.CreatedAt,
	).Error
}

func (r *repo) FindRecord(ctx context.Context, db *gorm.DB, signature string) (*domain.TransactionRecord, error) {
	var record domain.TransactionRecord
	err := db.WithContext(ctx).Raw(
		`SELECT signature, request_id, merchant_id, merchant_name, merchant_wallet,
		   sender_wallet, amount, currency, block_time, created_at
		 FROM transaction_records WHERE signature = ?`,
		signature,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.Signature == "" {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) FetchExpired(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*domain.PaymentRequest, error) {
	var requests []*domain.PaymentRequest
	err := db.WithContext(ctx).Raw(
		`SELECT id, merchant_id, merchant_name, merchant_wallet, amount, currency, status,
		   created_at, expires_at, paid_at, tx_signature, sender_wallet, updated_at
		 FROM payment_requests
		 WHERE status = ? AND expires_at < ?
		 ORDER BY expires_at ASC
		 LIMIT ?`,
		domain.StatusPending,
		now,
		limit,
	).Scan(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repo) ListByMerchant(ctx context.Context, db *gorm.DB, merchantID snowflake.ID, status domain.Status, limit int) ([]*domain.PaymentRequest, error) {
	var requests []*domain.PaymentRequest
	stmt := db.WithContext(ctx).
		Model(&domain.PaymentRequest{}).
		Where("merchant_id = ?", merchantID)
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
