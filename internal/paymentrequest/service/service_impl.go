package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/config"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/nearme-labs/nearme/internal/identity"
	ledgerdomain "github.com/nearme-labs/nearme/internal/ledger/domain"
	merchantdomain "github.com/nearme-labs/nearme/internal/merchant/domain"
	"github.com/nearme-labs/nearme/internal/observability/metrics"
	"github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"github.com/nearme-labs/nearme/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Holder       *config.PaymentsConfigHolder
	Repo         domain.Repository
	MerchantRepo merchantdomain.Repository
	Ledger       ledgerdomain.Client
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	holder       *config.PaymentsConfigHolder
	repo         domain.Repository
	merchantRepo merchantdomain.Repository
	ledger       ledgerdomain.Client
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("paymentrequest.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		holder:       p.Holder,
		repo:         p.Repo,
		merchantRepo: p.MerchantRepo,
		ledger:       p.Ledger,
		metrics:      p.Metrics,
	}
}

// Create opens a pending payment request for one of the caller's
// merchants. Validation failures are reported in a fixed order so a
// request with several problems always surfaces the same one.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.CreateResponse, error) {
	caller, ok := identity.WalletFromContext(ctx)
	if !ok {
		return domain.CreateResponse{}, domain.ErrUnauthenticated
	}

	merchantID := strings.TrimSpace(req.MerchantID)
	amountRaw := strings.TrimSpace(req.Amount)
	currencyRaw := strings.TrimSpace(req.Currency)
	if merchantID == "" || amountRaw == "" || currencyRaw == "" {
		return domain.CreateResponse{}, domain.ErrInvalidInput
	}

	cfg := s.holder.Get()

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil || !amount.IsPositive() || amount.GreaterThan(cfg.MaxAmountDecimal()) {
		return domain.CreateResponse{}, domain.ErrInvalidAmount
	}

	cur, ok := currency.Parse(currencyRaw)
	if !ok {
		return domain.CreateResponse{}, domain.ErrInvalidCurrency
	}

	id, err := snowflake.ParseString(merchantID)
	if err != nil || id == 0 {
		return domain.CreateResponse{}, domain.ErrMerchantNotFound
	}
	merchant, err := s.merchantRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CreateResponse{}, err
	}
	if merchant == nil {
		return domain.CreateResponse{}, domain.ErrMerchantNotFound
	}

	if merchant.OwnerWallet != caller {
		return domain.CreateResponse{}, domain.ErrNotOwner
	}

	if !merchant.Accepts(cur) {
		return domain.CreateResponse{}, domain.ErrCurrencyNotAccepted
	}

	now := s.clock.Now()
	request := domain.PaymentRequest{
		ID:             s.genID.Generate(),
		MerchantID:     merchant.ID,
		MerchantName:   merchant.Name,
		MerchantWallet: merchant.WalletAddress,
		Amount:         amount,
		Currency:       cur,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(cfg.RequestTTL()),
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &request); err != nil {
		return domain.CreateResponse{}, err
	}

	s.metrics.RequestCreated(cur.String())
	s.log.Info("payment request created",
		zap.String("request_id", request.ID.String()),
		zap.String("merchant_id", merchant.ID.String()),
		zap.String("currency", cur.String()),
		zap.String("amount", amount.String()),
	)
	return domain.CreateResponse{
		RequestID: request.ID.String(),
		ExpiresAt: request.ExpiresAt,
	}, nil
}

// Fulfill reconciles a claimed ledger transaction against a pending
// request. All ledger checks run before any write; the paid
// transition, the receipt insert, and the merchant stats increment
// commit as one transaction.
func (s *Service) Fulfill(ctx context.Context, req domain.FulfillRequest) (domain.FulfillResponse, error) {
	if _, ok := identity.WalletFromContext(ctx); !ok {
		return domain.FulfillResponse{}, domain.ErrUnauthenticated
	}

	requestID := strings.TrimSpace(req.RequestID)
	signature := strings.TrimSpace(req.TxSignature)
	sender := strings.TrimSpace(req.SenderWallet)
	if requestID == "" || signature == "" || sender == "" {
		return domain.FulfillResponse{}, domain.ErrInvalidInput
	}

	id, err := snowflake.ParseString(requestID)
	if err != nil || id == 0 {
		return domain.FulfillResponse{}, domain.ErrNotFound
	}
	request, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.FulfillResponse{}, err
	}
	if request == nil {
		return domain.FulfillResponse{}, domain.ErrNotFound
	}

	if request.Status != domain.StatusPending {
		return domain.FulfillResponse{}, s.conflictFor(request.Status)
	}

	now := s.clock.Now()
	if request.ExpiresAt.Before(now) {
		// Lazy expiry: the reaper has not swept this request yet.
		// The write is conditional, so losing a race to a concurrent
		// settlement leaves the paid state untouched.
		swapped, err := s.repo.MarkExpired(ctx, s.db, request.ID, now)
		if err != nil {
			return domain.FulfillResponse{}, err
		}
		if swapped {
			s.metrics.RequestsExpired(1)
		}
		s.metrics.SettlementFailed("expired")
		return domain.FulfillResponse{}, domain.ErrExpired
	}

	tx, err := s.ledger.GetTransaction(ctx, signature)
	if err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrNotFound):
			s.metrics.SettlementFailed("tx_not_found")
			return domain.FulfillResponse{}, domain.ErrTxNotFound
		default:
			s.metrics.SettlementFailed("ledger_unavailable")
			return domain.FulfillResponse{}, domain.ErrLedgerUnavailable
		}
	}
	if !tx.Succeeded {
		s.metrics.SettlementFailed("settlement_failed")
		return domain.FulfillResponse{}, domain.ErrSettlementFailed
	}
	if tx.FeePayer != sender {
		s.metrics.SettlementFailed("sender_mismatch")
		return domain.FulfillResponse{}, domain.ErrSenderMismatch
	}
	if !tx.Involves(request.MerchantWallet) {
		s.metrics.SettlementFailed("recipient_mismatch")
		return domain.FulfillResponse{}, domain.ErrRecipientMismatch
	}

	paidAt := s.clock.Now()
	record := domain.TransactionRecord{
		Signature:      signature,
		RequestID:      request.ID,
		MerchantID:     request.MerchantID,
		MerchantName:   request.MerchantName,
		MerchantWallet: request.MerchantWallet,
		SenderWallet:   sender,
		Amount:         request.Amount,
		Currency:       request.Currency,
		BlockTime:      tx.BlockTime,
		CreatedAt:      paidAt,
	}

	err = s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		swapped, err := s.repo.MarkPaid(ctx, txn, request.ID, paidAt, signature, sender)
		if err != nil {
			return err
		}
		if !swapped {
			// A concurrent settlement or sweep won.
			return domain.ErrStatusConflict
		}
		if err := s.repo.InsertRecord(ctx, txn, &record); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateRecord
			}
			return err
		}
		return s.merchantRepo.ApplySettlement(ctx, txn, request.MerchantID, request.Currency, request.Amount, paidAt)
	})
	if err != nil {
		switch err {
		case domain.ErrStatusConflict:
			return domain.FulfillResponse{}, s.currentConflict(ctx, request.ID)
		case domain.ErrDuplicateRecord:
			s.metrics.SettlementFailed("duplicate_signature")
			return domain.FulfillResponse{}, domain.ErrDuplicateRecord
		default:
			return domain.FulfillResponse{}, err
		}
	}

	s.metrics.SettlementCommitted(request.Currency.String())
	s.log.Info("payment settled",
		zap.String("request_id", request.ID.String()),
		zap.String("signature", signature),
		zap.String("merchant_id", request.MerchantID.String()),
	)
	return domain.FulfillResponse{
		Success:     true,
		TxSignature: signature,
		BlockTime:   tx.BlockTime,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetRequest) (domain.PaymentRequest, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.PaymentRequest{}, domain.ErrNotFound
	}

	request, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.PaymentRequest{}, err
	}
	if request == nil {
		return domain.PaymentRequest{}, domain.ErrNotFound
	}
	return *request, nil
}

func (s *Service) ListByMerchant(ctx context.Context, req domain.ListByMerchantRequest) ([]domain.PaymentRequest, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.MerchantID))
	if err != nil || id == 0 {
		return nil, domain.ErrMerchantNotFound
	}

	var status domain.Status
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(strings.ToLower(raw))
		switch status {
		case domain.StatusPending, domain.StatusPaid, domain.StatusExpired:
		default:
			return nil, domain.ErrInvalidInput
		}
	}

	items, err := s.repo.ListByMerchant(ctx, s.db, id, status, s.holder.Get().ListByMerchantLimit)
	if err != nil {
		return nil, err
	}

	requests := make([]domain.PaymentRequest, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		requests = append(requests, *item)
	}
	return requests, nil
}

func (s *Service) conflictFor(status domain.Status) error {
	if status == domain.StatusPaid {
		return domain.ErrAlreadyPaid
	}
	return domain.ErrAlreadyExpired
}

// currentConflict re-reads the request after a lost CAS so the caller
// learns which terminal state won.
func (s *Service) currentConflict(ctx context.Context, id snowflake.ID) error {
	request, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil || request == nil {
		return domain.ErrStatusConflict
	}
	return s.conflictFor(request.Status)
}
