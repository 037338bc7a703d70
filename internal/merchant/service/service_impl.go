package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/identity"
	"github.com/nearme-labs/nearme/internal/merchant/domain"
	"github.com/nearme-labs/nearme/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("merchant.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMerchantRequest) (domain.Merchant, error) {
	owner, ok := identity.WalletFromContext(ctx)
	if !ok {
		return domain.Merchant{}, domain.ErrUnauthenticated
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Merchant{}, domain.ErrInvalidName
	}

	wallet := strings.TrimSpace(req.WalletAddress)
	if wallet == "" {
		return domain.Merchant{}, domain.ErrInvalidWallet
	}

	if !req.AcceptsSOL && !req.AcceptsUSDC {
		return domain.Merchant{}, domain.ErrNoCurrency
	}

	now := s.clock.Now()
	merchant := domain.Merchant{
		ID:            s.genID.Generate(),
		Name:          name,
		WalletAddress: wallet,
		OwnerWallet:   owner,
		AcceptsSOL:    req.AcceptsSOL,
		AcceptsUSDC:   req.AcceptsUSDC,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &merchant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Merchant{}, domain.ErrWalletTaken
		}
		return domain.Merchant{}, err
	}

	s.log.Info("merchant registered",
		zap.String("merchant_id", merchant.ID.String()),
		zap.String("wallet", merchant.WalletAddress),
	)
	return merchant, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetMerchantRequest) (domain.Merchant, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Merchant{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Merchant{}, err
	}
	if item == nil {
		return domain.Merchant{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListOwned(ctx context.Context) ([]domain.Merchant, error) {
	owner, ok := identity.WalletFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	items, err := s.repo.ListByOwner(ctx, s.db, owner)
	if err != nil {
		return nil, err
	}

	merchants := make([]domain.Merchant, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		merchants = append(merchants, *item)
	}
	return merchants, nil
}
