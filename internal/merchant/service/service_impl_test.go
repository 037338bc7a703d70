package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/nearme-labs/nearme/internal/identity"
	"github.com/nearme-labs/nearme/internal/merchant/domain"
	"github.com/nearme-labs/nearme/internal/merchant/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.Merchant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, gdb
}

func ownerCtx() context.Context {
	return identity.WithWallet(context.Background(), "owner-wallet-1")
}

func TestCreateMerchantValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateMerchantRequest{
		Name:          "Corner Coffee",
		WalletAddress: "wallet-1",
		AcceptsSOL:    true,
	})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		WalletAddress: "wallet-1",
		AcceptsSOL:    true,
	})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		Name:       "Corner Coffee",
		AcceptsSOL: true,
	})
	require.ErrorIs(t, err, domain.ErrInvalidWallet)

	_, err = svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		Name:          "Corner Coffee",
		WalletAddress: "wallet-1",
	})
	require.ErrorIs(t, err, domain.ErrNoCurrency)
}

func TestCreateMerchantRejectsDuplicateWallet(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		Name:          "Corner Coffee",
		WalletAddress: "wallet-1",
		AcceptsSOL:    true,
	})
	require.NoError(t, err)
	require.Equal(t, "owner-wallet-1", created.OwnerWallet)
	require.True(t, created.AcceptsSOL)
	require.False(t, created.AcceptsUSDC)

	_, err = svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		Name:          "Copycat",
		WalletAddress: "wallet-1",
		AcceptsSOL:    true,
	})
	require.ErrorIs(t, err, domain.ErrWalletTaken)
}

func TestGetByIDAndListOwned(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		Name:          "Corner Coffee",
		WalletAddress: "wallet-1",
		AcceptsSOL:    true,
		AcceptsUSDC:   true,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), domain.GetMerchantRequest{ID: created.ID.String()})
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, int64(0), got.TotalPaymentsCount)
	require.True(t, got.TotalVolumeSOL.IsZero())

	_, err = svc.GetByID(context.Background(), domain.GetMerchantRequest{ID: "garbage"})
	require.ErrorIs(t, err, domain.ErrInvalidID)

	owned, err := svc.ListOwned(ownerCtx())
	require.NoError(t, err)
	require.Len(t, owned, 1)

	other, err := svc.ListOwned(identity.WithWallet(context.Background(), "someone-else"))
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestApplySettlementIncrementsStats(t *testing.T) {
	svc, gdb := newService(t)
	repo := repository.Provide()

	created, err := svc.Create(ownerCtx(), domain.CreateMerchantRequest{
		Name:          "Corner Coffee",
		WalletAddress: "wallet-1",
		AcceptsSOL:    true,
		AcceptsUSDC:   true,
	})
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 12, 5, 0, 0, time.UTC)
	require.NoError(t, repo.ApplySettlement(context.Background(), gdb, created.ID, currency.SOL, decimal.RequireFromString("0.5"), now))
	require.NoError(t, repo.ApplySettlement(context.Background(), gdb, created.ID, currency.USDC, decimal.RequireFromString("12.25"), now))

	got, err := svc.GetByID(context.Background(), domain.GetMerchantRequest{ID: created.ID.String()})
	require.NoError(t, err)
	require.Equal(t, int64(2), got.TotalPaymentsCount)
	require.True(t, got.TotalVolumeSOL.Equal(decimal.RequireFromString("0.5")))
	require.True(t, got.TotalVolumeUSDC.Equal(decimal.RequireFromString("12.25")))
	require.NotNil(t, got.StatsUpdatedAt)

	// Unknown merchant is surfaced, not silently dropped.
	node, _ := snowflake.NewNode(2)
	err = repo.ApplySettlement(context.Background(), gdb, node.Generate(), currency.SOL, decimal.New(1, 0), now)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
