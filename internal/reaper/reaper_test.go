package reaper

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/currency"
	"github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"github.com/nearme-labs/nearme/internal/paymentrequest/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	reaper *Reaper
	clk    *clock.FakeClock
	node   *snowflake.Node
	repo   domain.Repository
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.PaymentRequest{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	repo := repository.Provide()

	r, err := New(Params{
		DB:     gdb,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clk,
		Repo:   repo,
		Config: cfg,
	})
	require.NoError(t, err)

	return &fixture{db: gdb, reaper: r, clk: clk, node: node, repo: repo}
}

func (f *fixture) seedRequest(t *testing.T, status domain.Status, ttl time.Duration) snowflake.ID {
	t.Helper()
	now := f.clk.Now()
	request := &domain.PaymentRequest{
		ID:             f.node.Generate(),
		MerchantID:     f.node.Generate(),
		MerchantName:   "Corner Coffee",
		MerchantWallet: "merchant-wallet",
		Amount:         decimal.RequireFromString("0.5"),
		Currency:       currency.SOL,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		UpdatedAt:      now,
	}
	require.NoError(t, f.repo.Insert(context.Background(), f.db, request))
	if status != domain.StatusPending {
		require.NoError(t, f.db.Exec(
			`UPDATE payment_requests SET status = ? WHERE id = ?`, status, request.ID,
		).Error)
	}
	return request.ID
}

func (f *fixture) statusOf(t *testing.T, id snowflake.ID) domain.Status {
	t.Helper()
	request, err := f.repo.FindByID(context.Background(), f.db, id)
	require.NoError(t, err)
	require.NotNil(t, request)
	return request.Status
}

func TestRunOnceExpiresOverdueRequests(t *testing.T) {
	f := newFixture(t, Config{})

	overdue := f.seedRequest(t, domain.StatusPending, 600*time.Second)
	fresh := f.seedRequest(t, domain.StatusPending, 2000*time.Second)
	paid := f.seedRequest(t, domain.StatusPaid, 600*time.Second)

	f.clk.Advance(601 * time.Second)
	require.NoError(t, f.reaper.RunOnce(context.Background()))

	require.Equal(t, domain.StatusExpired, f.statusOf(t, overdue))
	require.Equal(t, domain.StatusPending, f.statusOf(t, fresh))
	require.Equal(t, domain.StatusPaid, f.statusOf(t, paid))
}

func TestRunOnceHonorsBatchSize(t *testing.T) {
	f := newFixture(t, Config{BatchSize: 2})

	for i := 0; i < 3; i++ {
		f.seedRequest(t, domain.StatusPending, 600*time.Second)
	}
	f.clk.Advance(601 * time.Second)

	require.NoError(t, f.reaper.RunOnce(context.Background()))

	var remaining int64
	require.NoError(t, f.db.Model(&domain.PaymentRequest{}).
		Where("status = ?", domain.StatusPending).
		Count(&remaining).Error)
	require.Equal(t, int64(1), remaining)

	// The next tick picks up the leftover.
	require.NoError(t, f.reaper.RunOnce(context.Background()))
	require.NoError(t, f.db.Model(&domain.PaymentRequest{}).
		Where("status = ?", domain.StatusPending).
		Count(&remaining).Error)
	require.Equal(t, int64(0), remaining)
}

func TestMarkExpiredIsConditionalOnPending(t *testing.T) {
	f := newFixture(t, Config{})
	id := f.seedRequest(t, domain.StatusPaid, 600*time.Second)

	swapped, err := f.repo.MarkExpired(context.Background(), f.db, id, f.clk.Now().Add(time.Hour))
	require.NoError(t, err)
	require.False(t, swapped)
	require.Equal(t, domain.StatusPaid, f.statusOf(t, id))
}

func TestRunOnceIsIdempotent(t *testing.T) {
	f := newFixture(t, Config{})
	overdue := f.seedRequest(t, domain.StatusPending, 600*time.Second)
	f.clk.Advance(601 * time.Second)

	require.NoError(t, f.reaper.RunOnce(context.Background()))
	require.NoError(t, f.reaper.RunOnce(context.Background()))
	require.Equal(t, domain.StatusExpired, f.statusOf(t, overdue))
}
