package solana

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/nearme-labs/nearme/internal/config"
	"github.com/nearme-labs/nearme/internal/ledger/domain"
	"github.com/nearme-labs/nearme/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// getTransactionFunc matches rpc.Client.GetTransaction; injected so
// tests can simulate slow or failing ledgers.
type getTransactionFunc func(ctx context.Context, signature solanago.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Client struct {
	log        *zap.Logger
	metrics    *metrics.Metrics
	getTx      getTransactionFunc
	timeout    time.Duration
	maxRetries uint64
}

func New(p Params) domain.Client {
	rpcClient := rpc.New(p.Cfg.SolanaRPCURL)
	return &Client{
		log:        p.Log.Named("ledger.solana"),
		metrics:    p.Metrics,
		getTx:      rpcClient.GetTransaction,
		timeout:    time.Duration(p.Cfg.SolanaLookupTimeout) * time.Second,
		maxRetries: uint64(p.Cfg.SolanaMaxRetries),
	}
}

func (c *Client) GetTransaction(ctx context.Context, signature string) (*domain.Transaction, error) {
	sig, err := solanago.SignatureFromBase58(signature)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	started := time.Now()
	result, err := c.lookup(ctx, sig)
	c.metrics.ObserveLedgerLookup(time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		c.metrics.LedgerError()
		c.log.Warn("ledger lookup failed",
			zap.String("signature", signature),
			zap.Error(err),
		)
		return nil, errors.Join(domain.ErrUnavailable, err)
	}

	return mapTransaction(signature, result)
}

func (c *Client) lookup(ctx context.Context, sig solanago.Signature) (*rpc.GetTransactionResult, error) {
	var result *rpc.GetTransactionResult

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := c.getTx(attemptCtx, sig, &rpc.GetTransactionOpts{
			Encoding: solanago.EncodingBase64,
		})
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				return backoff.Permanent(domain.ErrNotFound)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if out == nil {
			return backoff.Permanent(domain.ErrNotFound)
		}
		result = out
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func mapTransaction(signature string, result *rpc.GetTransactionResult) (*domain.Transaction, error) {
	if result.Transaction == nil {
		return nil, domain.ErrNotFound
	}
	decoded, err := result.Transaction.GetTransaction()
	if err != nil {
		return nil, errors.Join(domain.ErrUnavailable, err)
	}

	accounts := make([]string, 0, len(decoded.Message.AccountKeys))
	for _, key := range decoded.Message.AccountKeys {
		accounts = append(accounts, key.String())
	}

	tx := &domain.Transaction{
		Signature: signature,
		Succeeded: result.Meta != nil && result.Meta.Err == nil,
		Accounts:  accounts,
	}
	if len(accounts) > 0 {
		// The fee payer is always the first static account key.
		tx.FeePayer = accounts[0]
	}
	if result.BlockTime != nil {
		blockTime := result.BlockTime.Time().UTC()
		tx.BlockTime = &blockTime
	}
	return tx, nil
}
