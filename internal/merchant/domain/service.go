package domain

import (
	"context"
	"errors"
)

type CreateMerchantRequest struct {
	Name          string `json:"name"`
	WalletAddress string `json:"wallet_address"`
	AcceptsSOL    bool   `json:"accepts_sol"`
	AcceptsUSDC   bool   `json:"accepts_usdc"`
}

type GetMerchantRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateMerchantRequest) (Merchant, error)
	GetByID(context.Context, GetMerchantRequest) (Merchant, error)
	ListOwned(context.Context) ([]Merchant, error)
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidWallet   = errors.New("invalid_wallet")
	ErrNoCurrency      = errors.New("no_accepted_currency")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("merchant_not_found")
	ErrWalletTaken     = errors.New("wallet_already_registered")
)
