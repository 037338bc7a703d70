package domain

import "errors"

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidInput        = errors.New("invalid_input")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrMerchantNotFound    = errors.New("merchant_not_found")
	ErrNotOwner            = errors.New("not_merchant_owner")
	ErrCurrencyNotAccepted = errors.New("currency_not_accepted")

	ErrNotFound       = errors.New("request_not_found")
	ErrAlreadyPaid    = errors.New("already_paid")
	ErrAlreadyExpired = errors.New("already_expired")
	ErrExpired        = errors.New("request_expired")
	ErrStatusConflict = errors.New("status_conflict")

	ErrTxNotFound        = errors.New("tx_not_found")
	ErrLedgerUnavailable = errors.New("ledger_unavailable")
	ErrSettlementFailed  = errors.New("settlement_failed_on_ledger")
	ErrSenderMismatch    = errors.New("sender_mismatch")
	ErrRecipientMismatch = errors.New("recipient_mismatch")
	ErrDuplicateRecord   = errors.New("duplicate_settlement_record")
)
