package domain

import "time"

// Transaction is the ledger's view of a settled transfer, reduced to
// the fields settlement verification needs.
type Transaction struct {
	Signature string
	Succeeded bool
	// FeePayer is the account that initiated and signed for the
	// transaction fees.
	FeePayer string
	// Accounts lists every static account the transaction touched,
	// fee payer included.
	Accounts  []string
	BlockTime *time.Time
}

// Involves reports whether wallet appears among the transaction's
// accounts.
func (t Transaction) Involves(wallet string) bool {
	for _, account := range t.Accounts {
		if account == wallet {
			return true
		}
	}
	return false
}
