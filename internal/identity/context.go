package identity

import "context"

type contextKey struct{}

var walletKey contextKey

// WithWallet returns a context carrying the caller's verified wallet
// address.
func WithWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletKey, wallet)
}

// WalletFromContext extracts the caller's wallet address. The second
// return is false for unauthenticated requests.
func WalletFromContext(ctx context.Context) (string, bool) {
	wallet, ok := ctx.Value(walletKey).(string)
	if !ok || wallet == "" {
		return "", false
	}
	return wallet, true
}
