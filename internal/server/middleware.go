package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nearme-labs/nearme/internal/identity"
	prdomain "github.com/nearme-labs/nearme/internal/paymentrequest/domain"
)

const HeaderWallet = "X-Wallet-Address"

// WalletAuth extracts the caller's wallet address, already verified by
// the upstream gateway, and attaches it to the request context. No
// address means the request proceeds unauthenticated; services decide
// whether that is fatal.
func WalletAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet := strings.TrimSpace(c.GetHeader(HeaderWallet))
		if wallet == "" {
			if bearer := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(bearer, "Bearer ") {
				wallet = strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))
			}
		}
		if wallet != "" {
			c.Request = c.Request.WithContext(identity.WithWallet(c.Request.Context(), wallet))
		}
		c.Next()
	}
}

// AuthRequired rejects requests that carry no wallet identity.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.WalletFromContext(c.Request.Context()); !ok {
			AbortWithError(c, prdomain.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}
