package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/nearme-labs/nearme/internal/ledger/domain"
	merchantdomain "github.com/nearme-labs/nearme/internal/merchant/domain"
	prdomain "github.com/nearme-labs/nearme/internal/paymentrequest/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware maps domain errors pushed via AbortWithError
// onto wire responses in one place, so handlers never write error
// bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, prdomain.ErrUnauthenticated),
		errors.Is(err, merchantdomain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthenticated",
			Message: "unauthenticated",
		}
	case errors.Is(err, prdomain.ErrNotOwner):
		return http.StatusForbidden, errorPayload{
			Type:    "permission_denied",
			Message: "caller does not own this merchant",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, prdomain.ErrExpired):
		return http.StatusGone, errorPayload{
			Type:    "expired",
			Message: "payment request expired",
		}
	case isVerificationError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "verification_failed",
			Message: err.Error(),
		}
	case errors.Is(err, prdomain.ErrLedgerUnavailable),
		errors.Is(err, ledgerdomain.ErrUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "ledger_unavailable",
			Message: "ledger lookup failed, retry later",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, prdomain.ErrInvalidInput),
		errors.Is(err, prdomain.ErrInvalidAmount),
		errors.Is(err, prdomain.ErrInvalidCurrency),
		errors.Is(err, merchantdomain.ErrInvalidName),
		errors.Is(err, merchantdomain.ErrInvalidWallet),
		errors.Is(err, merchantdomain.ErrNoCurrency),
		errors.Is(err, merchantdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, prdomain.ErrNotFound),
		errors.Is(err, prdomain.ErrMerchantNotFound),
		errors.Is(err, merchantdomain.ErrNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, prdomain.ErrAlreadyPaid),
		errors.Is(err, prdomain.ErrAlreadyExpired),
		errors.Is(err, prdomain.ErrStatusConflict),
		errors.Is(err, prdomain.ErrDuplicateRecord),
		errors.Is(err, prdomain.ErrCurrencyNotAccepted),
		errors.Is(err, merchantdomain.ErrWalletTaken):
		return true
	default:
		return false
	}
}

func isVerificationError(err error) bool {
	switch {
	case errors.Is(err, prdomain.ErrTxNotFound),
		errors.Is(err, prdomain.ErrSettlementFailed),
		errors.Is(err, prdomain.ErrSenderMismatch),
		errors.Is(err, prdomain.ErrRecipientMismatch):
		return true
	default:
		return false
	}
}
