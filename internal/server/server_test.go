package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nearme-labs/nearme/internal/config"
	"github.com/nearme-labs/nearme/internal/identity"
	merchantdomain "github.com/nearme-labs/nearme/internal/merchant/domain"
	prdomain "github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPaymentRequestSvc struct {
	createErr  error
	fulfillErr error
}

func (s *stubPaymentRequestSvc) Create(ctx context.Context, req prdomain.CreateRequest) (prdomain.CreateResponse, error) {
	if s.createErr != nil {
		return prdomain.CreateResponse{}, s.createErr
	}
	return prdomain.CreateResponse{
		RequestID: "1234567890",
		ExpiresAt: time.Date(2026, 3, 14, 12, 10, 0, 0, time.UTC),
	}, nil
}

func (s *stubPaymentRequestSvc) Fulfill(ctx context.Context, req prdomain.FulfillRequest) (prdomain.FulfillResponse, error) {
	if s.fulfillErr != nil {
		return prdomain.FulfillResponse{}, s.fulfillErr
	}
	return prdomain.FulfillResponse{Success: true, TxSignature: req.TxSignature}, nil
}

func (s *stubPaymentRequestSvc) GetByID(ctx context.Context, req prdomain.GetRequest) (prdomain.PaymentRequest, error) {
	return prdomain.PaymentRequest{}, prdomain.ErrNotFound
}

func (s *stubPaymentRequestSvc) ListByMerchant(ctx context.Context, req prdomain.ListByMerchantRequest) ([]prdomain.PaymentRequest, error) {
	return nil, nil
}

type stubMerchantSvc struct{}

func (s *stubMerchantSvc) Create(ctx context.Context, req merchantdomain.CreateMerchantRequest) (merchantdomain.Merchant, error) {
	return merchantdomain.Merchant{}, merchantdomain.ErrWalletTaken
}

func (s *stubMerchantSvc) GetByID(ctx context.Context, req merchantdomain.GetMerchantRequest) (merchantdomain.Merchant, error) {
	return merchantdomain.Merchant{}, merchantdomain.ErrNotFound
}

func (s *stubMerchantSvc) ListOwned(ctx context.Context) ([]merchantdomain.Merchant, error) {
	return nil, nil
}

func newTestServer(prSvc prdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(config.Config{})
	NewServer(ServerParams{
		Gin:               engine,
		Log:               zap.NewNop(),
		MerchantSvc:       &stubMerchantSvc{},
		PaymentRequestSvc: prSvc,
	})
	return engine
}

func doJSON(engine *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(HeaderWallet, "4Nd1mYvK7dYVKqkRrUyTrKppJZ1E5KLxm2VNzkbmGhtA")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateRequiresAuth(t *testing.T) {
	engine := newTestServer(&stubPaymentRequestSvc{})

	w := doJSON(engine, http.MethodPost, "/v1/payment-requests", `{"merchant_id":"1","amount":"0.5","currency":"SOL"}`, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodPost, "/v1/payment-requests", `{"merchant_id":"1","amount":"0.5","currency":"SOL"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"request_id"`)
	require.Contains(t, w.Body.String(), `"expires_at"`)
}

func TestFulfillErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", prdomain.ErrInvalidInput, http.StatusBadRequest},
		{"not found", prdomain.ErrNotFound, http.StatusNotFound},
		{"already paid", prdomain.ErrAlreadyPaid, http.StatusConflict},
		{"already expired", prdomain.ErrAlreadyExpired, http.StatusConflict},
		{"expired", prdomain.ErrExpired, http.StatusGone},
		{"tx not found", prdomain.ErrTxNotFound, http.StatusUnprocessableEntity},
		{"settlement failed", prdomain.ErrSettlementFailed, http.StatusUnprocessableEntity},
		{"sender mismatch", prdomain.ErrSenderMismatch, http.StatusUnprocessableEntity},
		{"recipient mismatch", prdomain.ErrRecipientMismatch, http.StatusUnprocessableEntity},
		{"duplicate record", prdomain.ErrDuplicateRecord, http.StatusConflict},
		{"ledger unavailable", prdomain.ErrLedgerUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestServer(&stubPaymentRequestSvc{fulfillErr: tc.err})
			w := doJSON(engine, http.MethodPost, "/v1/payment-requests/123/fulfill",
				`{"tx_signature":"sig","sender_wallet":"w"}`, true)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCreateErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid amount", prdomain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid currency", prdomain.ErrInvalidCurrency, http.StatusBadRequest},
		{"merchant not found", prdomain.ErrMerchantNotFound, http.StatusNotFound},
		{"not owner", prdomain.ErrNotOwner, http.StatusForbidden},
		{"currency not accepted", prdomain.ErrCurrencyNotAccepted, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestServer(&stubPaymentRequestSvc{createErr: tc.err})
			w := doJSON(engine, http.MethodPost, "/v1/payment-requests",
				`{"merchant_id":"1","amount":"0.5","currency":"SOL"}`, true)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestWalletAuthBearerFallback(t *testing.T) {
	engine := newTestServer(&stubPaymentRequestSvc{})
	engine.GET("/whoami", func(c *gin.Context) {
		wallet, _ := identity.WalletFromContext(c.Request.Context())
		c.String(http.StatusOK, wallet)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-wallet-address")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "some-wallet-address", w.Body.String())
}

func TestMerchantConflictAndNotFound(t *testing.T) {
	engine := newTestServer(&stubPaymentRequestSvc{})

	w := doJSON(engine, http.MethodPost, "/v1/merchants", `{"name":"x","wallet_address":"y","accepts_sol":true}`, true)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(engine, http.MethodGet, "/v1/merchants/123", "", false)
	require.Equal(t, http.StatusNotFound, w.Code)
}
