package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nearme-labs/nearme/internal/config"
	"github.com/nearme-labs/nearme/internal/ledger"
	"github.com/nearme-labs/nearme/internal/lock"
	"github.com/nearme-labs/nearme/internal/merchant"
	merchantdomain "github.com/nearme-labs/nearme/internal/merchant/domain"
	"github.com/nearme-labs/nearme/internal/observability/metrics"
	"github.com/nearme-labs/nearme/internal/paymentrequest"
	prdomain "github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	metrics.Module,
	lock.Module,
	ledger.Module,
	merchant.Module,
	paymentrequest.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(WalletAuth())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine            *gin.Engine
	log               *zap.Logger
	merchantSvc       merchantdomain.Service
	paymentRequestSvc prdomain.Service
}

type ServerParams struct {
	fx.In

	Gin               *gin.Engine
	Log               *zap.Logger
	MerchantSvc       merchantdomain.Service
	PaymentRequestSvc prdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:            p.Gin,
		log:               p.Log.Named("server"),
		merchantSvc:       p.MerchantSvc,
		paymentRequestSvc: p.PaymentRequestSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	requests := v1.Group("/payment-requests")
	{
		requests.POST("", AuthRequired(), s.createPaymentRequest)
		requests.GET("/:id", s.getPaymentRequest)
		requests.POST("/:id/fulfill", AuthRequired(), s.fulfillPaymentRequest)
	}

	merchants := v1.Group("/merchants")
	{
		merchants.POST("", AuthRequired(), s.createMerchant)
		merchants.GET("", AuthRequired(), s.listOwnedMerchants)
		merchants.GET("/:id", s.getMerchant)
		merchants.GET("/:id/payment-requests", s.listMerchantPaymentRequests)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
