package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/M-Haris-27/ZoroPay/internal/config"
	invoicedomain "github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	"github.com/M-Haris-27/ZoroPay/internal/observability"
	obsmiddleware "github.com/M-Haris-27/ZoroPay/internal/observability/logger"
	obsmetrics "github.com/M-Haris-27/ZoroPay/internal/observability/metrics"
	obstracing "github.com/M-Haris-27/ZoroPay/internal/observability/tracing"
	paymentlinkdomain "github.com/M-Haris-27/ZoroPay/internal/paymentlink/domain"
	"github.com/M-Haris-27/ZoroPay/internal/ratelimit"
	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(CORS())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "App is running successfully")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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

type Server struct {
	engine             *gin.Engine
	userSvc            userdomain.Service
	invoiceSvc         invoicedomain.Service
	paymentLinkSvc     paymentlinkdomain.Service
	paymentLinkLimiter *ratelimit.PaymentLinkLimiter
}

type ServerParams struct {
	fx.In

	Gin                *gin.Engine
	UserSvc            userdomain.Service
	InvoiceSvc         invoicedomain.Service
	PaymentLinkSvc     paymentlinkdomain.Service
	PaymentLinkLimiter *ratelimit.PaymentLinkLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:             p.Gin,
		userSvc:            p.UserSvc,
		invoiceSvc:         p.InvoiceSvc,
		paymentLinkSvc:     p.PaymentLinkSvc,
		paymentLinkLimiter: p.PaymentLinkLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Users --------
	users := api.Group("/users")
	{
		users.POST("/new", s.CreateUser)
		users.GET("/all", s.ListUsers)
		users.GET("/:id", s.GetUserByID)
		users.PUT("/:id", s.UpdateUser)
		users.DELETE("/:id", s.DeleteUser)
	}

	// -------- Invoices --------
	invoices := api.Group("/invoices")
	{
		invoices.POST("/new", s.CreateInvoice)
		invoices.GET("/all", s.ListInvoices)
		invoices.GET("/:id", s.GetInvoiceByID)
		invoices.PUT("/:id", s.UpdateInvoice)
		invoices.DELETE("/:id", s.DeleteInvoice)
	}

	// -------- Payments --------
	api.POST("/payments/create-payment-link", s.CreatePaymentLink)
}
