package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	auditdomain "github.com/greentruckerlabs/greentrucker/internal/audit/domain"
	"github.com/greentruckerlabs/greentrucker/internal/authorization"
	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	"github.com/greentruckerlabs/greentrucker/internal/observability/metrics"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	scheduledomain "github.com/greentruckerlabs/greentrucker/internal/schedule/domain"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	pricingSvc   pricingdomain.Service
	wasteSvc     wastedomain.Service
	paymentSvc   paymentdomain.Service
	billingSvc   billingdomain.Service
	scheduleSvc  scheduledomain.Service
	inventorySvc inventorydomain.Service
	auditSvc     auditdomain.Service
	authzSvc     authorization.Service

	apiKeyLimiter *rateLimiter
}

type ServerParam struct {
	fx.In

	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB

	PricingSvc   pricingdomain.Service
	WasteSvc     wastedomain.Service
	PaymentSvc   paymentdomain.Service
	BillingSvc   billingdomain.Service
	ScheduleSvc  scheduledomain.Service
	InventorySvc inventorydomain.Service
	AuditSvc     auditdomain.Service
	AuthzSvc     authorization.Service
}

func NewServer(p ServerParam) *Server {
	window := 1 * time.Minute
	if d, err := time.ParseDuration(p.Config.HTTP.RateLimitWindow); err == nil && d > 0 {
		window = d
	}
	return &Server{
		cfg:           p.Config,
		log:           p.Log.Named("server"),
		db:            p.DB,
		pricingSvc:    p.PricingSvc,
		wasteSvc:      p.WasteSvc,
		paymentSvc:    p.PaymentSvc,
		billingSvc:    p.BillingSvc,
		scheduleSvc:   p.ScheduleSvc,
		inventorySvc:  p.InventorySvc,
		auditSvc:      p.AuditSvc,
		authzSvc:      p.AuthzSvc,
		apiKeyLimiter: newRateLimiter(p.Config.HTTP.RateLimit, window),
	}
}

func NewEngine(cfg *config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID())
	if httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(httpMetrics))
	}
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/readyz", s.Readyz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1")
	v1.Use(s.APIKeyRequired())

	pricing := v1.Group("/pricing")
	pricing.GET("", s.RequirePermission(authorization.ObjectPricing, authorization.ActionRead), s.ListPricing)
	pricing.GET("/:id", s.RequirePermission(authorization.ObjectPricing, authorization.ActionRead), s.GetPricing)
	pricing.POST("", s.RequirePermission(authorization.ObjectPricing, authorization.ActionWrite), s.CreatePricing)
	pricing.PUT("/:id", s.RequirePermission(authorization.ObjectPricing, authorization.ActionWrite), s.UpdatePricing)
	pricing.DELETE("/:id", s.RequirePermission(authorization.ObjectPricing, authorization.ActionWrite), s.DeletePricing)

	waste := v1.Group("/waste-collections")
	waste.GET("", s.RequirePermission(authorization.ObjectWaste, authorization.ActionRead), s.ListWasteCollections)
	waste.GET("/:collectionId", s.RequirePermission(authorization.ObjectWaste, authorization.ActionRead), s.GetWasteCollection)
	waste.POST("", s.RequirePermission(authorization.ObjectWaste, authorization.ActionWrite), s.CreateWasteCollection)
	waste.PUT("/:collectionId", s.RequirePermission(authorization.ObjectWaste, authorization.ActionWrite), s.UpdateWasteCollection)
	waste.DELETE("/:collectionId", s.RequirePermission(authorization.ObjectWaste, authorization.ActionWrite), s.DeleteWasteCollection)

	payments := v1.Group("/payments")
	payments.GET("", s.RequirePermission(authorization.ObjectPayment, authorization.ActionRead), s.ListPayments)
	payments.GET("/:paymentId", s.RequirePermission(authorization.ObjectPayment, authorization.ActionRead), s.GetPayment)
	payments.POST("", s.RequirePermission(authorization.ObjectPayment, authorization.ActionWrite), s.CreatePayment)
	payments.DELETE("/:paymentId", s.RequirePermission(authorization.ObjectPayment, authorization.ActionWrite), s.DeletePayment)

	billing := v1.Group("/billing")
	billing.GET("/statement", s.RequirePermission(authorization.ObjectBilling, authorization.ActionRead), s.GetStatement)
	billing.GET("/overview", s.RequirePermission(authorization.ObjectBilling, authorization.ActionRead), s.GetOverview)
	billing.POST("/settle", s.RequirePermission(authorization.ObjectBilling, authorization.ActionSettle), s.Settle)
	billing.GET("/records", s.RequirePermission(authorization.ObjectBilling, authorization.ActionRead), s.ListBillingRecords)
	billing.GET("/records/:billingId", s.RequirePermission(authorization.ObjectBilling, authorization.ActionRead), s.GetBillingRecord)
	billing.POST("/records", s.RequirePermission(authorization.ObjectBilling, authorization.ActionWrite), s.CreateBillingRecord)
	billing.PUT("/records/:billingId", s.RequirePermission(authorization.ObjectBilling, authorization.ActionWrite), s.UpdateBillingRecord)
	billing.DELETE("/records/:billingId", s.RequirePermission(authorization.ObjectBilling, authorization.ActionWrite), s.DeleteBillingRecord)
	billing.GET("/statement/export", s.RequirePermission(authorization.ObjectBilling, authorization.ActionExport), s.ExportStatement)

	schedules := v1.Group("/schedules")
	schedules.GET("", s.RequirePermission(authorization.ObjectSchedule, authorization.ActionRead), s.ListSchedules)
	schedules.GET("/:requestId", s.RequirePermission(authorization.ObjectSchedule, authorization.ActionRead), s.GetSchedule)
	schedules.POST("", s.RequirePermission(authorization.ObjectSchedule, authorization.ActionWrite), s.CreateSchedule)
	schedules.PUT("/:requestId", s.RequirePermission(authorization.ObjectSchedule, authorization.ActionWrite), s.UpdateSchedule)
	schedules.DELETE("/:requestId", s.RequirePermission(authorization.ObjectSchedule, authorization.ActionWrite), s.DeleteSchedule)

	inventory := v1.Group("/inventory")
	inventory.GET("", s.RequirePermission(authorization.ObjectInventory, authorization.ActionRead), s.ListInventory)
	inventory.GET("/:slug", s.RequirePermission(authorization.ObjectInventory, authorization.ActionRead), s.GetInventoryItem)
	inventory.POST("", s.RequirePermission(authorization.ObjectInventory, authorization.ActionWrite), s.CreateInventoryItem)
	inventory.PUT("/:slug", s.RequirePermission(authorization.ObjectInventory, authorization.ActionWrite), s.UpdateInventoryItem)
	inventory.DELETE("/:slug", s.RequirePermission(authorization.ObjectInventory, authorization.ActionWrite), s.DeleteInventoryItem)

	v1.GET("/audit/export", s.RequirePermission(authorization.ObjectAudit, authorization.ActionExport), s.ExportAudit)
}

// RunHTTP starts the listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(
		NewEngine,
		NewServer,
	),
	fx.Invoke(RunHTTP),
)
