package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/middlewares"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("igreja-dashboard")

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// customErrorLogger logs only requests that accumulated gin errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func registerRoutes(r *gin.Engine) {

	r.POST("/auth/login", loginHandler())

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	admin := api.Group("")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))

	admin.POST("/users", registerUserHandler())
	admin.GET("/audit-logs", listAuditLogsHandler())
	admin.PUT("/settings", updateSettingsHandler())
	api.GET("/settings", getSettingsHandler())

	api.POST("/families", createFamilyHandler())
	api.GET("/families", listFamiliesHandler())
	api.GET("/families/:id", getFamilyHandler())
	api.PUT("/families/:id", updateFamilyHandler())
	api.DELETE("/families/:id", deactivateFamilyHandler())
	api.GET("/families/:id/eligibility", familyEligibilityHandler())

	api.GET("/eligible-families", eligibleFamiliesHandler())
	api.GET("/eligible-families/export", exportEligibleFamiliesHandler())

	api.POST("/food-baskets", createFoodBasketHandler())
	api.GET("/food-baskets/:year/:month", listFoodBasketsHandler())
	api.POST("/food-baskets/:id/deliver", deliverFoodBasketHandler())
	api.POST("/food-baskets/:id/cancel", cancelFoodBasketHandler())

	api.POST("/delivery-events", createDeliveryEventHandler())
	api.GET("/delivery-events/:id", getDeliveryEventHandler())
	api.POST("/delivery-events/:id/close", closeDeliveryEventHandler())
	api.POST("/delivery-events/:id/invites", inviteFamilyHandler())
	api.GET("/delivery-events/:id/withdrawals", listEventWithdrawalsHandler())
	api.PUT("/delivery-invites/:id/status", setInviteStatusHandler())
	api.POST("/delivery-withdrawals", registerWithdrawalHandler())

	api.POST("/equipment", createEquipmentHandler())
	api.GET("/equipment", listEquipmentHandler())
	api.POST("/loans", createLoanHandler())
	api.GET("/loans", listLoansHandler())
	api.POST("/loans/:id/return", returnLoanHandler())

	api.POST("/visits", createVisitRequestHandler())
	api.GET("/visits", listVisitRequestsHandler())
	api.POST("/visits/:id/schedule", scheduleVisitHandler())
	api.POST("/visits/:id/execution", recordVisitExecutionHandler())
	api.POST("/visits/:id/cancel", cancelVisitRequestHandler())

	api.POST("/referrals", createReferralHandler())
	api.GET("/referrals", listReferralsHandler())
	api.PUT("/referrals/:id/status", updateReferralStatusHandler())
	api.POST("/street-services", createStreetServiceHandler())
	api.GET("/street-services/:year/:month", listStreetServicesHandler())

	api.GET("/closures", listClosuresHandler())
	api.GET("/closures/:year/:month", getClosureHandler())
	api.GET("/closures/:year/:month/snapshot", getClosureSnapshotHandler())
	api.GET("/closures/:year/:month/report", downloadClosureReportHandler())
	api.POST("/closures/:year/:month/close", closeMonthHandler())
	api.POST("/closures/:year/:month/reopen", reopenMonthHandler())
	api.GET("/closures/:year/:month/official", getOfficialSnapshotHandler())
	api.GET("/closures/:year/:month/official/download", downloadOfficialReportHandler())
	admin.POST("/closures/:year/:month/official", generateOfficialReportHandler())

	api.GET("/dashboard", dashboardHandler())
}

func main() {
	_ = godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the startup probe passes; app endpoints
	// return 503 until the database is ready.
	r := gin.New()
	r.Use(middlewares.CorrelationIdMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production an explicit allowlist is required; anything else allows all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "X-Content-SHA256", "X-Correlation-Id")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate can run DDL that blocks tables; allow running migrations as
	// a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
