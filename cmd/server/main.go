package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/config"
	"github.com/propstack/acquisition-engine/internal/handler"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/logger"
	"github.com/propstack/acquisition-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := initDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	store := repository.NewDB(db)
	cache := service.NewRedisCache(redisClient)

	userRepo := repository.NewUserRepository(store)
	propertyRepo := repository.NewPropertyRepository(store)
	purchaseRepo := repository.NewPurchaseRepository(store)
	invoiceRepo := repository.NewInvoiceRepository(store)
	loanRepo := repository.NewLoanRepository(store)
	sourceRepo := repository.NewPaymentSourceRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)
	repaymentRepo := repository.NewRepaymentRepository(store)
	documentRepo := repository.NewDocumentRepository(store)
	reportRepo := repository.NewReportRepository(store)

	userSvc := service.NewUserService(userRepo, zlog)
	propertySvc := service.NewPropertyService(store, propertyRepo, purchaseRepo, loanRepo, cache, zlog)
	purchaseSvc := service.NewPurchaseService(store, purchaseRepo, propertyRepo, invoiceRepo, loanRepo, cache, zlog)
	invoiceSvc := service.NewInvoiceService(store, invoiceRepo, purchaseRepo, paymentRepo, cache, zlog)
	loanSvc := service.NewLoanService(store, loanRepo, purchaseRepo, sourceRepo, paymentRepo, repaymentRepo, cache, zlog)
	sourceSvc := service.NewPaymentSourceService(store, sourceRepo, paymentRepo, repaymentRepo, zlog)
	paymentSvc := service.NewPaymentService(store, paymentRepo, invoiceRepo, sourceRepo, loanRepo, cache, zlog)
	repaymentSvc := service.NewRepaymentService(store, repaymentRepo, loanRepo, sourceRepo, paymentRepo, cache, zlog)
	documentSvc := service.NewDocumentService(documentRepo, propertyRepo, purchaseRepo, zlog)
	reportSvc := service.NewReportService(reportRepo, purchaseRepo, loanRepo, paymentRepo, invoiceRepo, cache, cfg.Report.CacheTTL, zlog)

	router := setupRoutes(routeDeps{
		user:      handler.NewUserHandler(userSvc),
		property:  handler.NewPropertyHandler(propertySvc),
		purchase:  handler.NewPurchaseHandler(purchaseSvc),
		invoice:   handler.NewInvoiceHandler(invoiceSvc),
		loan:      handler.NewLoanHandler(loanSvc),
		source:    handler.NewPaymentSourceHandler(sourceSvc),
		payment:   handler.NewPaymentHandler(paymentSvc),
		repayment: handler.NewRepaymentHandler(repaymentSvc),
		document:  handler.NewDocumentHandler(documentSvc),
		report:    handler.NewReportHandler(reportSvc),
		health:    handler.NewHealthHandler(db, redisClient),
	}, zlog)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

type routeDeps struct {
	user      *handler.UserHandler
	property  *handler.PropertyHandler
	purchase  *handler.PurchaseHandler
	invoice   *handler.InvoiceHandler
	loan      *handler.LoanHandler
	source    *handler.PaymentSourceHandler
	payment   *handler.PaymentHandler
	repayment *handler.RepaymentHandler
	document  *handler.DocumentHandler
	report    *handler.ReportHandler
	health    *handler.HealthHandler
}

func setupRoutes(d routeDeps, zlog *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", d.health.Health).Methods("GET")
	router.HandleFunc("/health/ready", d.health.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(response.LoggingMiddleware(zlog))
	api.Use(response.MetricsMiddleware)
	api.Use(response.JSONMiddleware)
	api.Use(response.CORSMiddleware)

	api.HandleFunc("/users", d.user.Create).Methods("POST")
	api.HandleFunc("/users/{userId}", d.user.Get).Methods("GET")

	api.HandleFunc("/properties", d.property.Create).Methods("POST")
	api.HandleFunc("/properties", d.property.List).Methods("GET")
	api.HandleFunc("/properties/{propertyId}", d.property.Get).Methods("GET")
	api.HandleFunc("/properties/{propertyId}", d.property.Update).Methods("PATCH")
	api.HandleFunc("/properties/{propertyId}", d.property.Delete).Methods("DELETE")

	api.HandleFunc("/purchases", d.purchase.Create).Methods("POST")
	api.HandleFunc("/purchases", d.purchase.List).Methods("GET")
	api.HandleFunc("/purchases/{purchaseId}", d.purchase.Get).Methods("GET")
	api.HandleFunc("/purchases/{purchaseId}", d.purchase.Update).Methods("PATCH")
	api.HandleFunc("/purchases/{purchaseId}", d.purchase.Delete).Methods("DELETE")

	api.HandleFunc("/invoices", d.invoice.Create).Methods("POST")
	api.HandleFunc("/invoices", d.invoice.List).Methods("GET")
	api.HandleFunc("/invoices/{invoiceId}", d.invoice.Get).Methods("GET")
	api.HandleFunc("/invoices/{invoiceId}", d.invoice.Update).Methods("PATCH")
	api.HandleFunc("/invoices/{invoiceId}", d.invoice.Delete).Methods("DELETE")

	api.HandleFunc("/loans", d.loan.Create).Methods("POST")
	api.HandleFunc("/loans", d.loan.List).Methods("GET")
	api.HandleFunc("/loans/{loanId}", d.loan.Get).Methods("GET")
	api.HandleFunc("/loans/{loanId}", d.loan.Update).Methods("PATCH")
	api.HandleFunc("/loans/{loanId}", d.loan.Delete).Methods("DELETE")

	api.HandleFunc("/payment-sources", d.source.Create).Methods("POST")
	api.HandleFunc("/payment-sources", d.source.List).Methods("GET")
	api.HandleFunc("/payment-sources/{sourceId}", d.source.Get).Methods("GET")
	api.HandleFunc("/payment-sources/{sourceId}", d.source.Update).Methods("PATCH")
	api.HandleFunc("/payment-sources/{sourceId}", d.source.Delete).Methods("DELETE")

	api.HandleFunc("/payments", d.payment.Create).Methods("POST")
	api.HandleFunc("/payments", d.payment.List).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", d.payment.Get).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", d.payment.Update).Methods("PATCH")
	api.HandleFunc("/payments/{paymentId}", d.payment.Delete).Methods("DELETE")

	api.HandleFunc("/loan-repayments", d.repayment.Create).Methods("POST")
	api.HandleFunc("/loan-repayments", d.repayment.List).Methods("GET")
	api.HandleFunc("/loan-repayments/{repaymentId}", d.repayment.Get).Methods("GET")
	api.HandleFunc("/loan-repayments/{repaymentId}", d.repayment.Update).Methods("PATCH")
	api.HandleFunc("/loan-repayments/{repaymentId}", d.repayment.Delete).Methods("DELETE")

	api.HandleFunc("/documents", d.document.Create).Methods("POST")
	api.HandleFunc("/documents", d.document.List).Methods("GET")
	api.HandleFunc("/documents/{documentId}", d.document.Get).Methods("GET")
	api.HandleFunc("/documents/{documentId}", d.document.Delete).Methods("DELETE")

	api.HandleFunc("/reports/purchases/{purchaseId}/acquisition-cost", d.report.AcquisitionCostDetail).Methods("GET")
	api.HandleFunc("/reports/purchases/{purchaseId}/acquisition-cost/summary", d.report.AcquisitionCostSummary).Methods("GET")
	api.HandleFunc("/reports/purchases/{purchaseId}/acquisition-cost/export", d.report.ExportAcquisitionCostDetail).Methods("GET")
	api.HandleFunc("/reports/loans/{loanId}/repayments", d.report.LoanRepaymentDetail).Methods("GET")
	api.HandleFunc("/reports/loans/{loanId}/repayments/summary", d.report.LoanRepaymentSummary).Methods("GET")
	api.HandleFunc("/reports/loans/{loanId}/repayments/export", d.report.ExportLoanRepaymentDetail).Methods("GET")

	return router
}
