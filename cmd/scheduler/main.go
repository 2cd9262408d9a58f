package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/config"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/logger"
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

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	store := repository.NewDB(db)
	reportSvc := service.NewReportService(
		repository.NewReportRepository(store),
		repository.NewPurchaseRepository(store),
		repository.NewLoanRepository(store),
		repository.NewPaymentRepository(store),
		repository.NewInvoiceRepository(store),
		service.NewNoopCache(),
		cfg.Report.CacheTTL,
		zlog,
	)

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		zlog.Fatal("Invalid scheduler timezone", zap.Error(err))
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.Scheduler.InvoiceStatusCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		n, err := reportSvc.SweepOverdueInvoices(ctx, time.Now().In(loc))
		if err != nil {
			zlog.Error("Overdue invoice sweep failed", zap.Error(err))
			return
		}
		zlog.Info("Overdue invoice sweep finished", zap.Int("updated", n))
	})
	if err != nil {
		zlog.Fatal("Failed to schedule invoice status job", zap.Error(err))
	}

	c.Start()
	zlog.Info("Scheduler started", zap.String("cron", cfg.Scheduler.InvoiceStatusCron))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	zlog.Info("Scheduler stopped")
}
