package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/care-scheduler/internal/db"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/handlers"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/metrics"
	"github.com/BruksfildServices01/care-scheduler/internal/routes"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
	"github.com/BruksfildServices01/care-scheduler/internal/tracer"
	ucAppointment "github.com/BruksfildServices01/care-scheduler/internal/usecase/appointment"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {

	// ======================================================
	// TRACING
	// ======================================================
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	db, err := dbpkg.NewDB(cfg.Database, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector("care_scheduler", reg)

	var slotCache ucAppointment.SlotCache = cache.NopSlotCache{}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		slotCache = cache.NewRedisSlotCache(client, cfg.Redis.SlotTTL)
		log.Info("slot cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log, m)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	serviceTypeRepo := infraRepo.NewServiceTypeGormRepository(db)
	clock := timezone.NewSystemClock(cfg.Scheduling.Timezone)

	// ======================================================
	// USE CASES
	// ======================================================
	svc := ucAppointment.NewService(ucAppointment.Deps{
		Appointments: appointmentRepo,
		Catalog:      serviceTypeRepo,
		Ratings:      infraRepo.NewRatingGormRepository(db),
		Tx:           infraRepo.NewGormTransactor(db, cfg.Scheduling.TxTimeout),
		Clock:        clock,
		Policy:       policyFrom(cfg.Scheduling),
		Cache:        slotCache,
		Audit:        auditDispatcher,
		Log:          log,
		Metrics:      m,
	})

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	routes.RegisterRoutes(r, routes.Handlers{
		Appointments: handlers.NewAppointmentHandler(svc, clock),
		ServiceTypes: handlers.NewServiceTypeHandler(serviceTypeRepo),
		AuditLogs:    handlers.NewAuditLogsHandler(auditLogger, clock.Location()),
	}, routes.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         log,
		Metrics:     m,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}

	auditDispatcher.Shutdown()

	if err := tp.Shutdown(ctx); err != nil {
		log.Error("tracer shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func policyFrom(s config.SchedulingConfig) domain.Policy {
	return domain.Policy{
		SlotDayStartHour: s.SlotDayStartHour,
		SlotDayEndHour:   s.SlotDayEndHour,
		MinSlot:          s.MinSlot,
		BookingLeadTime:  s.BookingLeadTime,
		OpenHour:         s.OpenHour,
		CloseHour:        s.CloseHour,
		MinDuration:      s.MinDuration,
		MaxDuration:      s.MaxDuration,
		CancelWindow:     s.CancelWindow,
	}
}
