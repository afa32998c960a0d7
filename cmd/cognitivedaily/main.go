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

	"go.uber.org/zap"

	"github.com/ar2745/cognitive-daily/internal/cache"
	"github.com/ar2745/cognitive-daily/internal/config"
	"github.com/ar2745/cognitive-daily/internal/llm"
	"github.com/ar2745/cognitive-daily/internal/repository"
	"github.com/ar2745/cognitive-daily/internal/server"
	"github.com/ar2745/cognitive-daily/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	planRepo := repository.NewDailyPlanRepository(db)

	recentPlans := cache.NewRecentPlans(cfg.RecentPlanLimit)
	reconciler := service.NewReconciler(taskRepo, userRepo, logger)
	taskSvc := service.NewTaskService(taskRepo)
	planSvc := service.NewPlanService(planRepo, taskRepo, userRepo, recentPlans, reconciler, logger)
	aiSvc := service.NewAIService(
		llm.NewOpenAIClient(cfg.AI),
		llm.NewOllamaClient(cfg.AI),
		recentPlans,
		logger,
	)

	sweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := planSvc.ReconcileToday(jobCtx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("reconciliation sweep failed", zap.Error(err))
		}
	}

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ReconcileInterval, sweep); err != nil {
		logger.Fatal("schedule reconciliation sweep", zap.Error(err))
	}
	if cfg.ReconcileDailyAt != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReconcileDailyAt, sweep); err != nil {
			logger.Fatal("schedule nightly sweep", zap.Error(err))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	api := server.New(taskSvc, planSvc, aiSvc, userRepo, server.BearerUUIDIdentity, logger)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("cognitive daily server started", zap.String("addr", cfg.ListenAddr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
