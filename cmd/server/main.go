package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codearena/internal/api"
	"codearena/internal/app/judge"
	"codearena/internal/app/service"
	"codearena/internal/app/worker"
	"codearena/internal/common/security"
	"codearena/internal/domain/repository"
	"codearena/internal/platform/config"
	"codearena/internal/platform/database"
	"codearena/internal/platform/logger"
	"codearena/internal/platform/queue"

	"go.uber.org/zap"
)

func main() {
	config.Load()
	logger.Init(os.Getenv("APP_ENV") != "production")
	defer logger.Sync()
	log := logger.L()

	security.InitJWT()

	database.Connect()
	defer database.Close()

	queue.ConnectRedis()
	defer queue.CloseRedis()

	cfg := config.AppConfig

	userRepo := repository.NewPgUserRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	judgeClient := judge.NewClient(judge.ClientConfig{
		BaseURL:         cfg.JudgeURL,
		AuthToken:       cfg.JudgeAuthToken,
		LanguageIDs:     cfg.LanguageIDs,
		CPUTimeLimitSec: cfg.JudgeCPUTimeLimitSec,
		MemoryLimitKb:   cfg.JudgeMemoryLimitKb,
	})
	judgePoller := judge.NewPoller(judge.PollerConfig{
		BaseURL:   cfg.JudgeURL,
		AuthToken: cfg.JudgeAuthToken,
		Interval:  cfg.JudgePollInterval,
		Attempts:  cfg.JudgePollAttempts,
	})
	evaluator := judge.NewEvaluator(judgeClient, judgePoller, cfg.EvalWorkers, cfg.EvalTimeout, log)

	authService := service.NewAuthService(userRepo)
	taskService := service.NewTaskService(taskRepo, database.DB)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, contestRepo, queue.RDB, database.DB, log)
	evaluationService := service.NewEvaluationService(submissionRepo, taskRepo, contestRepo, evaluator, database.DB, log)
	contestService := service.NewContestService(contestRepo, submissionRepo, taskRepo, database.DB, log)

	evaluationWorker := worker.NewEvaluationWorker(queue.RDB, evaluationService, log)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go evaluationWorker.Start(workerCtx)

	router := api.NewRouter(authService, taskService, submissionService, contestService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server listen failed", zap.Error(err))
		}
	}()

	<-stop

	log.Info("shutting down")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}

	log.Info("server and worker stopped")
}
