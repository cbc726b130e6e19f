package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"claimos/internal/config"
	"claimos/internal/doctrust"
	"claimos/internal/email/noop"
	"claimos/internal/email/ses"
	"claimos/internal/extractor/claude"
	"claimos/internal/flow"
	"claimos/internal/handler"
	"claimos/internal/lock/redislock"
	"claimos/internal/port"
	"claimos/internal/repository/postgres"
	"claimos/internal/requirements"
	"claimos/internal/router"
	"claimos/internal/rules"
	"claimos/internal/service"
	s3storage "claimos/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	stateRepo := postgres.NewFlowStateRepo(db)
	docRepo := postgres.NewClaimDocumentRepo(db)
	claimRepo := postgres.NewClaimRepo(db)
	answerRepo := postgres.NewAnswerRepo(db)
	coverageRepo := postgres.NewCoverageRepo(db)

	// Initialize storage and the session lock
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	sessionLock := redislock.NewRedisLock(redisClient)

	// Initialize email
	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		emailSender = noop.NewNoopSender()
	}

	// Initialize the model client and trust pipeline
	claudeClient := claude.NewClient(&cfg.Extractor)
	trust := doctrust.NewPipeline(claudeClient)

	// Initialize the intake flow
	states := flow.NewStateManager(stateRepo)
	engine := rules.NewEngine(rules.DefaultRules()...)
	registry := requirements.NewRegistry(requirements.DefaultSource(), cfg.Intake.RequirementsCacheTTL)
	orchestrator := flow.NewOrchestrator(states,
		flow.NewCategorizationHandler(states, claudeClient, coverageRepo),
		flow.NewQuestioningHandler(states, coverageRepo, answerRepo, engine, registry),
		flow.NewDocumentsHandler(states, docRepo, engine),
		flow.NewValidationHandler(states, docRepo, coverageRepo, engine, registry),
		flow.NewFinalizationHandler(states, claimRepo, answerRepo, docRepo, emailSender, cfg.Email.NotifyAddr, cfg.Email.NotifyName),
	)

	// Initialize services
	intakeSvc := service.NewIntakeService(orchestrator, sessionLock, cfg.Intake.SessionLockTTL)
	docSvc := service.NewDocumentService(docRepo, stateRepo, s3Client, trust,
		cfg.S3.Bucket, cfg.S3.MaxFileSizeMB, cfg.S3.PresignExpiry)
	claimSvc := service.NewClaimService(claimRepo, docRepo, answerRepo)

	// Initialize handlers
	intakeH := handler.NewIntakeHandler(intakeSvc)
	docH := handler.NewDocumentHandler(docSvc)
	claimH := handler.NewClaimHandler(claimSvc)
	healthH := handler.NewHealthHandler(db, redisClient)

	r := router.Setup(intakeH, docH, claimH, healthH, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the document worker
	worker := service.NewDocumentWorker(docRepo, docSvc, service.DocumentWorkerConfig{
		PollInterval: time.Duration(cfg.Worker.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Worker.MaxRetries,
		Concurrency:  cfg.Worker.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	return nil
}
