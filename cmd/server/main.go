package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prasetyadi/graphmail-pipeline/internal/api"
	"github.com/prasetyadi/graphmail-pipeline/internal/config"
	"github.com/prasetyadi/graphmail-pipeline/internal/database"
	"github.com/prasetyadi/graphmail-pipeline/internal/graph"
	"github.com/prasetyadi/graphmail-pipeline/internal/ledger"
	"github.com/prasetyadi/graphmail-pipeline/internal/logger"
	"github.com/prasetyadi/graphmail-pipeline/internal/mailer"
	"github.com/prasetyadi/graphmail-pipeline/internal/poller"
	"github.com/prasetyadi/graphmail-pipeline/internal/processor"
	"github.com/prasetyadi/graphmail-pipeline/internal/reporter"
	"github.com/prasetyadi/graphmail-pipeline/internal/scheduler"
	"github.com/prasetyadi/graphmail-pipeline/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)
	cfg.LogConfig(log)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db, cfg.TableName); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	staging, err := storage.NewLocalStore(cfg.StagingDir)
	if err != nil {
		log.Error("failed to create staging store", "error", err)
		os.Exit(1)
	}

	var tokens graph.TokenProvider
	if cfg.StaticToken != "" {
		log.Info("using static token override")
		tokens = graph.NewStaticTokenProvider(cfg.StaticToken)
	} else {
		tokens = graph.NewClientCredentialsProvider(cfg.TenantID, cfg.ClientID, cfg.ClientSecret)
	}

	mail := graph.NewClient(tokens, staging, graph.ClientConfig{
		BaseURL:     cfg.GraphBaseURL,
		MessagesURL: cfg.GraphMessagesURL,
		Hostname:    cfg.GraphHostname,
		Logger:      log,
	})

	repo := ledger.NewRepository(db, cfg.TableName)

	svc := processor.NewService(mail, repo, staging, processor.Config{
		SiteName:    cfg.SiteName,
		DriveFolder: cfg.DriveFolder,
	}, log)

	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.AppPassword, cfg.ToEmail, log)

	poll := poller.New(mail, cfg.ProcessorURL, cfg.EmailFilter, cfg.APIKey, log)
	report := reporter.New(repo, sender, cfg.StagingDir, cfg.ExcelFileName, log)

	sched := scheduler.New(log)
	if err := sched.Add("poll-inbox", cfg.PollSchedule, func(ctx context.Context) error {
		_, err := poll.Run(ctx)
		return err
	}); err != nil {
		log.Error("failed to schedule poller", "error", err)
		os.Exit(1)
	}
	if err := sched.Add("attachment-report", cfg.ReportSchedule, report.Run); err != nil {
		log.Error("failed to schedule reporter", "error", err)
		os.Exit(1)
	}

	e := api.NewRouter(&api.RouterConfig{
		DB:        db,
		Processor: svc,
		Logger:    log,
		APIKey:    cfg.APIKey,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sched.Start()
	log.Info("pipeline started", "api_port", cfg.APIPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	<-sched.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	log.Info("pipeline stopped")
}
