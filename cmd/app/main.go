// File: cmd/app/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"vector-doc-search/internal/config"
	"vector-doc-search/internal/domain/ports/repository"
	aiAdapters "vector-doc-search/internal/infra/adapters/ai"
	"vector-doc-search/internal/infra/logging"
	"vector-doc-search/internal/infra/metrics"
	red "vector-doc-search/internal/infra/redis"
	"vector-doc-search/internal/infra/web"
	"vector-doc-search/internal/usecase"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	runLog := logging.With(ctx, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		runLog.Warn().Str("signal", sig.String()).Msg("shutting down, cleanup will still run")
		cancel()
	}()

	// ---- Upload cache (optional) ----
	var cache repository.UploadCacheRepository
	if cfg.Redis.URL != "" {
		rc, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			runLog.Warn().Err(err).Msg("redis unavailable, upload reuse disabled")
		} else {
			defer rc.Close()
			cache = red.NewUploadCache(rc, cfg.Redis.TTL)
		}
	}

	// ---- Service adapter ----
	svc, err := aiAdapters.NewAzureOpenAIAdapter(&cfg.AI)
	if err != nil {
		log.Fatalf("azure openai adapter: %v", err)
	}

	// ---- Admin server ----
	tracker := usecase.NewStatusTracker(runID)
	adminSrv := web.NewServer(cfg.Admin.Port, cfg.Admin.APIKey, tracker, logger)
	go func() {
		if err := adminSrv.Start(); err != nil {
			runLog.Error().Err(err).Msg("admin server")
		}
	}()

	// ---- Use cases ----
	poller := usecase.NewPoller(cfg.Ingest.PollInterval, cfg.Ingest.PollTimeout, logger)
	ingestUC := usecase.NewIngestUseCase(svc, cache, poller, tracker, cfg.Ingest,
		cfg.AI.UploadedFileID, aiAdapters.EstimateTokens, logger)
	queryUC := usecase.NewQueryUseCase(svc, cfg.AI.Deployment, cfg.Query, logger)
	cleanupUC := usecase.NewCleanupUseCase(svc, logger)

	exitCode := 0
	var targets usecase.CleanupTargets

	res, err := ingestUC.Ingest(ctx)
	if err != nil {
		tracker.Fail(err)
		runLog.Error().Err(err).Msg("ingestion failed")
		exitCode = 1
	}

	if res != nil {
		targets.StoreIDs = []string{res.Store.ID}
		// A fresh upload without a cache is disposable; anything reused or
		// cached must survive this run.
		if !res.Reused && cache == nil {
			targets.FileID = res.File.ID
		}

		tracker.SetPhase(usecase.PhaseQuerying)
		ans, err := queryUC.Ask(ctx, res.Store.ID, "")
		if err != nil {
			tracker.Fail(err)
			runLog.Error().Err(err).Msg("query failed")
			exitCode = 1
		} else {
			targets.ResponseIDs = []string{ans.ResponseID}
			out, _ := json.MarshalIndent(ans, "", "  ")
			fmt.Println(string(out))
		}
	}

	// Cleanup runs on a detached context so a cancelled run still deletes
	// what it created.
	tracker.SetPhase(usecase.PhaseCleanup)
	cctx, ccancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer ccancel()
	if err := cleanupUC.Cleanup(cctx, targets); err != nil {
		runLog.Error().Err(err).Msg("cleanup incomplete")
	}

	if exitCode == 0 {
		tracker.SetPhase(usecase.PhaseDone)
		runLog.Info().Msg("run finished")
	}

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	if err := adminSrv.Shutdown(sctx); err != nil {
		runLog.Error().Err(err).Msg("admin server shutdown")
	}

	os.Exit(exitCode)
}
