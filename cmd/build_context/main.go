package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"seedpipeline/internal/config"
	"seedpipeline/internal/logging"
	"seedpipeline/pipeline"
	"seedpipeline/websearch"
	"seedpipeline/websearch/providers"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	runDir := flag.String("run", "", "existing run directory from the matching phase")
	matchesPath := flag.String("matches", "", "match table path (default: <run>/analysis/matched_varieties.json)")
	flag.Parse()

	if *runDir == "" {
		log.Fatalf("-run is required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	run, err := pipeline.OpenRunDir(*runDir)
	if err != nil {
		log.Fatalf("Failed to open run directory: %v", err)
	}

	path := *matchesPath
	if path == "" {
		path = run.Analysis("matched_varieties.json")
	}
	matches, err := pipeline.LoadMatches(path)
	if err != nil {
		log.Fatalf("Failed to load match table: %v", err)
	}

	webRate := time.Duration(float64(time.Second) / cfg.SearchRatePerSecond)
	scholarRate := time.Duration(float64(time.Second) / cfg.ScholarRatePerSecond)
	web := providers.NewGoogleProvider(cfg.GoogleSearchAPIKey, cfg.GoogleSearchEngineID,
		30*time.Second, webRate)
	scholar := providers.NewScholarProvider(30*time.Second, scholarRate)
	builder := websearch.NewContextBuilder(web, scholar, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contexts, err := pipeline.NewContextPhase(builder, logger).Run(ctx, run, matches)
	if err != nil {
		log.Fatalf("Context building failed: %v", err)
	}
	log.Printf("Built %d research contexts under %s", len(contexts), run.Root)
}
