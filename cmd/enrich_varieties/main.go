package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"seedpipeline/enrichment"
	"seedpipeline/internal/config"
	"seedpipeline/internal/logging"
	"seedpipeline/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	runDir := flag.String("run", "", "existing run directory with research contexts")
	flag.Parse()

	if *runDir == "" {
		log.Fatalf("-run is required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatalf("GEMINI_API_KEY is required for enrichment")
	}
	logger := logging.New(cfg.LogLevel)

	run, err := pipeline.OpenRunDir(*runDir)
	if err != nil {
		log.Fatalf("Failed to open run directory: %v", err)
	}
	matches, err := pipeline.LoadMatches(run.Analysis("matched_varieties.json"))
	if err != nil {
		log.Fatalf("Failed to load match table: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	synth, err := enrichment.NewGeminiSynthesizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create synthesizer: %v", err)
	}
	runner := enrichment.NewRunner(synth, cfg.EnrichmentWorkers, cfg.SearchRatePerSecond, logger)

	stats, err := pipeline.NewEnrichPhase(runner, logger).Run(ctx, run, matches)
	if err != nil {
		log.Fatalf("Enrichment failed: %v", err)
	}
	log.Printf("Enrichment complete: %d processed, %d successful, %d failed",
		stats.Processed, stats.Successful, stats.Failed)
}
