package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"seedpipeline/enrichment"
	"seedpipeline/internal/config"
	"seedpipeline/internal/logging"
	"seedpipeline/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	runDir := flag.String("run", "", "existing run directory with enriched batches")
	statsPath := flag.String("stats", "", "optional enrichment stats JSON to embed in the summary report")
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

	var stats *enrichment.Stats
	if *statsPath != "" {
		data, err := os.ReadFile(*statsPath)
		if err != nil {
			log.Fatalf("Failed to read stats file: %v", err)
		}
		stats = &enrichment.Stats{}
		if err := json.Unmarshal(data, stats); err != nil {
			log.Fatalf("Failed to parse stats file: %v", err)
		}
	}

	report, err := pipeline.NewGeneratePhase(cfg, logger).Run(run, stats)
	if err != nil {
		log.Fatalf("Database generation failed: %v", err)
	}
	log.Printf("Final database generated: %d rows (from %d), store at %s",
		report.FinalRowCount, report.InitialRowCount, cfg.DatabasePath)
}
