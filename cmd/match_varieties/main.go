package main

import (
	"flag"
	"log"

	"seedpipeline/internal/config"
	"seedpipeline/internal/logging"
	"seedpipeline/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	cscFile := flag.String("csc", "", "CSC gazette extraction table (CSV or XLSX)")
	seednetFile := flag.String("seednet", "", "SeedNet registry table (CSV or XLSX)")
	outDir := flag.String("out", "", "base output directory")
	threshold := flag.Int("threshold", 0, "minimum similarity score for MATCHED")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *cscFile != "" {
		cfg.CSCFile = *cscFile
	}
	if *seednetFile != "" {
		cfg.SeedNetFile = *seednetFile
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *threshold > 0 {
		cfg.MatchThreshold = *threshold
	}

	logger := logging.New(cfg.LogLevel)

	run, err := pipeline.NewRunDir(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Failed to create run directory: %v", err)
	}
	log.Printf("Run directory: %s", run.Root)

	matches, err := pipeline.NewMatchPhase(cfg, logger).Run(run)
	if err != nil {
		log.Fatalf("Matching failed: %v", err)
	}
	log.Printf("Matched %d records, results under %s", len(matches), run.Root)
}
