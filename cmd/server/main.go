package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"seedpipeline/database"
	"seedpipeline/internal/config"
	"seedpipeline/internal/logging"
	"seedpipeline/server"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	dbPath := flag.String("db", "", "final variety database path")
	port := flag.String("port", "", "listen port")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *port != "" {
		cfg.Port = *port
	}
	logger := logging.New(cfg.LogLevel)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", cfg.DatabasePath, err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(db, cfg, logger)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
