package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rohanverma/upq/internal/config"
	"github.com/rohanverma/upq/internal/engine"
	"github.com/rohanverma/upq/internal/logger"
	"github.com/rohanverma/upq/internal/repository"
	"github.com/rohanverma/upq/internal/tui"
	"github.com/rohanverma/upq/internal/upload"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	endpoint := flag.String("endpoint", "", "Upload endpoint URL (overrides config)")
	concurrent := flag.Int("concurrent", 0, "Max concurrent uploads (overrides config)")
	paused := flag.Bool("paused", false, "Add files without starting them")
	flag.Parse()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting home directory: %v\n", err)
	}

	dataDir := filepath.Join(homeDir, ".upq")

	err = os.MkdirAll(dataDir, 0o755)
	if err != nil {
		log.Fatalf("Error creating data directory: %v\n", err)
	}

	err = logger.InitLogging(*debug, filepath.Join(dataDir, "upq.log"))
	if err != nil {
		log.Fatalf("Warning: Failed to initialize logging: %v\n", err)
	}
	defer logger.Close()

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	if *endpoint != "" {
		cfg.Upload.Endpoint = *endpoint
	}

	if *concurrent > 0 {
		cfg.MaxConcurrentUploads = *concurrent
	}

	repo, err := repository.NewBboltRepository(filepath.Join(dataDir, "upq.db"))
	if err != nil {
		log.Fatalf("Error creating repository: %v\n", err)
	}

	eng := engine.NewEngine(repo, cfg, !*paused)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = eng.Start(ctx)
	if err != nil {
		log.Fatalf("Error starting engine: %v\n", err)
	}

	if paths := flag.Args(); len(paths) > 0 {
		_, err = eng.AddFiles(ctx, paths, upload.DefaultOptions())
		if err != nil {
			logger.Errorf("Error adding files: %v", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err = tui.Run(ctx, eng)
	if err != nil {
		logger.Errorf("TUI Error: %v\n", err)
	}

	logger.Infof("TUI has exited. Shutting down engine...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err = eng.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error during engine shutdown: %v", err)
	}

	eng.Wait()
	logger.Infof("Shutdown complete.")
}
