package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roadmetrics/traffic.report/internal/api"
	"github.com/roadmetrics/traffic.report/internal/clipdb"
	"github.com/roadmetrics/traffic.report/internal/config"
	"github.com/roadmetrics/traffic.report/internal/pipeline"
	"github.com/roadmetrics/traffic.report/internal/units"
	"github.com/roadmetrics/traffic.report/internal/version"
)

var (
	dbPath     = flag.String("db", "clips.db", "Path to the clip database")
	listen     = flag.String("listen", ":8080", "Listen address for serve mode")
	configPath = flag.String("config", "", "Path to a tuning config JSON file (defaults to the built-in config)")
	outDir     = flag.String("out", "reports", "Directory for report artifacts")
	logDir     = flag.String("logdir", "logs", "Directory detection logs are read from")
	workers    = flag.Int("workers", 4, "Concurrent clips in process mode")
	unitsFlag  = flag.String("units", units.KMPH, "Default display units (kmph, mph, mps)")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: traffic-report [flags] <command>

Commands:
  process <path>...   Process detection logs (files or directories)
  serve               Run the HTTP API server
  version             Print version information

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	if args[0] == "version" {
		fmt.Println(version.String())
		return
	}

	if !units.IsValid(*unitsFlag) {
		log.Fatalf("invalid units %q, must be one of: %s", *unitsFlag, units.ValidUnitsString())
	}

	cfg, err := loadTuning(*configPath)
	if err != nil {
		log.Fatalf("failed to load tuning config: %v", err)
	}

	db, err := clipdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	runner := pipeline.NewRunner(cfg, db, *outDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "process":
		if err := runProcess(ctx, runner, args[1:], *workers); err != nil {
			log.Fatalf("process failed: %v", err)
		}
	case "serve":
		if err := runServe(ctx, db, runner); err != nil {
			log.Fatalf("serve failed: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.MustLoadDefaultConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

func runServe(ctx context.Context, db *clipdb.DB, runner *pipeline.Runner) error {
	mux := api.NewServer(db, runner, *logDir, *unitsFlag).ServeMux()

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("traffic-report %s listening on %s", version.Version, *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("graceful shutdown complete")
	return nil
}
