package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-shop/config"
	"github.com/aluiziolira/go-scrape-shop/models"
	"github.com/aluiziolira/go-scrape-shop/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	builtinBase := defaultCfg.BaseURL

	baseURLDefault := defaultCfg.BaseURL
	if value, ok := config.EnvString("SHOP_SCRAPER_BASE_URL"); ok {
		baseURLDefault = value
	}
	outputDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("SHOP_SCRAPER_OUTPUT_DIR"); ok {
		outputDefault = value
	}
	settleDefault := defaultCfg.SettleDelay
	if value, ok, err := config.EnvDuration("SHOP_SCRAPER_SETTLE"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SHOP_SCRAPER_SETTLE: %v\n", err)
		os.Exit(1)
	} else if ok {
		settleDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SHOP_SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", baseURLDefault, "Base listing URL to scrape")
	outputDir := flag.String("output-dir", outputDefault, "Directory for the per-category CSV files")
	targetsFile := flag.String("targets", "", "YAML file overriding the built-in category list")
	logFile := flag.String("log-file", defaultCfg.LogFile, "Log file path (log also goes to stdout)")
	settle := flag.Duration("settle", settleDefault, "Post-navigation settle delay")
	reappearWait := flag.Duration("reappear-wait", defaultCfg.ReappearTimeout, "Bounded wait for the load-more control to reappear")
	headless := flag.Bool("headless", defaultCfg.Headless, "Run Chrome headless")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, logClose, err := newLogger(*logFile, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logClose()
	slog.SetDefault(logger)

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.OutputDir = *outputDir
	cfg.LogFile = *logFile
	cfg.SettleDelay = *settle
	cfg.ReappearTimeout = *reappearWait
	cfg.Headless = *headless
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if cfg.BaseURL != builtinBase && *targetsFile == "" {
		targets, err := config.DefaultTargets(cfg.BaseURL)
		if err != nil {
			slog.Error("building category table", slog.Any("error", err))
			os.Exit(1)
		}
		cfg.Targets = targets
	}
	if *targetsFile != "" {
		targets, err := config.LoadTargets(*targetsFile)
		if err != nil {
			slog.Error("loading targets file", slog.Any("error", err))
			os.Exit(1)
		}
		cfg.Targets = targets
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("targets", len(cfg.Targets)),
		slog.String("output_dir", cfg.OutputDir),
	)

	runner, err := scraper.NewRunner(cfg)
	if err != nil {
		slog.Error("initialising runner", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && runner.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(runner.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := runner.Run(ctx)
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result)
}

func printSummary(result *models.RunResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Categories:    %d\n", result.TargetCount)
	fmt.Printf("  Products:      %d\n", result.ProductCount)
	fmt.Printf("  Expansions:    %d\n", result.ExpansionCount)
	for file, count := range result.ProductsPerFile {
		fmt.Printf("    %-14s %d\n", file, count)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Println(separator)
}

// newLogger builds a text slog handler writing to both stdout and the
// log file.
func newLogger(logFile string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, f), &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { f.Close() }, nil
}
