package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vertextoedge/vidfetch/internal/adapter/filesystem"
	"github.com/vertextoedge/vidfetch/internal/adapter/httpclient"
	"github.com/vertextoedge/vidfetch/internal/adapter/sqlite"
	"github.com/vertextoedge/vidfetch/internal/config"
	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/domain/event"
	"github.com/vertextoedge/vidfetch/internal/logger"
	"github.com/vertextoedge/vidfetch/internal/service/history"
	"github.com/vertextoedge/vidfetch/internal/service/session"
	"github.com/vertextoedge/vidfetch/internal/service/transfer"
)

const version = "0.1.0"

// Exit codes
const (
	exitOK       = 0
	exitFailure  = 1
	exitCanceled = 130
)

type options struct {
	configPath  string
	dir         string
	logLevel    string
	listHistory bool
	showVersion bool
	url         string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("vidfetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (optional)")
	fs.StringVar(&opts.dir, "dir", "", "Destination directory (overrides download.default_dir)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.listHistory, "history", false, "List recent downloads and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: vidfetch [flags] URL\n       vidfetch -history\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.showVersion || opts.listHistory {
		return opts, nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("exactly one URL is required")
	}
	opts.url = fs.Arg(0)
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "vidfetch %s\n", version)
		return exitOK
	}

	// Load configuration
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitFailure
	}
	if opts.dir != "" {
		cfg.Download.DefaultDir = opts.dir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()
	zapLogger.Debug("starting vidfetch",
		zap.String("version", version),
		zap.String("config", opts.configPath))

	// Open history
	var historyService *history.Service
	if cfg.History.Enabled {
		store, err := sqlite.Open(cfg.History.Path)
		if err != nil {
			// History is optional; a broken database must not block downloads
			zapLogger.Warn("failed to open history database",
				zap.String("path", cfg.History.Path),
				zap.Error(err))
		} else {
			defer store.Close()
			historyService = history.New(&history.Config{
				MaxAge:    cfg.History.GetMaxAge(),
				ListLimit: cfg.History.ListLimit,
			}, store, zapLogger)
			historyService.Prune()
		}
	}

	if opts.listHistory {
		if historyService == nil {
			fmt.Fprintln(stderr, "Download history is disabled")
			return exitFailure
		}
		records, err := historyService.Recent()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read history: %v\n", err)
			return exitFailure
		}
		total, err := historyService.Total()
		if err != nil {
			zapLogger.Warn("failed to count history", zap.Error(err))
			total = len(records)
		}
		printHistory(stdout, records, total)
		return exitOK
	}

	// Wire events
	dispatcher := event.NewInMemoryDispatcher(zapLogger)
	dispatcher.Subscribe(event.NewLoggingHandler(zapLogger))
	metrics := event.NewMetricsHandler()
	dispatcher.Subscribe(metrics)
	if historyService != nil {
		dispatcher.Subscribe(historyService.Recorder())
	}

	client := httpclient.New(httpclient.Options{
		DialTimeout:           cfg.HTTP.GetDialTimeout(),
		TLSHandshakeTimeout:   cfg.HTTP.GetTLSHandshakeTimeout(),
		ResponseHeaderTimeout: cfg.HTTP.GetResponseHeaderTimeout(),
		IdleConnTimeout:       cfg.HTTP.GetIdleConnTimeout(),
		Timeout:               cfg.HTTP.GetTimeout(),
	}, zapLogger)

	engine := transfer.NewEngine(client, filesystem.NewOSManager(), transfer.Config{
		ChunkSize:        cfg.Download.ChunkSize,
		ProgressInterval: cfg.Download.GetProgressInterval(),
		FallbackName:     cfg.Download.FallbackFilename,
	}, zapLogger,
		transfer.WithSpaceChecker(filesystem.NewDiskChecker()),
		transfer.WithDispatcher(dispatcher),
	)

	controller := session.New(engine, zapLogger)

	req := domain.NewTransferRequest(opts.url, cfg.Download.DefaultDir)
	outcomes, err := controller.Start(context.Background(), req, newStatusLine(stderr))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var outcome domain.TransferOutcome
	select {
	case outcome = <-outcomes:
	case sig := <-sigCh:
		zapLogger.Info("received signal, canceling transfer",
			zap.String("signal", sig.String()),
			zap.String("transfer_id", controller.ActiveID()))
		controller.Cancel()
		outcome = <-outcomes
	}

	zapLogger.Debug("session metrics", zap.Any("metrics", metrics.GetMetrics()))
	return exitCode(outcome)
}

func exitCode(outcome domain.TransferOutcome) int {
	err := outcome.AsError()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrCanceled):
		return exitCanceled
	default:
		return exitFailure
	}
}
