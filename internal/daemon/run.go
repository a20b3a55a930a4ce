package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"fablecast/internal/analysis"
	"fablecast/internal/api"
	"fablecast/internal/config"
	"fablecast/internal/library"
	"fablecast/internal/logging"
	"fablecast/internal/parsing"
	"fablecast/internal/pipeline"
	"fablecast/internal/preflight"
	"fablecast/internal/synthesis"
	"fablecast/internal/voice"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run wires the full service and blocks until the context is cancelled or a
// termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logCfg := *cfg
	if opts.LogLevel != "" {
		logCfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(&logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	for _, result := range preflight.RunAll(cfg) {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "fablecast.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := library.Open(cfg)
	if err != nil {
		logger.Error("open library store", logging.Error(err))
		return err
	}

	registry := voice.NewRegistry()
	synth := synthesis.NewClient(cfg.Synthesis)
	orch := pipeline.New(
		cfg,
		store,
		parsing.NewTextParser(),
		analysis.NewClient(cfg.Analysis),
		synth,
		registry,
		logger,
	)
	server := api.NewServer(cfg, store, orch, synth, registry, logger)

	d, err := New(cfg, store, server, logger)
	if err != nil {
		store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	logger.Info("fablecast daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
