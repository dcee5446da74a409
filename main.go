// coraldeck is a live telemetry dashboard for a custom PC build.
//
// One binary holds both halves: the dashboard renders an in-terminal
// wall of bars and graphs and exposes a small HTTP API, while the
// agent polls the machine's sensors and pushes readings to that API.
// A history mode prints archived samples from the dashboard's sample
// database.
//
// Usage:
//
//	coraldeck [flags]
//
// Flags:
//
//	-dashboard       Run the dashboard process
//	-agent           Run the agent process
//	-history int     Print the last N archived samples and exit
//	-config string   Path to configuration file (default: ~/.config/coraldeck/config.yaml)
//	-verbose         Enable verbose logging
//	-version         Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gitlab.com/tinyland/lab/coraldeck/agent"
	"gitlab.com/tinyland/lab/coraldeck/collectors"
	"gitlab.com/tinyland/lab/coraldeck/config"
	"gitlab.com/tinyland/lab/coraldeck/dashboard"
	"gitlab.com/tinyland/lab/coraldeck/display/ui"
	"gitlab.com/tinyland/lab/coraldeck/telemetry"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to configuration file (default: ~/.config/coraldeck/config.yaml)")
		runDashboard = flag.Bool("dashboard", false, "Run the dashboard process")
		runAgent     = flag.Bool("agent", false, "Run the agent process")
		historyN     = flag.Int("history", 0, "Print the last N archived samples and exit")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("coraldeck %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "coraldeck", "config.yaml")
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	switch {
	case *historyN > 0:
		err = runHistory(ctx, cfg, *historyN, os.Stdout)
	case *runDashboard:
		err = dashboardMain(ctx, cfg, *verbose)
	case *runAgent:
		err = agentMain(ctx, cfg, *verbose)
	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass -dashboard, -agent or -history N")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "coraldeck: %v\n", err)
		os.Exit(1)
	}
}

// dashboardMain wires the widget tree, sample archive and API server
// together and blocks until the TUI exits.
func dashboardMain(ctx context.Context, cfg *config.Config, verbose bool) error {
	logger, closeLog, err := newLogger(cfg.Dashboard.LogFile, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	var store *telemetry.Store
	if cfg.Dashboard.DBPath != "" {
		store, err = telemetry.Open(cfg.Dashboard.DBPath)
		if err != nil {
			return fmt.Errorf("open sample archive: %w", err)
		}
		defer store.Close()
	}

	manager := ui.NewManager(version, logger)
	server := dashboard.NewServer(manager, store, logger, cfg.Dashboard.LogFile, nil)

	logger.Info("dashboard starting",
		slog.String("listen", cfg.Dashboard.Listen),
		slog.String("version", version))
	return server.Run(ctx, cfg.Dashboard.Listen)
}

// agentMain assembles the collectors and runs the sampling loop until
// the context is cancelled.
func agentMain(ctx context.Context, cfg *config.Config, verbose bool) error {
	logger, closeLog, err := newLogger(cfg.Agent.LogFile, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	period, err := cfg.Agent.PollPeriod()
	if err != nil {
		return err
	}

	system := collectors.NewSystem(collectors.SystemOptions{
		Interface: cfg.Agent.NetworkInterface,
		PathOS:    cfg.Agent.DiskOS,
		PathApps:  cfg.Agent.DiskApps,
	})
	gpu := collectors.NewGPU(logger)
	defer gpu.Close()
	pump := collectors.NewPump(cfg.Agent.PumpChips...)

	a := agent.New(agent.Config{
		Publisher: agent.NewClient(cfg.Agent.Dashboard, cfg.Agent.UserAgent),
		Metrics:   collectors.Metrics(system, gpu, pump),
		Palette:   collectors.DefaultPalette(),
		Widgets:   collectors.DefaultLayout(),
		Title:     cfg.Agent.Title,
		Period:    period,
		Logger:    logger,
	})

	logger.Info("agent starting",
		slog.String("dashboard", cfg.Agent.Dashboard),
		slog.Duration("period", period))
	return a.Run(ctx)
}

// newLogger builds a slog logger writing to the given file, or stderr
// when the path is empty. The returned func closes the log file.
func newLogger(path string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeLog, nil
}
