package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sandeepkv93/lifehub/internal/advisor"
	"github.com/sandeepkv93/lifehub/internal/config"
	"github.com/sandeepkv93/lifehub/internal/mcp"
	"github.com/sandeepkv93/lifehub/internal/routine"
	"github.com/sandeepkv93/lifehub/internal/scheduler"
	"github.com/sandeepkv93/lifehub/internal/storage"
	"github.com/sandeepkv93/lifehub/internal/update"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lifehub: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	opts := cliOptions{
		json: hasFlag(args, "--json"),
		yes:  hasFlag(args, "--yes"),
	}
	args = removeFlag(removeFlag(args, "--json"), "--yes")
	mcpMode := len(args) > 0 && args[0] == "mcp"

	logger, closeLog, err := newLogger(cfg, mcpMode)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("prepare data dir: %w", err)
	}
	store, err := storage.Open(storage.Options{
		Backend: storage.Backend(cfg.Storage.Backend),
		Driver:  cfg.Storage.Driver,
		Path:    cfg.StoragePath(),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := routine.Open(ctx, store, routine.WithLogger(logger))
	if err != nil {
		return err
	}
	adv := advisor.NewClient(advisor.Config{
		APIKey:   cfg.Advisor.APIKey,
		Model:    cfg.Advisor.Model,
		Endpoint: cfg.Advisor.Endpoint,
		Timeout:  time.Duration(cfg.Advisor.TimeoutSeconds) * time.Second,
	}, nil, logger)

	switch {
	case len(args) == 0:
		return runTUI(ctx, cfg, session, adv, logger)
	case mcpMode:
		return runMCP(ctx, session, adv, logger)
	default:
		return runCommand(ctx, os.Stdout, session, adv, args, opts)
	}
}

func runTUI(ctx context.Context, cfg config.RuntimeConfig, session *routine.Session, adv advisor.Advisor, logger *slog.Logger) error {
	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModelWithConfig(ctx, session, engine, notifier, adv, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfg.WatchEnabled && !strings.EqualFold(cfg.Storage.Backend, string(storage.BackendMemory)) {
		cleanup, err := update.StartWatcher(cfg.DataDir, p)
		if err != nil {
			logger.Warn("data dir watcher failed", "dir", cfg.DataDir, "error", err)
		} else {
			defer cleanup()
		}
	}

	_, err := p.Run()
	return err
}

func runMCP(ctx context.Context, session *routine.Session, adv advisor.Advisor, logger *slog.Logger) error {
	logger.Info("starting stdio transport")
	server := mcp.NewServer(mcp.Config{
		Session:        session,
		Advisor:        adv,
		ReloadEachCall: true,
		Logger:         logger,
	})
	// Run blocks until stdin closes or ctx is cancelled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func removeFlag(args []string, flag string) []string {
	var result []string
	for _, a := range args {
		if a != flag {
			result = append(result, a)
		}
	}
	return result
}
