package mcp

import (
	"context"
	"io"
	"log/slog"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sandeepkv93/lifehub/internal/advisor"
	"github.com/sandeepkv93/lifehub/internal/routine"
)

const (
	serverName    = "lifehub"
	serverVersion = "0.1.0"
)

// Config contains server configuration.
type Config struct {
	Session *routine.Session
	// Advisor is optional; the advise tool is only registered when set.
	Advisor advisor.Advisor
	// ReloadEachCall re-reads stored documents before every tool call so
	// edits made by other processes sharing the data dir are visible.
	ReloadEachCall bool
	Logger         *slog.Logger
}

// tools serializes access to the session; the SDK may run handlers
// concurrently.
type tools struct {
	mu      sync.Mutex
	session *routine.Session
	advisor advisor.Advisor
	reload  bool
	logger  *slog.Logger
}

// NewServer creates an MCP server exposing the routine session as tools.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	t := &tools{
		session: cfg.Session,
		advisor: cfg.Advisor,
		reload:  cfg.ReloadEachCall,
		logger:  logger,
	}
	registerTools(server, t)
	return server
}

// lock acquires the session and, when configured, refreshes it from storage.
func (t *tools) lock(ctx context.Context) (func(), error) {
	t.mu.Lock()
	if t.reload {
		if err := t.session.Reload(ctx); err != nil {
			t.mu.Unlock()
			return nil, mapError(err)
		}
	}
	return t.mu.Unlock, nil
}
