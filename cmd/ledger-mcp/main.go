package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mmynk/homeledger/internal/config"
	"github.com/mmynk/homeledger/internal/service"
	"github.com/mmynk/homeledger/internal/storage/sqlite"
	"github.com/mmynk/homeledger/internal/tools"
	"github.com/mmynk/homeledger/pkg/ledgerrpc"
	"github.com/mmynk/homeledger/pkg/logging"
)

func main() {
	cfg := config.Load()
	// stdout carries the MCP protocol, so logs stay on stderr.
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var backend tools.Backend
	if url := os.Getenv("LEDGER_URL"); url != "" {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		backend = tools.Backend{
			Houses: ledgerrpc.NewHouseServiceClient(httpClient, url),
			Ledger: ledgerrpc.NewLedgerServiceClient(httpClient, url),
		}
		slog.Info("Using remote ledger", "url", url)
	} else {
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open ledger database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		backend = tools.Backend{
			Houses: service.NewHouseService(store),
			Ledger: service.NewLedgerService(store,
				service.WithTrendDefaults(cfg.TrendPeriod(), cfg.DefaultTrendBuckets),
			),
		}
		slog.Info("Using local ledger", "database", cfg.DBPath)
	}

	s := server.NewMCPServer(
		"homeledger",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	tools.RegisterTools(s, backend)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
