package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jpalmerr/slotchecker"
	"github.com/jpalmerr/slotchecker/config"
)

const demoConfig = `to_date: %s
days: [1, 2, 3, 4, 5, 6]
refresh: 5
send:
  telegram:
    token: "123456:demo-token"
    chat_id: "42"
`

func main() {
	// start mock servers (see mock_server.go)
	go StartMockBookingSite(":9999")
	go StartMockBotAPI(":9998")
	time.Sleep(100 * time.Millisecond)

	dir, err := os.MkdirTemp("", "slotchecker-demo")
	if err != nil {
		slog.Error("failed to create temp dir", "error", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yml")
	toDate := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(demoConfig, toDate)), 0o644); err != nil {
		slog.Error("failed to write demo config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	checker, err := slotchecker.New(config.NewSource(path),
		slotchecker.WithLogger(logger),
		slotchecker.WithSiteURL("http://localhost:9999/search"),
		slotchecker.WithTelegramEndpoint("http://localhost:9998/bot%s/%s"),
		slotchecker.WithHeartbeatInterval(15*time.Second),
	)
	if err != nil {
		os.Exit(slotchecker.Report(os.Stderr, logger, err, true))
	}

	fmt.Println()
	fmt.Println("  slotchecker demo")
	fmt.Println()
	fmt.Println("  Mock booking site:  http://localhost:9999/search")
	fmt.Println("  Mock Telegram API:  http://localhost:9998")
	fmt.Println("  Config:            ", path)
	fmt.Println()
	fmt.Println("  Edit the config while running to see it reloaded.")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := checker.Run(ctx); err != nil {
		os.Exit(slotchecker.Report(os.Stderr, logger, err, true))
	}
}
