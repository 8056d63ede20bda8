package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hubscout/hubscout/internal/webui"
)

var (
	serveHost  string
	servePort  int
	serveLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI for searching GitHub issues",
	Long: `
The serve command starts a local web server with the issue search UI:
- One query input and a result limit control (0-100)
- Three mutually exclusive search modes: NearText, BM25, Hybrid
- Summary and raw result views
- A JSON search API at /api/search

Example:
  hubscout serve                  # Start with defaults (localhost:8080)
  hubscout serve --port 9090      # Use custom port
`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost",
		"Host to bind the web server")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080,
		"Port to bind the web server")
	serveCmd.Flags().IntVar(&serveLimit, "default-limit", 10,
		"Default result limit shown in the search form")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stdout, "[serve] ", log.LstdFlags)

	dispatcher, cfg, err := newDispatcher(cmd.Context())
	if err != nil {
		return err
	}

	serverConfig := &webui.ServerConfig{
		Host:            serveHost,
		Port:            servePort,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		DefaultLimit:    serveLimit,
	}

	server, err := webui.NewServer(serverConfig, dispatcher, cfg.GitHubRepository, logger)
	if err != nil {
		return fmt.Errorf("failed to create webui server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Printf("Received signal: %v", sig)
		cancel()
	}()

	return server.Run(ctx)
}
