package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/formfiller/formfiller/internal/config"
	"github.com/formfiller/formfiller/internal/mcp"
	"github.com/formfiller/formfiller/internal/service"
)

// Set by build flags.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if versionRequested(os.Args[1:]) {
		printVersion()
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	svc, err := service.NewService(cfg)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	server, err := mcp.NewServer(cfg, svc)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	if err := run(cfg, server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// versionRequested reports whether any argument asks for version output.
// Checked before flag parsing so -v works without a valid configuration.
func versionRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// setupLogging routes log output by mode. Stdio mode must keep stdout clean
// for the protocol, so logs go to stderr, and are dropped entirely unless
// debug logging is on.
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
		return
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func run(cfg *config.Config, server *mcp.Server) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// In stdio mode the parent process owns our lifecycle; no signal
	// handling of our own.
	if cfg.IsStdioMode() {
		return server.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run(ctx) }()

	select {
	case sig := <-sigCh:
		log.Printf("Received %s, shutting down", sig)
		cancel()
		if err := <-errCh; err != nil {
			return err
		}
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Println("Server stopped")
	return nil
}

func printVersion() {
	fmt.Printf("FormFiller\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
