package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/VickyDev810/PlexiPDF/internal/config"
	"github.com/VickyDev810/PlexiPDF/internal/mcp"
	"github.com/VickyDev810/PlexiPDF/internal/ui"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		// Reduce log verbosity in stdio mode unless debug is enabled
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// runStdioMode runs the headless MCP automation server
func runStdioMode(ctx context.Context, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// runGUIMode opens the editor window, optionally with a file preloaded
func runGUIMode(cfg *config.Config, path string) {
	window := ui.NewWindow(cfg)
	window.Run(path)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	if cfg.IsStdioMode() {
		server, err := mcp.NewServer(cfg)
		if err != nil {
			log.Fatalf("Failed to create MCP server: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		runStdioMode(ctx, server)
		return
	}

	// An optional positional argument names the PDF to open on startup
	path := ""
	if args := pflag.Args(); len(args) > 0 {
		path = args[0]
	}
	runGUIMode(cfg, path)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("PlexiPDF\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
