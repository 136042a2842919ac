package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/wcs-tools-mcp/internal/config"
	"github.com/ironsheep/wcs-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("wcs-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("wcs-tools-mcp - MCP server for FITS WCS (TAN) coordinate tools")
			fmt.Println()
			fmt.Println("Usage: wcs-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  WCS_MCP_CONFIG=path           YAML or JSON settings file")
			fmt.Println("  WCS_MCP_LOG_LEVEL=debug       Enable debug logging")
			fmt.Println("  WCS_MCP_OUTPUT_FORMAT=webp    Encode rendered images as WebP")
			fmt.Println("  WCS_MCP_GRID_COLOR=#RRGGBBAA  Default sky grid colour")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("WCS MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Settings: format=%s grid=%s samples=%d gamma=%g", cfg.OutputFormat, cfg.GridColor, cfg.GridSamples, cfg.Gamma)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
