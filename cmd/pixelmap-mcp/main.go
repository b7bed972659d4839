package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/pixelmap-mcp/internal/config"
	"github.com/ironsheep/pixelmap-mcp/internal/imaging"
	"github.com/ironsheep/pixelmap-mcp/internal/server"
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
			fmt.Printf("pixelmap-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pixelmap-mcp - MCP server for palette quantization of images")
			fmt.Println()
			fmt.Println("Usage: pixelmap-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug         Enable debug logging\n", config.EnvLogLevel)
			fmt.Printf("  %s=<file>           Colour DB loaded at start-up\n", config.EnvPalette)
			fmt.Printf("  %s=true         Allow images up to %d pixels per side\n", config.EnvAllowLarge, imaging.MaxDimsLarge)
			fmt.Printf("  %s=<n>         Pixels per pixel-cache chunk\n", config.EnvCacheChunk)
			fmt.Printf("  %s=<n>      Pixels per quantization chunk\n", config.EnvQuantizeChunk)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
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
	if cfg.Debug {
		log.Printf("Pixelmap MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if cfg.PalettePath != "" {
		if _, err := srv.LoadPalette(cfg.PalettePath); err != nil {
			log.Fatalf("Failed to load palette: %v", err)
		}
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
