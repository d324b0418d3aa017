// Pathfinder: Stateless Planning MCP Server
//
// A universal MCP server that turns a free-text project description into
// a full execution plan: domain analysis, phase decomposition, a
// dependency-ordered task graph, and a resource-mapped mission plan with
// parallel execution batches. The server holds no state between calls —
// every response carries the continuation the caller needs to resume.
//
// Usage:
//
//	pathfinder serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	pfserver "github.com/pathfinder-mcp/pathfinder/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("pathfinder v%s\n", pfserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := pfserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Pathfinder v%s — Stateless Planning MCP Server

Usage:
  pathfinder serve    Start the MCP server (stdio transport)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "pathfinder": {
        "command": "pathfinder",
        "args": ["serve"]
      }
    }
  }

  Optional: set PATHFINDER_HEURISTICS to a YAML file to replace the
  built-in classification tables.
`, pfserver.Version)
}
