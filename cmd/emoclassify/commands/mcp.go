// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to run classification via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/emoclassify/internal/config"
	"github.com/harper/emoclassify/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the classifier engine as an MCP (Model Context Protocol) server,
exposing classify_conversation, classify_hierarchical, and
list_classifiers tools over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  emoclassify mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "emoclassify": {
  #       "command": "emoclassify",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set: classification tools need a completion backend")
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return err
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Affective Cue Classifier",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, mcp.Deps{
		Completer:    completer,
		AvgNumChunks: cfg.AvgNumChunks,
	})

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("emoclassify MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
