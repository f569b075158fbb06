package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskhand-io/deskhand/internal/adapters/mcp"
	"github.com/deskhand-io/deskhand/internal/adapters/memory"
	"github.com/deskhand-io/deskhand/internal/adapters/sqlite"
	"github.com/deskhand-io/deskhand/internal/config"
	"github.com/deskhand-io/deskhand/internal/engine"
	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/internal/service"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts deskhand as an MCP server on stdio, so AI agents can start
conversations, send user messages, and inspect tickets as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Logs must not corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		tickets, err := sqlite.NewTicketStore(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer tickets.Shutdown()

		svc := service.New(
			engine.New(engine.WithLogger(logger)),
			memory.NewConversationStore(),
			tickets,
			service.WithLogger(logger),
		)

		logger.Info("starting deskhand MCP server (stdio)")
		return mcp.NewServer(svc).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
