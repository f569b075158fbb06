package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deskhand-io/deskhand/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive support conversation in the terminal",
	Long: `Starts a local conversation on stdin/stdout. The collected answers are
turned into a ticket kept in memory, which is printed when the conversation
completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		plain, _ := cmd.Flags().GetBool("plain")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return cli.RunChat(ctx, cli.ChatOptions{
			Debug: debug,
			Plain: plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("debug", false, "Enable debug logging")
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
}
