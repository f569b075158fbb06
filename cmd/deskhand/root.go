package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deskhand",
	Short: "Deskhand is a rule-based support desk that turns chats into tickets",
	Long: `Deskhand guides users through a fixed support conversation and creates a
structured ticket from the collected answers. Classification and step
transitions are deterministic rules, so the same transcript always produces
the same ticket.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")
}
