package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskhand-io/deskhand"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of deskhand",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("deskhand version %s\n", deskhand.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
