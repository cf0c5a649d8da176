package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "farm-exchange",
	Short: "Farm Exchange - peer-to-peer produce marketplace",
	Long: `Farm Exchange connects farmers listing harvest lots with buyers
purchasing from them, with messaging between the two sides.

Run 'farm-exchange serve' to start the API server, or
'farm-exchange import' to seed profiles and listings from a JSON file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}
