package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dividendwatch",
	Short: "dividendwatch tracks distributions paid by a fixed set of covered call ETFs.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "config.json5",
		"path to the configuration file",
	)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
