package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "screenguard",
	Short: "Screen scan pipeline for phishing and scam detection",
	Long: "Captures screen frames, extracts on-screen text, and flags scam signals\n" +
		"through keyword matching and AI risk assessment.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.screenguard/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
