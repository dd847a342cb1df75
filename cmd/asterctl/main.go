// asterctl drives the aster API's administrative surface from the command
// line: match lookups, cache control, and diagnostics.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
)

var rootCmd = &cobra.Command{
	Use:           "asterctl",
	Short:         "Administrative CLI for the aster matching service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("ASTER_BASE_URL", "http://localhost:3004"), "base URL of the aster API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ASTER_TOKEN"), "bearer token for authenticated deployments")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
