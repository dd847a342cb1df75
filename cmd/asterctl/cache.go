package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/aster/pkg/models"
)

var warmupFile string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and control the match result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size, hit rate, and TTL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats models.CacheStats
		if err := newClient().do(context.Background(), http.MethodGet, "/api/v1/cache/stats", nil, &stats); err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the match result cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().do(context.Background(), http.MethodPost, "/api/v1/cache/clear", nil, nil); err != nil {
			return err
		}
		cmd.Println("Cache cleared.")
		return nil
	},
}

var cacheWarmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Prime the cache with common queries",
	Long: `Primes the match result cache. Queries come from a YAML file
("queries: [...]") passed with --file; without it the server warms its
configured warmup list.`,
	Args: cobra.NoArgs,
	RunE: runCacheWarmup,
}

func init() {
	cacheWarmupCmd.Flags().StringVar(&warmupFile, "file", "", "YAML file with the queries to warm")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cacheWarmupCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheWarmup(cmd *cobra.Command, args []string) error {
	var req models.CacheWarmupRequest

	if warmupFile != "" {
		data, err := os.ReadFile(warmupFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
		if len(req.Queries) == 0 {
			return fmt.Errorf("%s contains no queries", warmupFile)
		}
	}

	var resp models.CacheWarmupResponse
	if err := newClient().do(context.Background(), http.MethodPost, "/api/v1/cache/warmup", req, &resp); err != nil {
		return err
	}

	cmd.Printf("Warmed %d queries.\n", resp.Warmed)
	for _, failed := range resp.Failed {
		cmd.Printf("  failed: %q\n", failed)
	}
	return nil
}
