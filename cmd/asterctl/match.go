package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/aster/pkg/models"
)

var (
	matchContext       string
	matchLocation      string
	matchTypes         []string
	matchMinConfidence float64
	matchForceRefresh  bool
	matchJSON          bool
)

var matchCmd = &cobra.Command{
	Use:   "match [entity]",
	Short: "Search the active datasets for an organization name",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchContext, "context", "", "additional context text for boosting")
	matchCmd.Flags().StringVar(&matchLocation, "location", "", "location hint for geographic boosting")
	matchCmd.Flags().StringSliceVar(&matchTypes, "types", nil, "only return these match types (e.g. exact,alias)")
	matchCmd.Flags().Float64Var(&matchMinConfidence, "min-confidence", 0, "drop matches below this confidence")
	matchCmd.Flags().BoolVar(&matchForceRefresh, "force-refresh", false, "bypass the result cache")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output the raw JSON response")
	rootCmd.AddCommand(matchCmd)
}

// matchResponse mirrors the API's single-match response body.
type matchResponse struct {
	Entity           string               `json:"entity"`
	Matches          []models.MatchResult `json:"matches"`
	TotalMatches     int                  `json:"total_matches"`
	CacheHit         bool                 `json:"cache_hit"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	req := models.MatchRequest{
		Entity:       args[0],
		Context:      matchContext,
		Location:     matchLocation,
		ForceRefresh: matchForceRefresh,
	}
	for _, t := range matchTypes {
		req.MatchTypes = append(req.MatchTypes, models.MatchType(t))
	}
	if cmd.Flags().Changed("min-confidence") {
		req.MinConfidence = &matchMinConfidence
	}

	var resp matchResponse
	if err := newClient().do(context.Background(), http.MethodPost, "/api/v1/match", req, &resp); err != nil {
		return err
	}

	if matchJSON {
		return printJSON(resp)
	}

	if len(resp.Matches) == 0 {
		cmd.Printf("No matches for %q.\n", resp.Entity)
		return nil
	}

	source := "scored"
	if resp.CacheHit {
		source = "cached"
	}
	cmd.Printf("Matches for %q (%d, %s, %dms):\n\n", resp.Entity, resp.TotalMatches, source, resp.ProcessingTimeMs)

	for i, m := range resp.Matches {
		cmd.Printf("  [%d] %s (%s, %.3f)\n", i+1, m.OrganizationName, m.MatchType, m.ConfidenceScore)
		cmd.Printf("      Dataset: %s\n", m.DatasetName)
		if m.QualityMetrics.MatchedName != "" && m.QualityMetrics.MatchedName != m.OrganizationName {
			cmd.Printf("      Matched: %s\n", m.QualityMetrics.MatchedName)
		}
		if m.QualityMetrics.Explanation != "" {
			cmd.Printf("      %s\n", m.QualityMetrics.Explanation)
		}
		cmd.Println()
	}

	return nil
}
