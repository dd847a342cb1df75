package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/aster/pkg/models"
)

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Show the health of the active scoring policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var diag models.Diagnostics
		if err := newClient().do(context.Background(), http.MethodGet, "/api/v1/diagnostics", nil, &diag); err != nil {
			return err
		}
		return printJSON(diag)
	},
}

func init() {
	rootCmd.AddCommand(diagnosticsCmd)
}
