package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict <query>",
	Short: "Print place predictions for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	provider, _, err := newProvider()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rootFlags.timeout)
	defer cancel()

	result, err := provider.Predictions(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rootFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if len(result.Predictions) == 0 {
		fmt.Fprintf(out, "No predictions for %q\n", result.Search)
		return nil
	}
	for i, p := range result.Predictions {
		fmt.Fprintf(out, "%2d. %s\n    %s\n", i+1, p.Description, p.PlaceID)
	}
	return nil
}
