package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resolveFlags struct {
	index int
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Type a query into a headless location input and pick a prediction",
	Long: "resolve drives the same input controller the API sessions use: it types\n" +
		"the query, waits for predictions, highlights the chosen one with the\n" +
		"arrow keys, presses enter and prints the resolved place.",
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&resolveFlags.index, "index", 0, "Zero-based prediction to pick")
}

func runResolve(cmd *cobra.Command, args []string) error {
	provider, log, err := newProvider()
	if err != nil {
		return err
	}

	value, err := lookup(cmd.Context(), provider, log, strings.Join(args, " "), resolveFlags.index, rootFlags.timeout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rootFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	fmt.Fprintf(out, "Address: %s\n", value.SelectedPlace.Address)
	fmt.Fprintf(out, "Origin:  %.6f, %.6f\n", value.SelectedPlace.Origin.Lat, value.SelectedPlace.Origin.Lng)
	fmt.Fprintf(out, "PlaceID: %s\n", value.SelectedPlaceID)
	return nil
}
