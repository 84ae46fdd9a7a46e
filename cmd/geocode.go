package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/valuation-cli/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <location>",
	Short: "Resolve a location to coordinates",
	Long:  `Resolves a free-text location ("Chicago, IL" or "41.8781, -87.6298") to decimal-degree coordinates via the known-cities table.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newGeocoder()
		if err != nil {
			return err
		}

		coords := svc.Geocode(args[0])
		if coords == nil {
			fmt.Fprintf(os.Stderr, "Location %q could not be resolved.\n", args[0])
			os.Exit(1)
		}
		return printJSON(coords)
	},
}

var distanceCmd = &cobra.Command{
	Use:   "distance <location-a> <location-b>",
	Short: "Compute the distance between two locations",
	Long:  "Resolves both locations and prints the great-circle distance in miles, rounded to one decimal.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newGeocoder()
		if err != nil {
			return err
		}

		a := svc.Geocode(args[0])
		if a == nil {
			return eris.Errorf("distance: location %q could not be resolved", args[0])
		}
		b := svc.Geocode(args[1])
		if b == nil {
			return eris.Errorf("distance: location %q could not be resolved", args[1])
		}

		fmt.Printf("%.1f miles\n", geocode.Distance(*a, *b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	rootCmd.AddCommand(distanceCmd)
}
