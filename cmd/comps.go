package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/valuation-cli/internal/model"
)

var compsCmd = &cobra.Command{
	Use:   "comps",
	Short: "Manage market comparables",
	Long:  "Commands for adding, listing, and removing comparable listings on an appraisal.",
}

// -- comps add --

var compsAddCmd = &cobra.Command{
	Use:   "add <appraisal-id>",
	Short: "Add a comparable listing to an appraisal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		// Fail early on a bad appraisal ID rather than on the FK constraint.
		if _, err := st.GetAppraisal(ctx, args[0]); err != nil {
			return eris.Wrap(err, "comps add")
		}

		comp := model.Comparable{AppraisalID: args[0]}
		comp.Source, _ = cmd.Flags().GetString("source")
		comp.ListingURL, _ = cmd.Flags().GetString("url")
		comp.Year, _ = cmd.Flags().GetInt("year")
		comp.Make, _ = cmd.Flags().GetString("make")
		comp.Model, _ = cmd.Flags().GetString("model")
		comp.Mileage, _ = cmd.Flags().GetInt("mileage")
		comp.Location, _ = cmd.Flags().GetString("location")
		comp.ListPrice, _ = cmd.Flags().GetFloat64("price")
		comp.Condition, _ = cmd.Flags().GetString("condition")
		if cmd.Flags().Changed("equipment") {
			comp.Equipment, _ = cmd.Flags().GetStringSlice("equipment")
			if comp.Equipment == nil {
				comp.Equipment = []string{}
			}
		}

		if comp.ListPrice <= 0 {
			return eris.New("comps add: --price must be positive")
		}

		created, err := st.AddComparable(ctx, comp)
		if err != nil {
			return eris.Wrap(err, "comps add")
		}
		return printJSON(created)
	},
}

// -- comps list --

var compsListCmd = &cobra.Command{
	Use:   "list <appraisal-id>",
	Short: "List the comparables on an appraisal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		comps, err := st.ListComparables(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "comps list")
		}

		if len(comps) == 0 {
			fmt.Fprintln(os.Stderr, "No comparables found.")
			return nil
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(comps)
		}
		formatCompsList(os.Stdout, comps)
		return nil
	},
}

// -- comps delete --

var compsDeleteCmd = &cobra.Command{
	Use:   "delete <comparable-id>",
	Short: "Delete a comparable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if err := st.DeleteComparable(ctx, args[0]); err != nil {
			return eris.Wrap(err, "comps delete")
		}
		fmt.Fprintf(os.Stderr, "Comparable %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	compsAddCmd.Flags().String("source", "", "listing source (dealer, auction, private)")
	compsAddCmd.Flags().String("url", "", "listing URL")
	compsAddCmd.Flags().Int("year", 0, "model year")
	compsAddCmd.Flags().String("make", "", "manufacturer name")
	compsAddCmd.Flags().String("model", "", "model name")
	compsAddCmd.Flags().Int("mileage", 0, "odometer miles")
	compsAddCmd.Flags().String("location", "", `listing location ("Chicago, IL")`)
	compsAddCmd.Flags().Float64("price", 0, "list price in dollars")
	compsAddCmd.Flags().String("condition", "", "condition grade (poor, fair, good, very good, excellent)")
	compsAddCmd.Flags().StringSlice("equipment", nil, "equipment items; pass an empty value for a listing that states none")

	compsListCmd.Flags().Bool("json", false, "output as JSON instead of a table")

	compsCmd.AddCommand(compsAddCmd)
	compsCmd.AddCommand(compsListCmd)
	compsCmd.AddCommand(compsDeleteCmd)
	rootCmd.AddCommand(compsCmd)
}

// formatCompsList writes a tabular list of comparables to w.
func formatCompsList(out io.Writer, comps []model.Comparable) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tVEHICLE\tMILEAGE\tLOCATION\tPRICE\tADJUSTED\tSCORE")
	_, _ = fmt.Fprintln(w, "--\t-------\t-------\t--------\t-----\t--------\t-----")

	for _, c := range comps {
		vehicle := fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t$%.2f\t$%.2f\t%.1f\n",
			truncateID(c.ID),
			vehicle,
			c.Mileage,
			c.Location,
			c.ListPrice,
			c.AdjustedPrice,
			c.QualityScore,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
