package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/store"
)

var appraisalsCmd = &cobra.Command{
	Use:   "appraisals",
	Short: "Inspect and manage appraisals",
	Long:  "Commands for listing, viewing, and updating appraisal records.",
}

// -- appraisals list --

var appraisalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appraisals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		vin, _ := cmd.Flags().GetString("vin")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.AppraisalFilter{
			Status: model.AppraisalStatus(status),
			VIN:    vin,
			Limit:  limit,
		}

		appraisals, err := st.ListAppraisals(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "appraisals list")
		}

		if len(appraisals) == 0 {
			fmt.Fprintln(os.Stderr, "No appraisals found.")
			return nil
		}

		formatAppraisalsList(os.Stdout, appraisals)
		return nil
	},
}

// -- appraisals show --

var appraisalsShowCmd = &cobra.Command{
	Use:   "show <appraisal-id>",
	Short: "Show full details of an appraisal",
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

		appraisal, err := st.GetAppraisal(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "appraisals show")
		}
		return printJSON(appraisal)
	},
}

// -- appraisals status --

var appraisalsStatusCmd = &cobra.Command{
	Use:   "status <appraisal-id> <draft|reviewed|complete>",
	Short: "Update an appraisal's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		status := model.AppraisalStatus(args[1])
		switch status {
		case model.AppraisalStatusDraft, model.AppraisalStatusReviewed, model.AppraisalStatusComplete:
		default:
			return eris.Errorf("appraisals status: unknown status %q", args[1])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if err := st.UpdateAppraisalStatus(ctx, args[0], status); err != nil {
			return eris.Wrap(err, "appraisals status")
		}
		fmt.Fprintf(os.Stderr, "Appraisal %s set to %s.\n", args[0], status)
		return nil
	},
}

// -- appraisals delete --

var appraisalsDeleteCmd = &cobra.Command{
	Use:   "delete <appraisal-id>",
	Short: "Delete an appraisal and its comparables",
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

		if err := st.DeleteAppraisal(ctx, args[0]); err != nil {
			return eris.Wrap(err, "appraisals delete")
		}
		fmt.Fprintf(os.Stderr, "Appraisal %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	appraisalsListCmd.Flags().String("status", "", "filter by status (draft, reviewed, complete)")
	appraisalsListCmd.Flags().String("vin", "", "filter by VIN")
	appraisalsListCmd.Flags().Int("limit", 50, "max number of appraisals to display")

	appraisalsCmd.AddCommand(appraisalsListCmd)
	appraisalsCmd.AddCommand(appraisalsShowCmd)
	appraisalsCmd.AddCommand(appraisalsStatusCmd)
	appraisalsCmd.AddCommand(appraisalsDeleteCmd)
	rootCmd.AddCommand(appraisalsCmd)
}

// formatAppraisalsList writes a tabular list of appraisals to w.
func formatAppraisalsList(out io.Writer, appraisals []model.Appraisal) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tVEHICLE\tVIN\tSTATUS\tMARKET VALUE\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-------\t---\t------\t------------\t-------")

	for _, a := range appraisals {
		vehicle := fmt.Sprintf("%d %s %s", a.Vehicle.Year, a.Vehicle.Make, a.Vehicle.Model)
		marketValue := ""
		if a.Analysis != nil {
			marketValue = fmt.Sprintf("$%.2f", a.Analysis.CalculatedMarketValue)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(a.ID),
			vehicle,
			a.Vehicle.VIN,
			a.Status,
			marketValue,
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}
