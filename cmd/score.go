package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score <appraisal-id>",
	Short: "Score an appraisal's comparables",
	Long:  "Computes the quality score of each comparable against the loss vehicle and prints the factor breakdowns. Nothing is persisted; use analyze for that.",
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
			return eris.Wrap(err, "score")
		}
		comps, err := st.ListComparables(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "score")
		}
		if len(comps) == 0 {
			fmt.Fprintln(os.Stderr, "No comparables to score.")
			return nil
		}

		for i := range comps {
			b := score.Calculate(comps[i], appraisal.Vehicle)
			comps[i].ScoreBreakdown = &b
			comps[i].QualityScore = b.FinalScore
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(comps)
		}
		formatScores(os.Stdout, comps)
		return nil
	},
}

func init() {
	scoreCmd.Flags().Bool("json", false, "output full breakdowns as JSON")
	rootCmd.AddCommand(scoreCmd)
}

// formatScores writes per-comparable score breakdowns to w.
func formatScores(out io.Writer, comps []model.Comparable) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tVEHICLE\tBASE\tDIST\tAGE\tMILEAGE\tEQUIP\tFINAL")
	_, _ = fmt.Fprintln(w, "--\t-------\t----\t----\t---\t-------\t-----\t-----")

	for _, c := range comps {
		b := c.ScoreBreakdown
		vehicle := fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.0f\t%+.1f\t%+.1f\t%+.1f\t%+.1f\t%.1f\n",
			truncateID(c.ID),
			vehicle,
			b.BaseScore,
			-b.DistancePenalty,
			b.AgeBonus-b.AgePenalty,
			b.MileageBonus-b.MileagePenalty,
			b.EquipmentBonus-b.EquipmentPenalty,
			b.FinalScore,
		)
	}
	_ = w.Flush()
}
