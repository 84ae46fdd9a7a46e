package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/score"
	"github.com/sells-group/valuation-cli/internal/valuation"
	"github.com/sells-group/valuation-cli/pkg/geocode"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <appraisal-id>",
	Short: "Run the full market analysis for an appraisal",
	Long:  "Geocodes comparables, adjusts their prices toward the loss vehicle, scores them, and aggregates the results into a quality-weighted market value. Scores and the analysis are persisted on the appraisal.",
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
			return eris.Wrap(err, "analyze")
		}
		comps, err := st.ListComparables(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "analyze")
		}
		if len(comps) == 0 {
			return eris.Wrap(valuation.ErrNoComparables, "analyze")
		}

		geocoder, err := newGeocoder()
		if err != nil {
			return err
		}
		if err := resolveDistances(ctx, geocoder, &appraisal.Vehicle, comps); err != nil {
			return eris.Wrap(err, "analyze")
		}

		acfg := adjustmentConfig()
		for i := range comps {
			price, adj := valuation.AdjustPrice(comps[i], appraisal.Vehicle, acfg)
			comps[i].AdjustedPrice = price
			comps[i].Adjustments = &adj

			b := score.Calculate(comps[i], appraisal.Vehicle)
			comps[i].ScoreBreakdown = &b
			comps[i].QualityScore = b.FinalScore

			if err := st.UpdateComparable(ctx, comps[i]); err != nil {
				return eris.Wrap(err, "analyze: persist comparable")
			}
		}

		analysis, err := valuation.Aggregate(appraisal.Vehicle, comps)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}
		if err := st.UpdateAppraisalAnalysis(ctx, appraisal.ID, analysis); err != nil {
			return eris.Wrap(err, "analyze: persist analysis")
		}

		fmt.Fprintf(os.Stderr, "Market value: $%.2f from %d comparable(s), confidence %.2f\n",
			analysis.CalculatedMarketValue, analysis.ComparablesCount, analysis.ConfidenceLevel)
		return printJSON(analysis)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// resolveDistances geocodes the loss vehicle and comparables, filling in
// coordinates and distances. The geocoder is not safe for concurrent use, so
// lookups are serialized under a mutex while the rest of the per-comparable
// work runs in parallel.
func resolveDistances(ctx context.Context, geocoder *geocode.Service, loss *model.Vehicle, comps []model.Comparable) error {
	var mu sync.Mutex

	lossCoords := geocoder.Geocode(loss.Location)
	if lossCoords == nil && loss.Location != "" {
		zap.L().Warn("loss vehicle location could not be resolved",
			zap.String("location", loss.Location),
		)
	}

	g, _ := errgroup.WithContext(ctx)
	limit := cfg.Analyze.GeocodeConcurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i := range comps {
		g.Go(func() error {
			c := &comps[i]
			if c.Location == "" {
				return nil
			}

			mu.Lock()
			coords := geocoder.Geocode(c.Location)
			mu.Unlock()

			if coords == nil {
				zap.L().Warn("comparable location could not be resolved",
					zap.String("comparable", c.ID),
					zap.String("location", c.Location),
				)
				return nil
			}

			c.Latitude = &coords.Latitude
			c.Longitude = &coords.Longitude
			if lossCoords != nil {
				d := geocode.Distance(*lossCoords, *coords)
				c.DistanceFromLoss = &d
			}
			return nil
		})
	}
	return g.Wait()
}
