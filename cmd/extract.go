package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/valuation-cli/internal/extract"
	"github.com/sells-group/valuation-cli/internal/ingest"
	"github.com/sells-group/valuation-cli/internal/model"
)

var extractCmd = &cobra.Command{
	Use:   "extract <report.pdf|report.txt>",
	Short: "Extract vehicle data from a total-loss report",
	Long:  "Parses a CCC One, Mitchell, or unbranded total-loss report into a structured vehicle record with per-field confidence scores.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		method, _ := cmd.Flags().GetString("method")
		save, _ := cmd.Flags().GetBool("save")

		var text string
		var extractionMethod model.ExtractionMethod

		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			ing, err := ingest.NewExtractor(cfg.Ingest)
			if err != nil {
				return err
			}
			res, err := ing.ExtractText(ctx, path)
			if err != nil {
				return eris.Wrap(err, "extract")
			}
			text = res.Text
			extractionMethod = res.Method
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "extract: read %s", path)
			}
			text = string(data)
			extractionMethod = model.ExtractionMethod(method)
		}

		manufacturers, err := loadManufacturers()
		if err != nil {
			return err
		}

		vehicle, err := extract.New(manufacturers).Extract(text, extractionMethod)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		if save {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}

			appraisal, err := st.CreateAppraisal(ctx, *vehicle)
			if err != nil {
				return eris.Wrap(err, "extract: save appraisal")
			}
			zap.L().Info("appraisal created",
				zap.String("id", appraisal.ID),
				zap.String("vin", vehicle.VIN),
			)
			fmt.Fprintf(os.Stderr, "Appraisal %s created.\n", appraisal.ID)
		}

		return printJSON(vehicle)
	},
}

func init() {
	extractCmd.Flags().String("method", "", "extraction method tag for text input (standard, ocr, hybrid)")
	extractCmd.Flags().Bool("save", false, "save the extracted vehicle as a new appraisal")
	rootCmd.AddCommand(extractCmd)
}
