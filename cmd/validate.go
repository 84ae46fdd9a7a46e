package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/valuation-cli/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate vehicle fields",
	Long:  "Validates vehicle fields independently. Only the flags you pass are checked; each result carries errors, warnings, and a 0-100 confidence.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields := make(map[string]any)

		if v, _ := cmd.Flags().GetString("vin"); cmd.Flags().Changed("vin") {
			fields["vin"] = v
		}
		if v, _ := cmd.Flags().GetInt("year"); cmd.Flags().Changed("year") {
			fields["year"] = v
		}
		if v, _ := cmd.Flags().GetInt("mileage"); cmd.Flags().Changed("mileage") {
			fields["mileage"] = v
		}
		if v, _ := cmd.Flags().GetString("make"); cmd.Flags().Changed("make") {
			fields["make"] = v
		}
		if v, _ := cmd.Flags().GetString("model"); cmd.Flags().Changed("model") {
			fields["model"] = v
		}

		if len(fields) == 0 {
			return eris.New("validate: pass at least one of --vin, --year, --mileage, --make, --model")
		}

		manufacturers, err := loadManufacturers()
		if err != nil {
			return err
		}

		return printJSON(validate.All(fields, manufacturers))
	},
}

func init() {
	validateCmd.Flags().String("vin", "", "17-character VIN")
	validateCmd.Flags().Int("year", 0, "model year")
	validateCmd.Flags().Int("mileage", 0, "odometer miles")
	validateCmd.Flags().String("make", "", "manufacturer name")
	validateCmd.Flags().String("model", "", "model name")
	rootCmd.AddCommand(validateCmd)
}
