package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/valuation-cli/internal/refdata"
	"github.com/sells-group/valuation-cli/internal/store"
	"github.com/sells-group/valuation-cli/internal/valuation"
	"github.com/sells-group/valuation-cli/pkg/geocode"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "valuation.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadManufacturers returns the configured override table or the built-in
// default.
func loadManufacturers() (*refdata.Manufacturers, error) {
	if cfg.Refdata.ManufacturersFile == "" {
		return refdata.DefaultManufacturers(), nil
	}
	return refdata.LoadManufacturers(cfg.Refdata.ManufacturersFile)
}

// newGeocoder returns a geocode service backed by the configured city table
// or the built-in default.
func newGeocoder() (*geocode.Service, error) {
	if cfg.Refdata.CitiesFile == "" {
		return geocode.NewService(), nil
	}
	cities, err := geocode.LoadCities(cfg.Refdata.CitiesFile)
	if err != nil {
		return nil, err
	}
	return geocode.NewService(geocode.WithCities(cities)), nil
}

// adjustmentConfig builds the price-adjustment rates from config, falling
// back to the defaults for unset values.
func adjustmentConfig() valuation.AdjustmentConfig {
	acfg := valuation.DefaultAdjustmentConfig()
	if cfg.Valuation.MileageRatePerMile > 0 {
		acfg.MileageRatePerMile = cfg.Valuation.MileageRatePerMile
	}
	if cfg.Valuation.ConditionStepPct > 0 {
		acfg.ConditionStepPct = cfg.Valuation.ConditionStepPct
	}
	if cfg.Valuation.EquipmentItemValue > 0 {
		acfg.EquipmentItemValue = cfg.Valuation.EquipmentItemValue
	}
	return acfg
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
