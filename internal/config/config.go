package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Refdata   RefdataConfig   `yaml:"refdata" mapstructure:"refdata"`
	Valuation ValuationConfig `yaml:"valuation" mapstructure:"valuation"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the local API server the desktop shell talks to.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// IngestConfig configures PDF text extraction.
type IngestConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath  string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	HybridMinChars int    `yaml:"hybrid_min_chars" mapstructure:"hybrid_min_chars"`
}

// RefdataConfig points at optional yaml overrides for the built-in
// reference tables.
type RefdataConfig struct {
	ManufacturersFile string `yaml:"manufacturers_file" mapstructure:"manufacturers_file"`
	CitiesFile        string `yaml:"cities_file" mapstructure:"cities_file"`
}

// ValuationConfig holds the price-adjustment rates.
type ValuationConfig struct {
	MileageRatePerMile float64 `yaml:"mileage_rate_per_mile" mapstructure:"mileage_rate_per_mile"`
	ConditionStepPct   float64 `yaml:"condition_step_pct" mapstructure:"condition_step_pct"`
	EquipmentItemValue float64 `yaml:"equipment_item_value" mapstructure:"equipment_item_value"`
}

// AnalyzeConfig configures the analyze pipeline.
type AnalyzeConfig struct {
	GeocodeConcurrency int `yaml:"geocode_concurrency" mapstructure:"geocode_concurrency"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VALUATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "valuation.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("ingest.provider", "textlayer")
	v.SetDefault("ingest.pdftotext_path", "pdftotext")
	v.SetDefault("ingest.hybrid_min_chars", 200)
	v.SetDefault("valuation.mileage_rate_per_mile", 0.05)
	v.SetDefault("valuation.condition_step_pct", 0.03)
	v.SetDefault("valuation.equipment_item_value", 250)
	v.SetDefault("analyze.geocode_concurrency", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
