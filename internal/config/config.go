package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satoshitrading/oci-calculator-backend/internal/pricing"
	"github.com/satoshitrading/oci-calculator-backend/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	DocAI     DocAIConfig     `yaml:"docai" mapstructure:"docai"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	ObjStore  ObjStoreConfig  `yaml:"objstore" mapstructure:"objstore"`
	LiftShift LiftShiftConfig `yaml:"liftshift" mapstructure:"liftshift"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// OCRConfig configures local PDF text extraction. The binaries are
// poppler-utils and tesseract; Langs is a tesseract language pack list.
type OCRConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdfToPpmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	Langs         string `yaml:"langs" mapstructure:"langs"`
}

// DocAIConfig configures the remote PDF extraction backends. Anthropic
// settings drive the generative extractor; Endpoint and Key drive the
// structured-document service. An empty key disables a backend.
type DocAIConfig struct {
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	Key            string `yaml:"key" mapstructure:"key"`
}

// PricingConfig configures the target-price lookup chain.
type PricingConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Currency string `yaml:"currency" mapstructure:"currency"`
}

// ObjStoreConfig configures the S3 bucket that billing exports are
// delivered to.
type ObjStoreConfig struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Region string `yaml:"region" mapstructure:"region"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// LiftShiftConfig configures the cost modeler.
type LiftShiftConfig struct {
	Currency string `yaml:"currency" mapstructure:"currency"`
}

// Validate checks the configuration needed for one command mode.
// Modes: "ingest" (parse and persist), "model" (lift-and-shift run),
// "fetch" (pull the newest export from object storage).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required for the postgres driver")
	}

	switch mode {
	case "ingest":
	case "model":
		if len(c.LiftShift.Currency) != 3 {
			problems = append(problems, "liftshift.currency must be a 3-letter code")
		}
	case "fetch":
		if c.ObjStore.Bucket == "" {
			problems = append(problems, "objstore.bucket is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OCICALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ocicalc.db")
	v.SetDefault("store.pool.max_conns", 10)
	v.SetDefault("store.pool.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.langs", "eng+por")
	v.SetDefault("docai.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("pricing.base_url", pricing.DefaultPriceListURL)
	v.SetDefault("pricing.currency", "USD")
	v.SetDefault("objstore.region", "us-east-1")
	v.SetDefault("liftshift.currency", "USD")

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
