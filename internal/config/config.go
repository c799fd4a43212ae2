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
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OCR        OCRConfig        `yaml:"ocr" mapstructure:"ocr"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Factors    FactorsConfig    `yaml:"factors" mapstructure:"factors"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	VisionModel       string  `yaml:"vision_model" mapstructure:"vision_model"`
	ReportModel       string  `yaml:"report_model" mapstructure:"report_model"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// OCRConfig configures PDF text extraction binaries and providers.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // "tesseract" or "mistral"
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdfToPpmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	MistralKey    string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ExtractionConfig tunes the tier cascade.
type ExtractionConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	PenaltyPerIssue     float64 `yaml:"penalty_per_issue" mapstructure:"penalty_per_issue"`
	PenaltyCap          float64 `yaml:"penalty_cap" mapstructure:"penalty_cap"`
	EnableOCR           bool    `yaml:"enable_ocr" mapstructure:"enable_ocr"`
	EnableVision        bool    `yaml:"enable_vision" mapstructure:"enable_vision"`
}

// FactorsConfig locates the emission-factor table.
type FactorsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PricingConfig holds flat per-tier pricing for the local tiers. Vision
// pricing comes from token usage, not a flat rate.
type PricingConfig struct {
	TierStructuredUSD float64 `yaml:"tier_structured_usd" mapstructure:"tier_structured_usd"`
	TierOCRUSD        float64 `yaml:"tier_ocr_usd" mapstructure:"tier_ocr_usd"`
}

// ReportConfig tunes disclosure generation and verification.
type ReportConfig struct {
	TolerancePercent float64 `yaml:"tolerance_percent" mapstructure:"tolerance_percent"`
	MaxTokens        int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ESG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets get empty defaults so AutomaticEnv can fill them.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("ocr.mistral_api_key", "")
	v.SetDefault("anthropic.vision_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.report_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.requests_per_minute", 50)
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("ocr.timeout_secs", 120)
	v.SetDefault("extraction.confidence_threshold", 0.85)
	v.SetDefault("extraction.penalty_per_issue", 0.10)
	v.SetDefault("extraction.penalty_cap", 0.30)
	v.SetDefault("extraction.enable_ocr", true)
	v.SetDefault("extraction.enable_vision", true)
	v.SetDefault("factors.path", "data/factors.yaml")
	v.SetDefault("pricing.tier_structured_usd", 0.0001)
	v.SetDefault("pricing.tier_ocr_usd", 0.001)
	v.SetDefault("report.tolerance_percent", 0.1)
	v.SetDefault("report.max_tokens", 1024)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("store.path", "esg.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
