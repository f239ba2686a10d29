// Package models holds the service configuration.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration, loaded from YAML with
// environment-variable overrides.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Paths   PathsConfig   `yaml:"paths"`
	Engine  EngineConfig  `yaml:"engine"`
	Quality QualityConfig `yaml:"quality"`
	AI      AIConfig      `yaml:"ai"`
}

// StorageConfig selects the document storage backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "local" or "s3"
	BaseDir string `yaml:"base_dir"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`
	MinIOUseSSL    bool   `yaml:"minio_use_ssl"`
}

// PathsConfig controls where inputs are expected and outputs are written.
type PathsConfig struct {
	InputDir     string `yaml:"input_dir"`
	OutputDir    string `yaml:"output_dir"`
	OutputSuffix string `yaml:"output_suffix"`
}

// EngineConfig controls the redaction engines.
type EngineConfig struct {
	Default     string  `yaml:"default"`
	RenderDPI   float64 `yaml:"render_dpi"`
	JPEGQuality int     `yaml:"jpeg_quality"`
}

// QualityConfig controls quality evaluation.
type QualityConfig struct {
	Extractor string  `yaml:"extractor"` // "tesseract", "openai" or "gemini"
	Language  string  `yaml:"language"`
	OCRDPI    float64 `yaml:"ocr_dpi"`
}

// AIConfig holds credentials for the AI-backed text extractors.
type AIConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Load reads the configuration file at path, applies defaults and
// environment overrides. A missing file is not an error; defaults and the
// environment alone are a valid configuration.
func Load(path string) (*Config, error) {
	config := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables if present
	if backend := os.Getenv("REDACT_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if dir := os.Getenv("REDACT_BASE_DIR"); dir != "" {
		config.Storage.BaseDir = dir
	}
	if dir := os.Getenv("REDACT_INPUT_DIR"); dir != "" {
		config.Paths.InputDir = dir
	}
	if dir := os.Getenv("REDACT_OUTPUT_DIR"); dir != "" {
		config.Paths.OutputDir = dir
	}
	if engine := os.Getenv("REDACT_DEFAULT_ENGINE"); engine != "" {
		config.Engine.Default = engine
	}
	if dpi := os.Getenv("REDACT_RENDER_DPI"); dpi != "" {
		fmt.Sscanf(dpi, "%f", &config.Engine.RenderDPI)
	}
	if extractor := os.Getenv("REDACT_QUALITY_EXTRACTOR"); extractor != "" {
		config.Quality.Extractor = extractor
	}
	if lang := os.Getenv("REDACT_OCR_LANGUAGE"); lang != "" {
		config.Quality.Language = lang
	}
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		config.Storage.MinIOEndpoint = endpoint
	}
	if key := os.Getenv("MINIO_ACCESS_KEY"); key != "" {
		config.Storage.MinIOAccessKey = key
	}
	if key := os.Getenv("MINIO_SECRET_KEY"); key != "" {
		config.Storage.MinIOSecretKey = key
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		config.Storage.MinIOBucket = bucket
	}
	if os.Getenv("MINIO_USE_SSL") == "true" {
		config.Storage.MinIOUseSSL = true
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.AI.OpenAI.APIKey = key
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.AI.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "local",
			BaseDir: ".",
		},
		Paths: PathsConfig{
			InputDir:     "data/input",
			OutputDir:    "data/output",
			OutputSuffix: "_redacted.pdf",
		},
		Engine: EngineConfig{
			Default:     "glyph",
			RenderDPI:   200,
			JPEGQuality: 95,
		},
		Quality: QualityConfig{
			Extractor: "tesseract",
			Language:  "eng",
			OCRDPI:    400,
		},
		AI: AIConfig{
			OpenAI: OpenAIConfig{Model: "gpt-4o-mini"},
			Gemini: GeminiConfig{Model: "gemini-1.5-flash"},
		},
	}
}
