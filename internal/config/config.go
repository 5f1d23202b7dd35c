// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the upload cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIVersion     string `yaml:"api_version"`
	Deployment     string `yaml:"deployment"`
	APIKey         string `yaml:"api_key"` // empty means Entra token credential
	UploadedFileID string `yaml:"uploaded_file_id"`
}

type IngestConfig struct {
	DocumentPath       string            `yaml:"document_path"`
	StoreName          string            `yaml:"store_name"`
	StorePrefix        string            `yaml:"store_prefix"` // used by purge to find leftovers
	ExpiresDays        int               `yaml:"expires_days"`
	MaxChunkTokens     int               `yaml:"max_chunk_tokens"`
	ChunkOverlapTokens int               `yaml:"chunk_overlap_tokens"`
	Attributes         map[string]string `yaml:"attributes"`
	PollInterval       time.Duration     `yaml:"poll_interval"`
	PollTimeout        time.Duration     `yaml:"poll_timeout"`
}

type QueryConfig struct {
	Question       string  `yaml:"question"`
	MaxResults     int     `yaml:"max_results"`
	FilterKey      string  `yaml:"filter_key"`
	FilterValue    string  `yaml:"filter_value"`
	Ranker         string  `yaml:"ranker"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Admin  AdminConfig  `yaml:"admin"`
	Redis  RedisConfig  `yaml:"redis"`
	AI     AIConfig     `yaml:"ai"`
	Ingest IngestConfig `yaml:"ingest"`
	Query  QueryConfig  `yaml:"query"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	// .env is optional; values land in the process environment and win
	// over the yaml file below.
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.AI.Endpoint == "" {
		return nil, errors.New("ai.endpoint is required (or AZURE_OPENAI_ENDPOINT)")
	}
	if cfg.AI.Deployment == "" {
		return nil, errors.New("ai.deployment is required (or AZURE_OPENAI_DEPLOYMENT_NAME)")
	}
	if cfg.Ingest.DocumentPath == "" && cfg.AI.UploadedFileID == "" {
		return nil, errors.New("ingest.document_path is required when no uploaded_file_id is set")
	}
	if cfg.Ingest.ChunkOverlapTokens*2 > cfg.Ingest.MaxChunkTokens {
		return nil, fmt.Errorf("ingest.chunk_overlap_tokens (%d) must not exceed half of max_chunk_tokens (%d)",
			cfg.Ingest.ChunkOverlapTokens, cfg.Ingest.MaxChunkTokens)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		cfg.AI.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"); v != "" {
		cfg.AI.Deployment = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		cfg.AI.APIVersion = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("UPLOADED_FILE_ID"); v != "" {
		cfg.AI.UploadedFileID = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8088
	}
	if cfg.AI.APIVersion == "" {
		cfg.AI.APIVersion = "2025-03-01-preview"
	}
	if cfg.Ingest.StoreName == "" {
		cfg.Ingest.StoreName = "document search"
	}
	if cfg.Ingest.StorePrefix == "" {
		cfg.Ingest.StorePrefix = "docsearch"
	}
	if cfg.Ingest.ExpiresDays <= 0 {
		cfg.Ingest.ExpiresDays = 7
	}
	if cfg.Ingest.MaxChunkTokens <= 0 {
		cfg.Ingest.MaxChunkTokens = 100
	}
	if cfg.Ingest.ChunkOverlapTokens < 0 {
		cfg.Ingest.ChunkOverlapTokens = 0
	} else if cfg.Ingest.ChunkOverlapTokens == 0 {
		cfg.Ingest.ChunkOverlapTokens = 20
	}
	if cfg.Ingest.PollInterval <= 0 {
		cfg.Ingest.PollInterval = 5 * time.Second
	}
	if cfg.Ingest.PollTimeout <= 0 {
		cfg.Ingest.PollTimeout = 10 * time.Minute
	}
	if cfg.Query.MaxResults <= 0 {
		cfg.Query.MaxResults = 1
	}
	if cfg.Query.Ranker == "" {
		cfg.Query.Ranker = "auto"
	}
	if cfg.Query.ScoreThreshold <= 0 {
		cfg.Query.ScoreThreshold = 0.01
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}
