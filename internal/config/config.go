package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the analysis-result cache settings. The cache is optional:
// with Enabled=false every analysis request recomputes from the database.
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// StorageConfig holds raw-export archive settings.
// Type is "local" or "s3".
type StorageConfig struct {
	Type       string `yaml:"type"`
	LocalPath  string `yaml:"local_path"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"`
}

// ProfileWeights is one opportunity-scoring weight set. Weights must sum to 1.0.
type ProfileWeights struct {
	Uplift     float64 `yaml:"uplift"`
	Volume     float64 `yaml:"volume"`
	CPC        float64 `yaml:"cpc"`
	Difficulty float64 `yaml:"difficulty"`
}

// ScoringConfig holds the adaptive opportunity-scoring profiles. The profile
// applied to a dataset depends on which optional signals (CPC, difficulty)
// are present; see metrics.ComputeOpportunities.
type ScoringConfig struct {
	Full           ProfileWeights `yaml:"full"`
	WithCPC        ProfileWeights `yaml:"with_cpc"`
	WithDifficulty ProfileWeights `yaml:"with_difficulty"`
	Base           ProfileWeights `yaml:"base"`
}

// Load reads configuration from a YAML file and applies defaults.
// A missing file is not an error: defaults plus env overrides are enough
// to run against a local database.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTLMinutes == 0 {
		cfg.Redis.TTLMinutes = 30
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "data/raw-exports"
	}
	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = "us-west-2"
	}

	// Scoring profile defaults. The weight values are tuning constants carried
	// over from the original calibration; each profile sums to 1.0.
	if cfg.Scoring.Full == (ProfileWeights{}) {
		cfg.Scoring.Full = ProfileWeights{Uplift: 0.55, Volume: 0.20, CPC: 0.15, Difficulty: 0.10}
	}
	if cfg.Scoring.WithCPC == (ProfileWeights{}) {
		cfg.Scoring.WithCPC = ProfileWeights{Uplift: 0.65, Volume: 0.25, CPC: 0.10}
	}
	if cfg.Scoring.WithDifficulty == (ProfileWeights{}) {
		cfg.Scoring.WithDifficulty = ProfileWeights{Uplift: 0.70, Volume: 0.20, Difficulty: 0.10}
	}
	if cfg.Scoring.Base == (ProfileWeights{}) {
		cfg.Scoring.Base = ProfileWeights{Uplift: 0.70, Volume: 0.30}
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("EXPORT_ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Storage.Type = "s3"
		cfg.Storage.S3Bucket = v
	}
	if v := os.Getenv("EXPORT_ARCHIVE_S3_REGION"); v != "" {
		cfg.Storage.S3Region = v
	}
	if v := os.Getenv("EXPORT_ARCHIVE_PATH"); v != "" {
		cfg.Storage.LocalPath = v
	}

	return cfg, nil
}
