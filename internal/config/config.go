package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	JWTSecret     string           `json:"jwt_secret"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	LogConfig     logger.LogConfig `json:"log_config"`
	DB            DatabaseConfig   `json:"db"`
	AI            AIConfig         `json:"ai"`
	Source        SourceConfig     `json:"source"`
	Sync          SyncConfig       `json:"sync"`
	Organize      OrganizeConfig   `json:"organize"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	Data          interface{} `json:"data"`
	CacheSize     int         `json:"cache_size"`
	CacheTTLHours int         `json:"cache_ttl_hours"`
}

type SourceConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type SyncConfig struct {
	Strategy     string   `json:"strategy"`
	Limit        int      `json:"limit"`
	Concurrency  int      `json:"concurrency"`
	MaxChunkSize int      `json:"max_chunk_size"`
	Cron         string   `json:"cron"`
	Users        []string `json:"users"`
}

type OrganizeConfig struct {
	MaxClusters    int   `json:"max_clusters"`
	MinClusterSize int   `json:"min_cluster_size"`
	Seed           int64 `json:"seed"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.DB.DSN == "" && (cfg.DB.Host == "" || cfg.DB.DBName == "") {
		return nil, fmt.Errorf("db.dsn or db.host/db.db_name are required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 10000
	}
	if cfg.AI.CacheTTLHours == 0 {
		cfg.AI.CacheTTLHours = 2
	}
	if cfg.Source.Type == "" {
		return nil, fmt.Errorf("source.type is required")
	}
	if cfg.Sync.Strategy == "" {
		cfg.Sync.Strategy = "new_files_only"
	}
	if cfg.Sync.Limit == 0 {
		cfg.Sync.Limit = 20
	}
	if cfg.Sync.Concurrency == 0 {
		cfg.Sync.Concurrency = 4
	}
	if cfg.Sync.MaxChunkSize == 0 {
		cfg.Sync.MaxChunkSize = 1000
	}
	if cfg.Organize.MaxClusters == 0 {
		cfg.Organize.MaxClusters = 8
	}
	if cfg.Organize.MinClusterSize == 0 {
		cfg.Organize.MinClusterSize = 3
	}
	if cfg.Organize.MaxClusters < 1 {
		return nil, fmt.Errorf("organize.max_clusters must be positive")
	}
	if cfg.Organize.MinClusterSize < 1 {
		return nil, fmt.Errorf("organize.min_cluster_size must be positive")
	}
	return &cfg, nil
}
