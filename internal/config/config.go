package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Limits      LimitsConfig      `yaml:"limits"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	AssemblyAI  AssemblyAIConfig  `yaml:"assemblyai"`
	Summary     SummaryConfig     `yaml:"summary"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds"`
}

type LimitsConfig struct {
	MaxFileSizeMB      int64 `yaml:"max_file_size_mb"`
	MaxRequestsPerHour int   `yaml:"max_requests_per_hour"`
}

type PathsConfig struct {
	Scratch     string `yaml:"scratch"`
	RateLimitDB string `yaml:"rate_limit_db"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type AssemblyAIConfig struct {
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	MaxPollAttempts     int    `yaml:"max_poll_attempts"`
}

type SummaryConfig struct {
	Service string       `yaml:"service"`
	Gemini  GeminiConfig `yaml:"gemini"`
	OpenAI  OpenAIConfig `yaml:"openai"`
	Claude  ClaudeConfig `yaml:"claude"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type ClaudeConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Load reads a YAML config file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AssemblyAI.APIKey == "" {
		return fmt.Errorf("assemblyai.api_key is required")
	}
	if c.Summary.Service == "" {
		return fmt.Errorf("summary.service is required")
	}
	if c.Paths.Scratch == "" {
		return fmt.Errorf("paths.scratch is required")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Limits.MaxFileSizeMB == 0 {
		c.Limits.MaxFileSizeMB = 25
	}
	if c.Limits.MaxRequestsPerHour == 0 {
		c.Limits.MaxRequestsPerHour = 10
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 4
	}
	if c.AssemblyAI.BaseURL == "" {
		c.AssemblyAI.BaseURL = "https://api.assemblyai.com/v2"
	}
	if c.AssemblyAI.PollIntervalSeconds == 0 {
		c.AssemblyAI.PollIntervalSeconds = 10
	}
	if c.AssemblyAI.MaxPollAttempts == 0 {
		c.AssemblyAI.MaxPollAttempts = 360
	}
	if c.Summary.Gemini.Model == "" {
		c.Summary.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Summary.OpenAI.Model == "" {
		c.Summary.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.Summary.OpenAI.BaseURL == "" {
		c.Summary.OpenAI.BaseURL = "https://api.openai.com"
	}
	if c.Summary.Claude.Model == "" {
		c.Summary.Claude.Model = "claude-3-5-sonnet-20241022"
	}
	if c.Summary.Claude.BaseURL == "" {
		c.Summary.Claude.BaseURL = "https://api.anthropic.com"
	}

	return nil
}

// MaxFileSizeBytes returns the upload size ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Limits.MaxFileSizeMB * 1024 * 1024
}
