package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Scanner   ScannerConfig   `yaml:"scanner" mapstructure:"scanner"`
	Highlight HighlightConfig `yaml:"highlight" mapstructure:"highlight"`
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// ScannerConfig contains sensitive-data detection configuration
type ScannerConfig struct {
	Enabled   bool     `yaml:"enabled" mapstructure:"enabled"`
	Detectors []string `yaml:"detectors" mapstructure:"detectors"`
}

// HighlightConfig contains match rendering configuration
type HighlightConfig struct {
	ClassPrefix string `yaml:"class_prefix" mapstructure:"class_prefix"`
}

// TemplatesConfig contains template engine configuration
type TemplatesConfig struct {
	Store TemplateStoreConfig `yaml:"store" mapstructure:"store"`
}

// TemplateStoreConfig contains the Redis-backed template store configuration
type TemplateStoreConfig struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix      string `yaml:"key_prefix" mapstructure:"key_prefix"`
	MaxConnections int    `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int    `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
}

// RateLimitConfig contains per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string            `yaml:"level" mapstructure:"level"`
	Format string            `yaml:"format" mapstructure:"format"` // json or console
	File   LoggingFileConfig `yaml:"file" mapstructure:"file"`
}

// LoggingFileConfig contains file logging configuration
type LoggingFileConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Path     string `yaml:"path" mapstructure:"path"`
	MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
	MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
	Compress bool   `yaml:"compress" mapstructure:"compress"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	Enabled         bool                 `yaml:"enabled" mapstructure:"enabled"`
	Path            string               `yaml:"path" mapstructure:"path"`
	Username        string               `yaml:"username" mapstructure:"username"`
	Password        string               `yaml:"password" mapstructure:"password"`
	ReadBufferSize  int                  `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int                  `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration        `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration        `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration        `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64                `yaml:"max_message_size" mapstructure:"max_message_size"`
	Events          WebSocketEventConfig `yaml:"events" mapstructure:"events"`
}

// WebSocketEventConfig selects which event categories are broadcast
type WebSocketEventConfig struct {
	BroadcastRequests    bool `yaml:"broadcast_requests" mapstructure:"broadcast_requests"`
	BroadcastDetections  bool `yaml:"broadcast_detections" mapstructure:"broadcast_detections"`
	BroadcastSystem      bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
	BroadcastConnections bool `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Scanner: ScannerConfig{
			Enabled:   true,
			Detectors: []string{"all"},
		},
		Highlight: HighlightConfig{
			ClassPrefix: "sw",
		},
		Templates: TemplatesConfig{
			Store: TemplateStoreConfig{
				Enabled:        false,
				RedisURL:       "redis://localhost:6379/0",
				KeyPrefix:      "sharewatch:templates:",
				MaxConnections: 10,
				MinIdleConns:   2,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File: LoggingFileConfig{
				Enabled:  false,
				Path:     "logs/sharewatch.log",
				MaxSize:  100, // MB
				MaxAge:   30,  // days
				Compress: true,
			},
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			Path:            "/ws",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxMessageSize:  512,
			Events: WebSocketEventConfig{
				BroadcastRequests:    true,
				BroadcastDetections:  true,
				BroadcastSystem:      true,
				BroadcastConnections: true,
			},
		},
	}
}
