// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package config provides the YAML configuration schema for assetwatch.
package config

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	API       API       `mapstructure:"api"       mask:"struct"`
	Database  Database  `mapstructure:"database"  mask:"struct"`
	NATS      NATS      `mapstructure:"nats"`
	Monitor   Monitor   `mapstructure:"monitor"`
	Notify    Notify    `mapstructure:"notify"`
	Retention Retention `mapstructure:"retention"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
	// Environment is an informational tag ("production", "staging", ...)
	// attached to outbound webhook notifications.
	Environment string `mapstructure:"environment"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Database configuration settings for the Postgres-backed stores.
type Database struct {
	// Driver selects the store backend: "postgres" or "memory".
	// The memory backend needs no external infrastructure and is intended
	// for development and tests.
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=postgres memory"`
	// DSN is the Postgres connection string.
	DSN string `mapstructure:"dsn" mask:"password"`
	// MaxOpenConns caps the connection pool size. Zero means driver default.
	MaxOpenConns int `mapstructure:"max_open_conns"`
}

// Monitor configuration settings for the anomaly monitor.
type Monitor struct {
	// Interval between evaluation ticks, e.g. "10s".
	Interval string `mapstructure:"interval"`
	// DedupWindow suppresses re-raising an anomaly type seen within this
	// span, e.g. "5m".
	DedupWindow string `mapstructure:"dedup_window"`
	// LookbackFloor is the minimum log window fetched per tick, e.g. "10m".
	LookbackFloor string `mapstructure:"lookback_floor"`
}

// Notify configuration settings for notification fan-out.
type Notify struct {
	Webhook Webhook `mapstructure:"webhook" mask:"struct"`
	// RepeatWindow tags a fresh alert as a repeat when a previous alert for
	// the same actor and target type arrived within this span, e.g. "30s".
	RepeatWindow string `mapstructure:"repeat_window"`
}

// Webhook configuration for the external chat notification sink.
type Webhook struct {
	// URL of the incoming webhook. Empty enables log-only mock mode.
	URL string `mapstructure:"url" mask:"url"`
	// Channel is an optional channel override included in the payload.
	Channel string `mapstructure:"channel"`
	// Timeout for a single delivery attempt, e.g. "10s".
	Timeout string `mapstructure:"timeout"`
}

// Retention configuration for the audit log archiver.
type Retention struct {
	// Enabled enables the scheduled archiver.
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a cron expression, e.g. "0 3 * * *".
	Schedule string `mapstructure:"schedule"`
	// MaxAge is the retention cutoff, e.g. "2160h" (90 days).
	MaxAge string `mapstructure:"max_age"`
}

// NATSAuth holds client-side authentication settings for connecting to NATS.
type NATSAuth struct {
	// Type is the auth method: "none", "user_pass", or "nkey".
	Type string `mapstructure:"type"`
	// Username for user_pass auth.
	Username string `mapstructure:"username"`
	// Password for user_pass auth.
	Password string `mapstructure:"password"  mask:"password"`
	// NKeyFile path to the NKey seed file for nkey auth.
	NKeyFile string `mapstructure:"nkey_file"`
}

// NATS configuration settings.
type NATS struct {
	Server     NATSServer     `mapstructure:"server,omitempty"`
	Connection NATSConnection `mapstructure:"connection,omitempty"`
	// Subject is the subject anomaly push events are published on.
	Subject string `mapstructure:"subject"`
}

// NATSServer configuration settings for the embedded NATS server.
type NATSServer struct {
	// Host the server will bind to.
	Host string `mapstructure:"host"`
	// Port the server will bind to.
	Port int `mapstructure:"port"`
	// StoreDir the directory for JetStream file storage.
	StoreDir string `mapstructure:"store_dir"`
}

// NATSConnection is a reusable NATS connection configuration block.
type NATSConnection struct {
	// Host the NATS server hostname.
	Host string `mapstructure:"host"`
	// Port the NATS server port.
	Port int `mapstructure:"port"`
	// ClientName the NATS client name for identification.
	ClientName string `mapstructure:"client_name"`
	// Auth holds client-side authentication configuration.
	Auth NATSAuth `mapstructure:"auth,omitempty"`
}

// API configuration settings.
type API struct {
	Client
	Server `mask:"struct"`
}

// Client configuration settings.
type Client struct {
	// URL the client will connect to
	URL string `mapstructure:"url"`
	// Security contains security-related configuration for the client, such as access tokens.
	Security ClientSecurity `mapstructure:"security" mask:"struct"`
}

// ClientSecurity contains client credentials for the REST API.
type ClientSecurity struct {
	// BearerToken presented by the CLI client on every request.
	BearerToken string `mapstructure:"bearer_token" mask:"password" validate:"required"`
}

// Server configuration settings.
type Server struct {
	// Port the server will bind to.
	Port int `mapstructure:"port"`
	// Security contains security-related configuration for the server, such as CORS and tokens.
	Security ServerSecurity `mapstructure:"security" mask:"struct"`
}

// ServerSecurity contains server-side security configuration.
type ServerSecurity struct {
	// SigningKey is the HMAC secret used to sign and verify bearer tokens.
	SigningKey string `mapstructure:"signing_key" mask:"password" validate:"required"`
	// CORS holds cross-origin settings.
	CORS CORS `mapstructure:"cors"`
}

// CORS holds cross-origin resource sharing settings.
type CORS struct {
	// AllowOrigins lists origins allowed to call the API.
	AllowOrigins []string `mapstructure:"allow_origins"`
}
