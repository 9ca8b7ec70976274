// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import "time"

// Config is the application configuration.
type Config struct {
	Language  string `mapstructure:"language" yaml:"language" validate:"omitempty,oneof=en zh"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	BackupDir string `mapstructure:"backup_dir" yaml:"backup_dir"`
	PathsFile string `mapstructure:"paths_file" yaml:"paths_file"`

	Target  Target  `mapstructure:"target" yaml:"target"`
	Mailbox Mailbox `mapstructure:"mailbox" yaml:"mailbox"`
	Poll    Poll    `mapstructure:"poll" yaml:"poll"`
	History History `mapstructure:"history" yaml:"history"`
}

// Target describes the application whose identifiers are reset.
type Target struct {
	// ProcessName overrides the OS default process name.
	ProcessName string `mapstructure:"process_name" yaml:"process_name"`
}

// Mailbox configures the disposable mailbox.
type Mailbox struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Username          string        `mapstructure:"username" yaml:"username"`
	Extension         string        `mapstructure:"extension" yaml:"extension"`
	Epin              string        `mapstructure:"epin" yaml:"epin"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`
}

// Poll configures verification code polling.
type Poll struct {
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=1,lte=100"`
	Interval   time.Duration `mapstructure:"interval" yaml:"interval" validate:"gte=0"`
}

// History configures the reset journal.
type History struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Type    string `mapstructure:"type" yaml:"type" validate:"omitempty,oneof=sqlite postgres mysql"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// Defaults returns the built-in values keyed by their viper path.
func Defaults() map[string]any {
	return map[string]any{
		"language":                    "en",
		"log_level":                   "info",
		"backup_dir":                  "",
		"paths_file":                  "",
		"target.process_name":         "",
		"mailbox.base_url":            "https://tempmail.plus/api",
		"mailbox.username":            "",
		"mailbox.extension":           "@mailto.plus",
		"mailbox.epin":                "",
		"mailbox.timeout":             "30s",
		"mailbox.requests_per_second": 2.0,
		"poll.max_retries":            3,
		"poll.interval":               "10s",
		"history.enabled":             true,
		"history.type":                "sqlite",
		"history.dsn":                 "",
	}
}

// FillDefaults replaces empty values that must not be empty.
func (c *Config) FillDefaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Mailbox.BaseURL == "" {
		c.Mailbox.BaseURL = "https://tempmail.plus/api"
	}
	if c.Mailbox.Extension == "" {
		c.Mailbox.Extension = "@mailto.plus"
	}
	if c.Poll.MaxRetries == 0 {
		c.Poll.MaxRetries = 3
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = 10 * time.Second
	}
	if c.History.Type == "" {
		c.History.Type = "sqlite"
	}
}
