// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the application configuration from defaults, YAML
// files, environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName    = "cursor-free"
	envPrefix  = "cursorfree"
	configType = "yaml"
)

// legacyEnv maps configuration keys to the environment variables older
// releases read.
var legacyEnv = map[string]string{
	"mailbox.username":  "TEMP_MAIL",
	"mailbox.extension": "TEMP_MAIL_EXT",
	"mailbox.epin":      "TEMP_MAIL_EPIN",
}

// GetConfigPath returns the full path of the user or system configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), appName)
		default:
			configDir = "/etc/" + appName
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, appName)
	}
	return filepath.Join(configDir, appName+".yaml"), nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// configCandidates lists the config files LoadConfig looks for, in order:
// user directory, system directory, working directory.
func configCandidates() []string {
	var out []string
	if p, err := GetConfigPath(false); err == nil {
		out = append(out, p)
	}
	if p, err := GetConfigPath(true); err == nil {
		out = append(out, p)
	}
	return append(out, appName+".yaml")
}

// findConfigFile returns the first candidate that is a regular file, or "".
// Only the full file name is matched, never a bare "cursor-free".
func findConfigFile() string {
	for _, p := range configCandidates() {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// LoadConfig builds a T from defaults, the first config file found, the
// environment and the flags of cmd, in increasing precedence. When no file
// (or only an empty one) was found, the loaded value is returned together
// with a viper.ConfigFileNotFoundError.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType(configType)
	path := ""
	if explicitPath != nil {
		path = *explicitPath
	} else {
		path = findConfigFile()
	}

	var notFound error
	if path == "" {
		notFound = viper.ConfigFileNotFoundError{}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
		if info, statErr := os.Stat(path); statErr == nil && info.Size() == 0 {
			notFound = viper.ConfigFileNotFoundError{}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := strings.ToUpper(envPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return c, err
		}
	}

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, notFound
}

// WriteConfigFile writes c to the user (or system) configuration path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	// The mailbox PIN may be stored here.
	return os.WriteFile(path, data, 0o600)
}
