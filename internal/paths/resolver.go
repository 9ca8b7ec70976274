// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package paths resolves where the target application keeps its two
// configuration files. The locations come from a user-editable TOML table
// with one section per operating system; a default table is written on first
// use.
package paths

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
)

// ErrConfig is returned when the path table is unreadable, lacks the entry
// for the current operating system, or a path cannot be expanded.
var ErrConfig = errors.New("path configuration error")

//go:embed default_paths.toml
var defaultTable []byte

// DefaultTable returns the built-in path table.
func DefaultTable() []byte {
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}

// Entry is one operating system section of the table.
type Entry struct {
	StoragePath string `mapstructure:"storage_path"`
	StatePath   string `mapstructure:"state_path"`
}

// Table maps section names ("windows", "macos", "linux") to entries.
type Table map[string]Entry

// Sections returns the section names in sorted order.
func (t Table) Sections() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolver turns the table into absolute file locations.
type Resolver struct {
	// ConfigPath is the TOML file holding the table.
	ConfigPath string
	// Home is the user's home directory used for relative entries.
	Home string
	// GOOS selects the table section.
	GOOS string
	// Getenv looks up %VAR% and $VAR placeholders.
	Getenv func(string) string
}

// DefaultConfigPath is <user config dir>/cursor-backup/paths.toml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "cursor-backup", "paths.toml"), nil
}

// New returns a Resolver for the running system. An empty configPath selects
// DefaultConfigPath.
func New(configPath string) (*Resolver, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		configPath = p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: could not get home directory: %v", ErrConfig, err)
	}
	return &Resolver{
		ConfigPath: configPath,
		Home:       home,
		GOOS:       runtime.GOOS,
		Getenv:     os.Getenv,
	}, nil
}

// EnsureConfig writes the default table when ConfigPath does not exist yet.
// It reports whether a file was created.
func (r *Resolver) EnsureConfig() (bool, error) {
	if _, err := os.Stat(r.ConfigPath); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", r.ConfigPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(r.ConfigPath), 0o755); err != nil {
		return false, fmt.Errorf("could not create config directory %s: %w", filepath.Dir(r.ConfigPath), err)
	}
	if err := os.WriteFile(r.ConfigPath, defaultTable, 0o644); err != nil {
		return false, fmt.Errorf("write default path table: %w", err)
	}
	logging.Infof("wrote default path configuration to %s", r.ConfigPath)
	return true, nil
}

// Load reads the table, creating the default one first if needed.
func (r *Resolver) Load() (Table, error) {
	if _, err := r.EnsureConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	v := viper.New()
	v.SetConfigFile(r.ConfigPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfig, r.ConfigPath, err)
	}
	table := Table{}
	if err := v.Unmarshal(&table); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrConfig, r.ConfigPath, err)
	}
	return table, nil
}

// Resolve returns the expanded storage and state paths for r.GOOS.
func (r *Resolver) Resolve() (model.ConfigFileLocation, error) {
	var loc model.ConfigFileLocation

	section, err := SectionFor(r.GOOS)
	if err != nil {
		return loc, err
	}
	table, err := r.Load()
	if err != nil {
		return loc, err
	}
	entry, ok := table[section]
	if !ok {
		return loc, fmt.Errorf("%w: %s has no [%s] section", ErrConfig, r.ConfigPath, section)
	}
	if strings.TrimSpace(entry.StoragePath) == "" {
		return loc, fmt.Errorf("%w: [%s] is missing storage_path", ErrConfig, section)
	}
	if strings.TrimSpace(entry.StatePath) == "" {
		return loc, fmt.Errorf("%w: [%s] is missing state_path", ErrConfig, section)
	}

	if loc.StoragePath, err = r.Expand(entry.StoragePath); err != nil {
		return loc, err
	}
	if loc.StatePath, err = r.Expand(entry.StatePath); err != nil {
		return loc, err
	}
	logging.Debugf("resolved paths: storage=%s state=%s", loc.StoragePath, loc.StatePath)
	return loc, nil
}

// SectionFor maps a GOOS value to its table section.
func SectionFor(goos string) (string, error) {
	switch goos {
	case "windows":
		return "windows", nil
	case "darwin":
		return "macos", nil
	case "linux":
		return "linux", nil
	}
	return "", fmt.Errorf("%w: unsupported operating system %q", ErrConfig, goos)
}

var percentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// Expand substitutes placeholders in raw and anchors relative results at the
// home directory. An unresolvable placeholder is an ErrConfig.
func (r *Resolver) Expand(raw string) (string, error) {
	s, err := r.substitute(raw)
	if err != nil {
		return "", err
	}
	if s == "~" {
		s = r.Home
	} else if strings.HasPrefix(s, "~/") || strings.HasPrefix(s, `~\`) {
		s = filepath.Join(r.Home, s[2:])
	}
	if r.isAbs(s) {
		return filepath.Clean(s), nil
	}
	return filepath.Join(r.Home, s), nil
}

func (r *Resolver) substitute(raw string) (string, error) {
	var missing []string
	s := percentVar.ReplaceAllStringFunc(raw, func(m string) string {
		name := m[1 : len(m)-1]
		if strings.EqualFold(name, "APPDATA") {
			return filepath.Join(r.Home, "AppData", "Roaming")
		}
		if val := r.getenv(name); val != "" {
			return val
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: unresolved placeholder %%%s%% in %q", ErrConfig, missing[0], raw)
	}
	if r.GOOS != "windows" {
		s = os.Expand(s, func(name string) string {
			val := r.getenv(name)
			if val == "" {
				missing = append(missing, name)
			}
			return val
		})
		if len(missing) > 0 {
			return "", fmt.Errorf("%w: unresolved variable $%s in %q", ErrConfig, missing[0], raw)
		}
	}
	return s, nil
}

func (r *Resolver) getenv(name string) string {
	if r.Getenv == nil {
		return os.Getenv(name)
	}
	return r.Getenv(name)
}

func (r *Resolver) isAbs(p string) bool {
	if r.GOOS == "windows" {
		if strings.HasPrefix(p, `\\`) || filepath.IsAbs(p) {
			return true
		}
		return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
	}
	return filepath.IsAbs(p)
}
