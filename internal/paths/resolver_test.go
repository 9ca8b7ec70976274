// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestResolver(t *testing.T, goos string, env map[string]string) *Resolver {
	t.Helper()
	tmp := t.TempDir()
	return &Resolver{
		ConfigPath: filepath.Join(tmp, "cfg", "cursor-backup", "paths.toml"),
		Home:       filepath.Join(tmp, "home"),
		GOOS:       goos,
		Getenv:     func(k string) string { return env[k] },
	}
}

func writeTable(t *testing.T, r *Resolver, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(r.ConfigPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(r.ConfigPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write table: %v", err)
	}
}

func TestResolve_MaterializesDefaultTable(t *testing.T) {
	r := newTestResolver(t, "linux", nil)

	loc, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	data, err := os.ReadFile(r.ConfigPath)
	if err != nil {
		t.Fatalf("default table not written: %v", err)
	}
	if string(data) != string(DefaultTable()) {
		t.Fatalf("written table differs from the embedded default")
	}
	want := filepath.Join(r.Home, ".config", "Cursor", "User", "globalStorage", "storage.json")
	if loc.StoragePath != want {
		t.Fatalf("storage path = %q; want %q", loc.StoragePath, want)
	}
	if !filepath.IsAbs(loc.StatePath) || !strings.HasSuffix(loc.StatePath, "state.json") {
		t.Fatalf("unexpected state path %q", loc.StatePath)
	}
}

func TestEnsureConfig_DoesNotOverwrite(t *testing.T) {
	r := newTestResolver(t, "linux", nil)
	custom := "[linux]\nstorage_path = 'a.json'\nstate_path = 'b.json'\n"
	writeTable(t, r, custom)

	created, err := r.EnsureConfig()
	if err != nil {
		t.Fatalf("EnsureConfig: %v", err)
	}
	if created {
		t.Fatalf("existing table must not be replaced")
	}
	data, _ := os.ReadFile(r.ConfigPath)
	if string(data) != custom {
		t.Fatalf("table content changed: %q", data)
	}
}

func TestResolve_MacOSSection(t *testing.T) {
	r := newTestResolver(t, "darwin", nil)
	loc, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(loc.StoragePath, filepath.Join("Library", "Application Support", "Cursor")) {
		t.Fatalf("unexpected macOS storage path %q", loc.StoragePath)
	}
}

func TestResolve_AbsolutePathKept(t *testing.T) {
	r := newTestResolver(t, "linux", nil)
	abs := filepath.Join(t.TempDir(), "x", "storage.json")
	writeTable(t, r, "[linux]\nstorage_path = '"+abs+"'\nstate_path = 'rel/state.json'\n")

	loc, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.StoragePath != abs {
		t.Fatalf("absolute path rewritten: %q", loc.StoragePath)
	}
	if loc.StatePath != filepath.Join(r.Home, "rel", "state.json") {
		t.Fatalf("relative path not anchored at home: %q", loc.StatePath)
	}
}

func TestResolve_ConfigErrors(t *testing.T) {
	cases := []struct {
		name  string
		goos  string
		table string
	}{
		{"missing section", "linux", "[windows]\nstorage_path = 'a'\nstate_path = 'b'\n"},
		{"missing storage_path", "linux", "[linux]\nstate_path = 'b'\n"},
		{"missing state_path", "linux", "[linux]\nstorage_path = 'a'\n"},
		{"unsupported os", "plan9", "[linux]\nstorage_path = 'a'\nstate_path = 'b'\n"},
		{"malformed toml", "linux", "[linux\nstorage_path = "},
		{"unresolved placeholder", "linux", "[linux]\nstorage_path = '%NOPE%/a'\nstate_path = 'b'\n"},
		{"unresolved variable", "linux", "[linux]\nstorage_path = '$NOPE/a'\nstate_path = 'b'\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestResolver(t, c.goos, nil)
			writeTable(t, r, c.table)
			_, err := r.Resolve()
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestExpand_Placeholders(t *testing.T) {
	r := newTestResolver(t, "linux", map[string]string{"XDG_DATA": "/data", "CURSOR_HOME": "/opt/cursor"})

	cases := []struct {
		in   string
		want string
	}{
		{"$XDG_DATA/a.json", "/data/a.json"},
		{"${CURSOR_HOME}/b.json", "/opt/cursor/b.json"},
		{"%CURSOR_HOME%/c.json", "/opt/cursor/c.json"},
		{"~/d.json", filepath.Join(r.Home, "d.json")},
		{"e.json", filepath.Join(r.Home, "e.json")},
	}
	for _, c := range cases {
		got, err := r.Expand(c.in)
		if err != nil {
			t.Fatalf("Expand(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Expand(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestSubstitute_WindowsAppData(t *testing.T) {
	r := newTestResolver(t, "windows", map[string]string{"APPDATA": "ignored"})
	got, err := r.substitute(`%APPDATA%\Cursor\User\globalStorage\storage.json`)
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	wantPrefix := filepath.Join(r.Home, "AppData", "Roaming")
	if !strings.HasPrefix(got, wantPrefix) || !strings.HasSuffix(got, `storage.json`) {
		t.Fatalf("unexpected substitution %q", got)
	}
	if strings.Contains(got, "%") {
		t.Fatalf("placeholder left in %q", got)
	}
}

func TestSubstitute_WindowsKeepsDollar(t *testing.T) {
	r := newTestResolver(t, "windows", nil)
	got, err := r.substitute(`C:\Data$\storage.json`)
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if got != `C:\Data$\storage.json` {
		t.Fatalf("windows path changed: %q", got)
	}
}

func TestSectionFor(t *testing.T) {
	for goos, want := range map[string]string{"windows": "windows", "darwin": "macos", "linux": "linux"} {
		got, err := SectionFor(goos)
		if err != nil || got != want {
			t.Fatalf("SectionFor(%q) = %q, %v", goos, got, err)
		}
	}
}

func TestLoad_Sections(t *testing.T) {
	r := newTestResolver(t, "linux", nil)
	table, err := r.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := strings.Join(table.Sections(), ",")
	if got != "linux,macos,windows" {
		t.Fatalf("unexpected sections %q", got)
	}
}
