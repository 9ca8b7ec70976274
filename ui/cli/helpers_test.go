// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HappyFox001/cursor-free/internal/platform"
	"github.com/HappyFox001/cursor-free/internal/testutil"
)

// cliEnv is an isolated home with a path table, config file and fakes.
type cliEnv struct {
	dir       string
	cfgPath   string
	pathsFile string
	storage   string
	state     string
	backupDir string
	plat      *testutil.FakePlatform
	mailbox   *testutil.FakeMailbox
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	t.Setenv("HOME", tmp)
	wd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	live := filepath.Join(tmp, "live")
	env := &cliEnv{
		dir:       tmp,
		cfgPath:   filepath.Join(tmp, "config.yaml"),
		pathsFile: filepath.Join(tmp, "paths.toml"),
		storage:   filepath.Join(live, "storage.json"),
		state:     filepath.Join(live, "state.json"),
		backupDir: filepath.Join(tmp, "backups"),
		plat:      &testutil.FakePlatform{Privileged: true},
	}

	var table strings.Builder
	for _, section := range []string{"linux", "macos", "windows"} {
		fmt.Fprintf(&table, "[%s]\nstorage_path = '%s'\nstate_path = '%s'\n\n", section, env.storage, env.state)
	}
	writeTestFile(t, env.pathsFile, table.String())

	fake, baseURL := testutil.NewFakeMailbox(t)
	fake.RequireEmail("inbox@mailto.plus")
	env.mailbox = fake

	cfg := fmt.Sprintf(`language: en
log_level: error
backup_dir: '%s'
paths_file: '%s'
mailbox:
  base_url: '%s'
  username: inbox
  extension: '@mailto.plus'
  timeout: 5s
poll:
  max_retries: 2
  interval: 1ms
history:
  enabled: true
  type: sqlite
  dsn: '%s'
`, env.backupDir, env.pathsFile, baseURL, filepath.Join(tmp, "history.db"))
	writeTestFile(t, env.cfgPath, cfg)

	prevPlatform, prevTerminal := newPlatform, isTerminal
	newPlatform = func() platform.Platform { return env.plat }
	isTerminal = func() bool { return false }
	t.Cleanup(func() {
		newPlatform, isTerminal = prevPlatform, prevTerminal
	})
	return env
}

// run executes a fresh root command and returns everything written to its
// output streams.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", e.cfgPath))
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
