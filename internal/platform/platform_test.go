// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package platform

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestUserFromEnv(t *testing.T) {
	env := map[string]string{"USER": "bob", "SUDO_USER": "  "}
	got := userFromEnv(func(k string) string { return env[k] }, "SUDO_USER", "USER")
	if got != "bob" {
		t.Fatalf("userFromEnv = %q; want bob", got)
	}
	if got := userFromEnv(func(string) string { return "" }, "A", "B"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestExitCode_NonExitError(t *testing.T) {
	if got := exitCode(errors.New("boom")); got != -1 {
		t.Fatalf("exitCode = %d; want -1", got)
	}
}

func TestTerminateProcesses_CommandFailurePropagates(t *testing.T) {
	p := &osPlatform{run: func(context.Context, string, ...string) error {
		return exec.ErrNotFound
	}}
	if err := p.TerminateProcesses(context.Background(), "cursor"); !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected wrapped exec.ErrNotFound, got %v", err)
	}
}

func TestTerminateProcesses_Success(t *testing.T) {
	var gotName string
	var gotArgs []string
	p := &osPlatform{run: func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}
	if err := p.TerminateProcesses(context.Background(), p.DefaultProcessName()); err != nil {
		t.Fatalf("TerminateProcesses: %v", err)
	}
	if gotName == "" || len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != p.DefaultProcessName() {
		t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
	}
}

func TestNew_ReturnsPlatform(t *testing.T) {
	p := New()
	if p.DefaultProcessName() == "" {
		t.Fatal("empty default process name")
	}
	if p.PrivilegeHint() == "" {
		t.Fatal("empty privilege hint")
	}
}
