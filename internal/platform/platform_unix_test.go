//go:build !windows
// +build !windows

// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package platform

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestTerminateProcesses_NothingToKill(t *testing.T) {
	// `false` exits with status 1, like pkill when nothing matched.
	p := &osPlatform{run: func(ctx context.Context, _ string, _ ...string) error {
		return exec.CommandContext(ctx, "false").Run()
	}}
	if err := p.TerminateProcesses(context.Background(), "cursor"); err != nil {
		t.Fatalf("exit status 1 must be treated as success, got %v", err)
	}
}

func TestCurrentUser_PrefersSudoUser(t *testing.T) {
	t.Setenv("SUDO_USER", "alice")
	t.Setenv("USER", "root")
	got, err := New().CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got != "alice" {
		t.Fatalf("CurrentUser = %q; want alice", got)
	}
}

func TestTerminateProcesses_MatchesNameExactly(t *testing.T) {
	var got []string
	p := &osPlatform{run: func(_ context.Context, name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}}
	if err := p.TerminateProcesses(context.Background(), "cursor"); err != nil {
		t.Fatalf("TerminateProcesses: %v", err)
	}
	want := []string{"pkill", "-9", "-x", "cursor"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("ran %q; want %q", got, want)
	}
}
