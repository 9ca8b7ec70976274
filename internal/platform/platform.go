// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package platform hides the operating system specific parts of a reset:
// privilege detection, stopping the target application, and launching tools.
// The concrete implementation is chosen at build time.
package platform

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/HappyFox001/cursor-free/internal/logging"
)

// Platform is the set of OS capabilities the reset flow depends on.
type Platform interface {
	// CheckPrivileges reports whether the process runs with administrative rights.
	CheckPrivileges() (bool, error)
	// TerminateProcesses force-stops every process matching name. Having
	// nothing to stop is not an error.
	TerminateProcesses(ctx context.Context, name string) error
	// CurrentUser returns the invoking user's name.
	CurrentUser() (string, error)
	// DefaultProcessName is the target application's process name on this OS.
	DefaultProcessName() string
	// Launch starts the target application without waiting for it.
	Launch(ctx context.Context) error
	// OpenFile opens path in the user's editor and waits for it to exit.
	OpenFile(ctx context.Context, path string) error
	// PrivilegeHint is shown to the user when CheckPrivileges returns false.
	PrivilegeHint() string
}

// New returns the Platform for the running OS.
func New() Platform {
	return &osPlatform{run: runCommand, start: startCommand}
}

type osPlatform struct {
	run   func(ctx context.Context, name string, args ...string) error
	start func(ctx context.Context, name string, args ...string) error
}

func runCommand(ctx context.Context, name string, args ...string) error {
	logging.Debugf("exec: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func startCommand(ctx context.Context, name string, args ...string) error {
	logging.Debugf("start: %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// exitCode extracts the exit status from an *exec.ExitError, or -1.
func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// userFromEnv returns the first non-empty variable among keys.
func userFromEnv(getenv func(string) string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
