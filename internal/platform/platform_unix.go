//go:build !windows
// +build !windows

// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package platform

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/HappyFox001/cursor-free/internal/logging"
)

// CheckPrivileges reports whether the effective uid is root.
func (p *osPlatform) CheckPrivileges() (bool, error) {
	return unix.Geteuid() == 0, nil
}

// TerminateProcesses runs pkill -9 -x against name. The match is exact so
// this process (cursor-free) is never a target. pkill exits with 1 when no
// process matched, which is treated as success.
func (p *osPlatform) TerminateProcesses(ctx context.Context, name string) error {
	err := p.run(ctx, "pkill", "-9", "-x", name)
	if err == nil {
		logging.Infof("terminated %s processes", name)
		return nil
	}
	if exitCode(err) == 1 {
		logging.Debugf("no running %s process", name)
		return nil
	}
	return fmt.Errorf("pkill %s: %w", name, err)
}

// CurrentUser prefers SUDO_USER so a sudo invocation reports the real user.
func (p *osPlatform) CurrentUser() (string, error) {
	if name := userFromEnv(os.Getenv, "SUDO_USER", "USER"); name != "" {
		return name, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("could not determine current user: %w", err)
	}
	return u.Username, nil
}

func (p *osPlatform) DefaultProcessName() string {
	if runtime.GOOS == "darwin" {
		return "Cursor"
	}
	return "cursor"
}

func (p *osPlatform) Launch(ctx context.Context) error {
	if runtime.GOOS == "darwin" {
		return p.start(ctx, "open", "-a", "Cursor")
	}
	return p.start(ctx, "cursor")
}

// OpenFile uses $EDITOR when set, otherwise the desktop opener with nano as
// the last resort.
func (p *osPlatform) OpenFile(ctx context.Context, path string) error {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return p.run(ctx, editor, path)
	}
	if runtime.GOOS == "darwin" {
		return p.run(ctx, "open", "-t", path)
	}
	if err := p.run(ctx, "xdg-open", path); err != nil {
		logging.Debugf("xdg-open failed (%v), falling back to nano", err)
		return p.run(ctx, "nano", path)
	}
	return nil
}

func (p *osPlatform) PrivilegeHint() string {
	return "re-run with sudo, e.g. sudo cursor-free reset"
}
