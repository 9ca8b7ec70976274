//go:build windows
// +build windows

// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package platform

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"golang.org/x/sys/windows"

	"github.com/HappyFox001/cursor-free/internal/logging"
)

// CheckPrivileges reports whether the process token is elevated.
func (p *osPlatform) CheckPrivileges() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}

// TerminateProcesses runs taskkill /F /IM name. taskkill exits with 128 when
// no process matched.
func (p *osPlatform) TerminateProcesses(ctx context.Context, name string) error {
	err := p.run(ctx, "taskkill", "/F", "/IM", name)
	if err == nil {
		logging.Infof("terminated %s processes", name)
		return nil
	}
	if code := exitCode(err); code == 128 || code == 1 {
		logging.Debugf("no running %s process", name)
		return nil
	}
	return fmt.Errorf("taskkill %s: %w", name, err)
}

func (p *osPlatform) CurrentUser() (string, error) {
	if name := userFromEnv(os.Getenv, "USERNAME"); name != "" {
		return name, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("could not determine current user: %w", err)
	}
	return u.Username, nil
}

func (p *osPlatform) DefaultProcessName() string { return "Cursor.exe" }

func (p *osPlatform) Launch(ctx context.Context) error {
	return p.start(ctx, "cmd", "/c", "start", "", "Cursor.exe")
}

func (p *osPlatform) OpenFile(ctx context.Context, path string) error {
	return p.run(ctx, "notepad", path)
}

func (p *osPlatform) PrivilegeHint() string {
	return "right-click the terminal and choose \"Run as administrator\""
}
