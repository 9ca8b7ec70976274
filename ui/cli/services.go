// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/HappyFox001/cursor-free/internal/backup"
	"github.com/HappyFox001/cursor-free/internal/config"
	"github.com/HappyFox001/cursor-free/internal/history"
	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/mailbox"
	"github.com/HappyFox001/cursor-free/internal/paths"
	"github.com/HappyFox001/cursor-free/internal/platform"
	"github.com/HappyFox001/cursor-free/internal/reset"
)

// Replaced in tests.
var (
	newPlatform    = platform.New
	clipboardWrite = clipboard.WriteAll
)

func backupStore(cfg config.Config) (*backup.Store, error) {
	dir := cfg.BackupDir
	if dir == "" {
		d, err := backup.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return backup.New(dir), nil
}

func targetProcess(cfg config.Config, plat platform.Platform) string {
	if name := strings.TrimSpace(cfg.Target.ProcessName); name != "" {
		return name
	}
	return plat.DefaultProcessName()
}

// openJournal returns nil when the journal is disabled or cannot be opened.
func openJournal(ctx context.Context, cfg config.Config) *history.Journal {
	if !cfg.History.Enabled {
		return nil
	}
	j, err := history.Open(ctx, cfg.History.Type, cfg.History.DSN)
	if err != nil {
		logging.Warnf("reset journal unavailable: %v", err)
		return nil
	}
	return j
}

// newManager wires a reset manager from cfg. The returned func releases the
// journal.
func newManager(ctx context.Context, cfg config.Config, plat platform.Platform) (*reset.Manager, *backup.Store, func(), error) {
	resolver, err := paths.New(cfg.PathsFile)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := backupStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	m := &reset.Manager{
		Paths:       resolver,
		Backups:     store,
		Platform:    plat,
		ProcessName: cfg.Target.ProcessName,
	}
	release := func() {}
	if j := openJournal(ctx, cfg); j != nil {
		m.Journal = j
		release = func() { _ = j.Close() }
	}
	return m, store, release, nil
}

func newMailboxClient(cfg config.Config) *mailbox.Client {
	session := mailbox.NewSession(cfg.Mailbox.Username, cfg.Mailbox.Extension, cfg.Mailbox.Epin)
	opts := []mailbox.Option{mailbox.WithBaseURL(cfg.Mailbox.BaseURL)}
	if cfg.Mailbox.Timeout > 0 {
		opts = append(opts, mailbox.WithTimeout(cfg.Mailbox.Timeout))
	}
	if cfg.Mailbox.RequestsPerSecond > 0 {
		opts = append(opts, mailbox.WithRateLimit(cfg.Mailbox.RequestsPerSecond))
	}
	return mailbox.NewClient(session, opts...)
}
