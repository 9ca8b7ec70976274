// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package reset replaces the machine identifiers stored by the target
// application. Every reset backs both configuration files up first and puts
// them back if writing the new identifiers fails.
package reset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/HappyFox001/cursor-free/internal/backup"
	"github.com/HappyFox001/cursor-free/internal/identity"
	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
	"github.com/HappyFox001/cursor-free/internal/platform"
)

var (
	// ErrPermission means the process lacks administrative rights.
	ErrPermission = errors.New("insufficient privileges")
	// ErrRolledBack means the identifiers could not be written and both files
	// were restored to their state before the attempt.
	ErrRolledBack = errors.New("reset failed and was rolled back")
)

// IrrecoverableError is returned when both the update and the rollback
// failed. The configuration files may be left in an inconsistent state.
type IrrecoverableError struct {
	Mutation error
	Restore  error
}

func (e *IrrecoverableError) Error() string {
	return fmt.Sprintf("reset failed (%v) and rollback failed (%v)", e.Mutation, e.Restore)
}

func (e *IrrecoverableError) Unwrap() []error {
	return []error{e.Mutation, e.Restore}
}

// State is the position of a Manager in the reset sequence.
type State int

const (
	Idle State = iota
	PrivilegeChecked
	ProcessesTerminated
	BackedUp
	Generated
	ConfigWritten
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PrivilegeChecked:
		return "privilege_checked"
	case ProcessesTerminated:
		return "processes_terminated"
	case BackedUp:
		return "backed_up"
	case Generated:
		return "generated"
	case ConfigWritten:
		return "config_written"
	case RolledBack:
		return "rolled_back"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// PathResolver yields the configuration file locations.
type PathResolver interface {
	Resolve() (model.ConfigFileLocation, error)
}

// BackupStore is the subset of *backup.Store used by the manager.
type BackupStore interface {
	Backup(loc model.ConfigFileLocation) ([]model.BackupRecord, error)
	Restore(loc model.ConfigFileLocation) (backup.Result, error)
	RestoreRecords(loc model.ConfigFileLocation, records []model.BackupRecord) error
}

// Journal records finished reset attempts.
type Journal interface {
	Record(ctx context.Context, attempt model.ResetAttempt) error
}

// Manager drives one reset at a time. It is not safe for concurrent use.
type Manager struct {
	Paths    PathResolver
	Backups  BackupStore
	Platform platform.Platform
	// Journal is optional.
	Journal Journal
	// ProcessName overrides Platform.DefaultProcessName when set.
	ProcessName string
	// NewID generates identifier sets; identity.Generate when nil.
	NewID func() model.IdentitySet
	// Now defaults to time.Now.
	Now func() time.Time

	state State
}

// State returns the step the last Reset reached.
func (m *Manager) State() State { return m.state }

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) processName() string {
	if m.ProcessName != "" {
		return m.ProcessName
	}
	return m.Platform.DefaultProcessName()
}

// Reset stops the target application, backs its configuration up, and writes
// a fresh identifier set. On failure after the backup the files are restored.
func (m *Manager) Reset(ctx context.Context) (*model.IdentityRecord, error) {
	m.state = Idle
	attempt := model.ResetAttempt{ID: uuid.NewString(), At: m.now().UTC()}

	user, err := m.Platform.CurrentUser()
	if err != nil {
		logging.Warnf("%v", err)
		user = "unknown"
	}
	attempt.User = user

	ok, err := m.Platform.CheckPrivileges()
	if err != nil {
		return nil, m.finish(ctx, attempt, fmt.Errorf("%w: %v", ErrPermission, err))
	}
	if !ok {
		return nil, m.finish(ctx, attempt, ErrPermission)
	}
	m.state = PrivilegeChecked

	if err := ctx.Err(); err != nil {
		return nil, m.finish(ctx, attempt, err)
	}
	if err := m.Platform.TerminateProcesses(ctx, m.processName()); err != nil {
		logging.Warnf("could not terminate %s: %v", m.processName(), err)
	}
	m.state = ProcessesTerminated

	loc, err := m.Paths.Resolve()
	if err != nil {
		return nil, m.finish(ctx, attempt, err)
	}
	records, err := m.Backups.Backup(loc)
	if err != nil {
		return nil, m.finish(ctx, attempt, fmt.Errorf("backup before reset: %w", err))
	}
	m.state = BackedUp

	gen := m.NewID
	if gen == nil {
		gen = identity.Generate
	}
	ids := gen()
	attempt.IDs = ids
	m.state = Generated

	if mutErr := UpdateConfigFiles(loc, ids); mutErr != nil {
		logging.Errorf("writing identifiers failed, rolling back: %v", mutErr)
		if rbErr := m.rollback(loc, records); rbErr != nil {
			return nil, m.finish(ctx, attempt, &IrrecoverableError{Mutation: mutErr, Restore: rbErr})
		}
		m.state = RolledBack
		return nil, m.finish(ctx, attempt, fmt.Errorf("%w: %w", ErrRolledBack, mutErr))
	}
	m.state = ConfigWritten

	rec := model.NewIdentityRecord(user, ids, attempt.At)
	rec.AttemptID = attempt.ID
	logging.Infof("reset %s: machineId=%s deviceId=%s macMachineId=%s", attempt.ID, ids.MachineID, ids.DeviceID, ids.MacMachineID)
	_ = m.finish(ctx, attempt, nil)
	return rec, nil
}

// rollback restores the backups taken by this attempt and removes files
// that did not exist before it.
func (m *Manager) rollback(loc model.ConfigFileLocation, records []model.BackupRecord) error {
	backed := map[model.FileKind]bool{}
	for _, rec := range records {
		backed[rec.Kind] = true
	}
	var errs []error
	if err := m.Backups.RestoreRecords(loc, records); err != nil {
		errs = append(errs, err)
	}
	for _, kind := range model.Kinds {
		if backed[kind] {
			continue
		}
		if err := os.Remove(loc.Path(kind)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", loc.Path(kind), err))
		}
	}
	return errors.Join(errs...)
}

// finish records the attempt in the journal and returns err unchanged.
func (m *Manager) finish(ctx context.Context, attempt model.ResetAttempt, err error) error {
	var irr *IrrecoverableError
	switch {
	case err == nil:
		attempt.Outcome = model.OutcomeSuccess
	case errors.As(err, &irr):
		attempt.Outcome = model.OutcomeIrrecoverable
	case errors.Is(err, ErrRolledBack):
		attempt.Outcome = model.OutcomeRolledBack
	default:
		attempt.Outcome = model.OutcomeFailed
	}
	if err != nil {
		attempt.Error = err.Error()
	}
	if m.Journal != nil {
		if jerr := m.Journal.Record(ctx, attempt); jerr != nil {
			logging.Warnf("could not record reset attempt %s: %v", attempt.ID, jerr)
		}
	}
	return err
}

// Restore stops the target application and copies the newest backup of each
// file back in place.
func (m *Manager) Restore(ctx context.Context) (backup.Result, error) {
	if err := m.Platform.TerminateProcesses(ctx, m.processName()); err != nil {
		logging.Warnf("could not terminate %s: %v", m.processName(), err)
	}
	loc, err := m.Paths.Resolve()
	if err != nil {
		return backup.Result{}, err
	}
	return m.Backups.Restore(loc)
}
