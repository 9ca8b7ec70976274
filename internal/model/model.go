// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model holds the plain data types shared by the reset, backup and
// mailbox packages.
package model

import (
	"fmt"
	"time"
)

// FileKind names one of the two configuration documents the target
// application keeps.
type FileKind string

const (
	KindStorage FileKind = "storage"
	KindState   FileKind = "state"
)

// Kinds lists every FileKind in backup order.
var Kinds = []FileKind{KindStorage, KindState}

// ConfigFileLocation is the resolved pair of configuration file paths.
// Both paths are absolute with environment placeholders already expanded.
type ConfigFileLocation struct {
	StoragePath string `json:"storage_path"`
	StatePath   string `json:"state_path"`
}

// Path returns the live file path for kind.
func (l ConfigFileLocation) Path(kind FileKind) string {
	switch kind {
	case KindStorage:
		return l.StoragePath
	case KindState:
		return l.StatePath
	}
	return ""
}

// IdentitySet is one freshly generated triple of identifiers.
type IdentitySet struct {
	MachineID    string `json:"machine_id"`
	DeviceID     string `json:"device_id"`
	MacMachineID string `json:"mac_machine_id"`
}

// BackupRecord describes one timestamped copy of a configuration file.
type BackupRecord struct {
	Kind      FileKind  `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// Name returns the base file name of the backup.
func (r BackupRecord) Name() string {
	return BackupName(r.Kind, r.Timestamp)
}

// BackupTimeLayout is the timestamp format used in backup file names. It is
// zero-padded so that lexicographic order equals chronological order.
const BackupTimeLayout = "20060102_150405"

// BackupName builds the deterministic "<kind>_<timestamp>.json" name.
func BackupName(kind FileKind, ts time.Time) string {
	return fmt.Sprintf("%s_%s.json", kind, ts.UTC().Format(BackupTimeLayout))
}

// LoginStatus mirrors the account state of the target application.
type LoginStatus string

const (
	LoginPending  LoginStatus = "pending"
	LoginLoggedIn LoginStatus = "logged_in"
	LoginFailed   LoginStatus = "failed"
)

// IdentityRecord is returned by a successful reset. Token fields are part of
// the account shape but stay empty for identifier resets.
type IdentityRecord struct {
	AttemptID    string      `json:"attempt_id"`
	Email        string      `json:"email"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	MachineID    string      `json:"machine_id"`
	DeviceID     string      `json:"device_id"`
	MacMachineID string      `json:"mac_machine_id"`
	CreatedAt    time.Time   `json:"created_at"`
	LastUsedAt   time.Time   `json:"last_used_at"`
	IsActive     bool        `json:"is_active"`
	LoginStatus  LoginStatus `json:"login_status"`
}

// NewIdentityRecord stamps a record for user with the given identifiers.
func NewIdentityRecord(user string, ids IdentitySet, now time.Time) *IdentityRecord {
	return &IdentityRecord{
		Email:        user,
		MachineID:    ids.MachineID,
		DeviceID:     ids.DeviceID,
		MacMachineID: ids.MacMachineID,
		CreatedAt:    now,
		LastUsedAt:   now,
		IsActive:     true,
		LoginStatus:  LoginLoggedIn,
	}
}

// Identities returns the identifier triple held by the record.
func (r IdentityRecord) Identities() IdentitySet {
	return IdentitySet{MachineID: r.MachineID, DeviceID: r.DeviceID, MacMachineID: r.MacMachineID}
}

// MailboxSession addresses one disposable mailbox.
type MailboxSession struct {
	Username  string `json:"username"`
	Extension string `json:"extension"`
	Pin       string `json:"pin,omitempty"`
}

// Address is the full mailbox address, username followed by the domain
// extension (which carries its own "@").
func (s MailboxSession) Address() string {
	return s.Username + s.Extension
}

// VerificationMessage is a message read from the mailbox.
type VerificationMessage struct {
	ID   string
	Body string
}

// Account is a generated sign-up identity.
type Account struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ResetOutcome classifies how a reset attempt ended.
type ResetOutcome string

const (
	OutcomeSuccess       ResetOutcome = "success"
	OutcomeRolledBack    ResetOutcome = "rolled_back"
	OutcomeIrrecoverable ResetOutcome = "irrecoverable"
	OutcomeFailed        ResetOutcome = "failed"
)

// ResetAttempt is the journal entry written for every reset.
type ResetAttempt struct {
	ID      string       `json:"id"`
	User    string       `json:"user"`
	IDs     IdentitySet  `json:"ids"`
	Outcome ResetOutcome `json:"outcome"`
	Error   string       `json:"error,omitempty"`
	At      time.Time    `json:"at"`
}
