// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package history keeps a journal of reset attempts in a SQL database.
// SQLite is the default; PostgreSQL and MySQL are supported for shared
// journals.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
)

var (
	// ErrUnsupported is returned by Open for an unknown database type.
	ErrUnsupported = errors.New("unsupported database type")
	// ErrDuplicate is returned when an attempt id is recorded twice.
	ErrDuplicate = errors.New("duplicate record")
)

// Supported database types.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// ResetEvent is the stored form of a reset attempt.
type ResetEvent struct {
	bun.BaseModel `bun:"table:reset_events,alias:re"`

	ID           int64     `bun:"id,pk,autoincrement"`
	AttemptID    string    `bun:"attempt_id,notnull,unique"`
	UserName     string    `bun:"user_name"`
	MachineID    string    `bun:"machine_id"`
	DeviceID     string    `bun:"device_id"`
	MacMachineID string    `bun:"mac_machine_id"`
	Outcome      string    `bun:"outcome,notnull"`
	ErrorText    string    `bun:"error_text"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

func eventFrom(a model.ResetAttempt) *ResetEvent {
	return &ResetEvent{
		AttemptID:    a.ID,
		UserName:     a.User,
		MachineID:    a.IDs.MachineID,
		DeviceID:     a.IDs.DeviceID,
		MacMachineID: a.IDs.MacMachineID,
		Outcome:      string(a.Outcome),
		ErrorText:    a.Error,
		CreatedAt:    a.At.UTC(),
	}
}

// Attempt converts the row back to the model type.
func (e ResetEvent) Attempt() model.ResetAttempt {
	return model.ResetAttempt{
		ID:   e.AttemptID,
		User: e.UserName,
		IDs: model.IdentitySet{
			MachineID:    e.MachineID,
			DeviceID:     e.DeviceID,
			MacMachineID: e.MacMachineID,
		},
		Outcome: model.ResetOutcome(e.Outcome),
		Error:   e.ErrorText,
		At:      e.CreatedAt,
	}
}

// Journal records reset attempts.
type Journal struct {
	db *bun.DB
}

// DefaultDSN is the SQLite file under the user config directory.
func DefaultDSN() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "cursor-free", "history.db"), nil
}

// Open connects to the journal database and creates its table when needed.
// An empty sqlite dsn selects DefaultDSN.
func Open(ctx context.Context, dbType, dsn string) (*Journal, error) {
	dbType = strings.ToLower(strings.TrimSpace(dbType))
	if dbType == "" {
		dbType = SQLite
	}
	driverName := dbType
	switch dbType {
	case SQLite:
		if dsn == "" {
			p, err := DefaultDSN()
			if err != nil {
				return nil, err
			}
			dsn = p
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("could not create journal directory: %w", err)
			}
		}
	case Postgres:
		// The pgx stdlib registers driver name "pgx".
		driverName = "pgx"
	case MySQL:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, dbType)
	}
	if dsn == "" {
		return nil, fmt.Errorf("a dsn is required for %s", dbType)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite gets a single connection: in-memory databases are per connection
	// and file databases lock on write anyway.
	if dbType == SQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	j := &Journal{db: createBunDB(sqlDB, dbType)}
	if _, err := j.db.NewCreateTable().Model((*ResetEvent)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create reset_events table: %w", err)
	}
	logging.Debugf("history: opened %s journal", dbType)
	return j, nil
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case Postgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case MySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Record stores attempt.
func (j *Journal) Record(ctx context.Context, attempt model.ResetAttempt) error {
	if _, err := j.db.NewInsert().Model(eventFrom(attempt)).Exec(ctx); err != nil {
		return mapDBError(err)
	}
	return nil
}

// List returns up to limit attempts, newest first. A limit below one
// returns every attempt.
func (j *Journal) List(ctx context.Context, limit int) ([]model.ResetAttempt, error) {
	var rows []ResetEvent
	q := j.db.NewSelect().Model(&rows).OrderExpr("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list reset events: %w", err)
	}
	out := make([]model.ResetAttempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Attempt())
	}
	return out, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// mapDBError maps unique constraint violations of any backend to ErrDuplicate.
func mapDBError(err error) error {
	le := strings.ToLower(err.Error())
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
