// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HappyFox001/cursor-free/internal/logging"
)

// Defaults used when the configuration leaves polling unset.
const (
	DefaultMaxRetries = 3
	DefaultInterval   = 10 * time.Second
)

var (
	// ErrExhaustedRetries matches every *ExhaustedRetriesError.
	ErrExhaustedRetries = errors.New("verification code not received")
	// ErrNoCode is the per-attempt failure when the newest message holds no code.
	ErrNoCode = errors.New("no verification code in message")
)

// ExhaustedRetriesError is returned when no attempt produced a code.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("verification code not received after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("verification code not received after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Is(target error) bool { return target == ErrExhaustedRetries }

func (e *ExhaustedRetriesError) Unwrap() error { return e.Last }

// Mailbox is the protocol the poller drives. *Client implements it.
type Mailbox interface {
	ListMessages(ctx context.Context) (string, error)
	FetchBody(ctx context.Context, id string) (string, error)
	DeleteMessage(ctx context.Context, id string) error
}

// Poller repeatedly checks a mailbox for a verification code. Attempts never
// overlap.
type Poller struct {
	Mailbox Mailbox
	// Sleep waits between attempts; a context-aware timer when nil.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller returns a Poller over m.
func NewPoller(m Mailbox) *Poller {
	return &Poller{Mailbox: m}
}

// Poll makes up to maxRetries attempts, waiting interval between them, and
// returns the first code found. The message holding the code is deleted on a
// best-effort basis.
func (p *Poller) Poll(ctx context.Context, maxRetries int, interval time.Duration) (string, error) {
	if maxRetries < 1 {
		return "", &ExhaustedRetriesError{Attempts: 0}
	}
	var last error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		code, err := p.attempt(ctx)
		if err == nil {
			logging.Infof("verification code received on attempt %d/%d", attempt, maxRetries)
			return code, nil
		}
		last = err
		logging.Warnf("attempt %d/%d to read the verification code failed: %v", attempt, maxRetries, err)

		if attempt < maxRetries {
			if err := p.sleep(ctx, interval); err != nil {
				return "", err
			}
		}
	}
	return "", &ExhaustedRetriesError{Attempts: maxRetries, Last: last}
}

func (p *Poller) attempt(ctx context.Context) (string, error) {
	id, err := p.Mailbox.ListMessages(ctx)
	if err != nil {
		return "", err
	}
	body, err := p.Mailbox.FetchBody(ctx, id)
	if err != nil {
		return "", err
	}
	code, ok := ExtractCode(body)
	if !ok {
		return "", fmt.Errorf("%w %s", ErrNoCode, id)
	}
	if err := p.Mailbox.DeleteMessage(ctx, id); err != nil {
		logging.Warnf("could not delete message %s: %v", id, err)
	}
	return code, nil
}

func (p *Poller) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
