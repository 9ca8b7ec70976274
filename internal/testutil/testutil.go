// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/HappyFox001/cursor-free/internal/model"
)

// FakePlatform is an in-memory platform.Platform that records calls.
type FakePlatform struct {
	Privileged   bool
	PrivilegeErr error
	TerminateErr error
	LaunchErr    error
	User         string
	Process      string

	mu         sync.Mutex
	Terminated []string
	Launched   int
	Opened     []string
}

func (f *FakePlatform) CheckPrivileges() (bool, error) { return f.Privileged, f.PrivilegeErr }

func (f *FakePlatform) TerminateProcesses(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Terminated = append(f.Terminated, name)
	return f.TerminateErr
}

func (f *FakePlatform) CurrentUser() (string, error) {
	if f.User == "" {
		return "tester", nil
	}
	return f.User, nil
}

func (f *FakePlatform) DefaultProcessName() string {
	if f.Process == "" {
		return "cursor"
	}
	return f.Process
}

func (f *FakePlatform) Launch(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Launched++
	return f.LaunchErr
}

func (f *FakePlatform) OpenFile(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened = append(f.Opened, path)
	return nil
}

func (f *FakePlatform) PrivilegeHint() string { return "run as root" }

// FakeJournal keeps recorded reset attempts in memory.
type FakeJournal struct {
	Err error

	mu       sync.Mutex
	Attempts []model.ResetAttempt
}

func (j *FakeJournal) Record(_ context.Context, a model.ResetAttempt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Attempts = append(j.Attempts, a)
	return j.Err
}

// Last returns the most recent attempt, or the zero value.
func (j *FakeJournal) Last() model.ResetAttempt {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.Attempts) == 0 {
		return model.ResetAttempt{}
	}
	return j.Attempts[len(j.Attempts)-1]
}

// FixedPaths is a PathResolver returning a constant location.
type FixedPaths struct {
	Loc model.ConfigFileLocation
	Err error
}

func (p FixedPaths) Resolve() (model.ConfigFileLocation, error) { return p.Loc, p.Err }
