// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"sort"
	"testing"
	"time"
)

func TestBackupName_Format(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := BackupName(KindStorage, ts); got != "storage_20260304_050607.json" {
		t.Fatalf("unexpected name %q", got)
	}
	r := BackupRecord{Kind: KindState, Timestamp: ts}
	if got := r.Name(); got != "state_20260304_050607.json" {
		t.Fatalf("unexpected record name %q", got)
	}
}

func TestBackupName_LexicographicMatchesChronological(t *testing.T) {
	base := time.Date(2025, 12, 31, 23, 59, 58, 0, time.UTC)
	var names []string
	var want []string
	for i := 0; i < 5; i++ {
		n := BackupName(KindStorage, base.Add(time.Duration(i)*time.Second))
		want = append(want, n)
		names = append([]string{n}, names...)
	}
	sort.Strings(names)
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order mismatch at %d: %q vs %q", i, names[i], want[i])
		}
	}
}

func TestConfigFileLocation_Path(t *testing.T) {
	loc := ConfigFileLocation{StoragePath: "/a/storage.json", StatePath: "/a/state.json"}
	if loc.Path(KindStorage) != "/a/storage.json" || loc.Path(KindState) != "/a/state.json" {
		t.Fatalf("unexpected paths: %+v", loc)
	}
	if loc.Path(FileKind("other")) != "" {
		t.Fatalf("unknown kind should map to empty path")
	}
}

func TestMailboxSession_Address(t *testing.T) {
	s := MailboxSession{Username: "someone", Extension: "@mailto.plus"}
	if s.Address() != "someone@mailto.plus" {
		t.Fatalf("got %q", s.Address())
	}
}

func TestNewIdentityRecord(t *testing.T) {
	now := time.Now()
	ids := IdentitySet{MachineID: "a", DeviceID: "b", MacMachineID: "c"}
	r := NewIdentityRecord("alice", ids, now)
	if r.Email != "alice" || r.AccessToken != "" || r.RefreshToken != "" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.Identities() != ids {
		t.Fatalf("identities mismatch: %+v", r.Identities())
	}
	if !r.IsActive || r.LoginStatus != LoginLoggedIn {
		t.Fatalf("unexpected status %+v", r)
	}
}
