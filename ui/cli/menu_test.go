// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HappyFox001/cursor-free/internal/i18n"
)

func press(t *testing.T, m menuModel, msgs ...tea.KeyMsg) (menuModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(menuModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenu_Navigation(t *testing.T) {
	_ = i18n.Init("en")
	m := newMenuModel()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatalf("cursor moved above the first item: %d", m.cursor)
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.chosen != actionRestore {
		t.Fatalf("expected restore, got %q", m.chosen)
	}
	if cmd == nil {
		t.Fatalf("selecting should quit the program")
	}

	m = newMenuModel()
	m, _ = press(t, m, runes("j"), runes("j"), runes("j"), runes("j"))
	if m.cursor != len(m.items)-1 {
		t.Fatalf("cursor moved past the last item: %d", m.cursor)
	}
}

func TestMenu_QuitAndDigits(t *testing.T) {
	_ = i18n.Init("en")
	m, cmd := press(t, newMenuModel(), runes("q"))
	if m.chosen != actionQuit || cmd == nil {
		t.Fatalf("q should quit, got %q", m.chosen)
	}
	m, _ = press(t, newMenuModel(), runes("3"))
	if m.chosen != actionPaths {
		t.Fatalf("digit 3 should pick paths, got %q", m.chosen)
	}
	m, cmd = press(t, newMenuModel(), runes("9"))
	if m.chosen != "" || cmd != nil {
		t.Fatalf("out of range digit should be ignored")
	}
}

func TestMenu_View(t *testing.T) {
	_ = i18n.Init("en")
	v := newMenuModel().View()
	for _, want := range []string{"Reset machine identifiers", "Restore latest backup", "Quit", "▸ "} {
		if !strings.Contains(v, want) {
			t.Fatalf("view lacks %q:\n%s", want, v)
		}
	}
}

func TestRootCmd_MenuDispatch(t *testing.T) {
	env := setupCLI(t)
	isTerminal = func() bool { return true }
	prev := runMenu
	runMenu = func(io.Reader, io.Writer) (string, error) { return actionPaths, nil }
	t.Cleanup(func() { runMenu = prev })

	if _, err := env.run(t, ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(env.plat.Opened) != 1 || env.plat.Opened[0] != env.pathsFile {
		t.Fatalf("paths action did not open the table: %v", env.plat.Opened)
	}
}

func TestRootCmd_MenuQuitDoesNothing(t *testing.T) {
	env := setupCLI(t)
	isTerminal = func() bool { return true }
	prev := runMenu
	runMenu = func(io.Reader, io.Writer) (string, error) { return actionQuit, nil }
	t.Cleanup(func() { runMenu = prev })

	if _, err := env.run(t, ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(env.plat.Terminated) != 0 || len(env.plat.Opened) != 0 {
		t.Fatalf("quit should not touch anything")
	}
}
