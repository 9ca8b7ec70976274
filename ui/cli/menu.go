// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/i18n"
)

const (
	actionReset   = "reset"
	actionRestore = "restore"
	actionPaths   = "paths"
	actionQuit    = "quit"
)

type menuItem struct {
	id    string
	title string
}

type menuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func (km menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Select, km.Quit}
}

func (km menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Up, km.Down}, {km.Select, km.Quit}}
}

var _ help.KeyMap = menuKeyMap{}

var defaultMenuKeyMap = menuKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
}

// menuModel is the interactive main menu. It only picks an action; the
// action itself runs after the program has exited.
type menuModel struct {
	items  []menuItem
	cursor int
	chosen string
	keys   menuKeyMap
	help   help.Model
}

func newMenuModel() menuModel {
	return menuModel{
		items: []menuItem{
			{id: actionReset, title: i18n.T("menu.reset")},
			{id: actionRestore, title: i18n.T("menu.restore")},
			{id: actionPaths, title: i18n.T("menu.paths")},
			{id: actionQuit, title: i18n.T("menu.quit")},
		},
		keys: defaultMenuKeyMap,
		help: help.New(),
	}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(km, m.keys.Select):
		m.chosen = m.items[m.cursor].id
		return m, tea.Quit
	case key.Matches(km, m.keys.Quit):
		m.chosen = actionQuit
		return m, tea.Quit
	default:
		// Digits jump straight to an entry.
		if s := km.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(m.items) {
			m.cursor = int(s[0] - '1')
			m.chosen = m.items[m.cursor].id
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("menu.title")))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(i18n.T("menu.subtitle")))
	b.WriteString("\n\n")
	for i, it := range m.items {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + it.title))
		} else {
			b.WriteString(itemStyle.Render(it.title))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// runMenu shows the menu and returns the chosen action. Replaced in tests.
var runMenu = func(in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newMenuModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(menuModel).chosen, nil
}

func runMenuAction(cmd *cobra.Command) error {
	action, err := runMenu(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	switch action {
	case actionReset:
		return runReset(cmd, false, false)
	case actionRestore:
		return runRestore(cmd, false)
	case actionPaths:
		return editPaths(cmd)
	}
	return nil
}
