package tui

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/linedeco"
)

// debounceDelay is how long after the last edit a reconciliation pass runs.
// Long enough to coalesce a typing burst, short enough to feel live.
const debounceDelay = 75 * time.Millisecond

// reconcileMsg fires a debounced pass. Stale generations are dropped.
type reconcileMsg struct{ gen int }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width)
		m.editor.SetHeight(msg.Height - 1) // status line
		if !m.ready {
			m.ready = true
			// Full-document pass on load so off-screen blocks are
			// decorated before the user scrolls to them.
			m.runPasses(true)
		}
		return m, nil

	case reconcileMsg:
		if msg.gen == m.passGen {
			m.runPasses(false)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+q":
			m.saveSessionState()
			return m, tea.Quit
		case "ctrl+s":
			m.saveFile()
			return m, nil
		case "ctrl+t":
			if linedeco.ToggleCheckbox(m.editor, m.editor.Cursor().Line) {
				m.dirty = true
				m.editor.SetMarks(linedeco.Marks(m.editor))
			}
			return m, nil
		}
	}

	before := m.editor.Version()
	beforeRev := m.editor.Revision()
	ed, cmd := m.editor.Update(msg)
	*m.editor = ed
	cmds = append(cmds, cmd)

	if m.editor.Version() != before {
		if m.editor.Revision() != beforeRev {
			m.dirty = true
		}
		m.status = ""
		m.passGen++
		gen := m.passGen
		cmds = append(cmds, tea.Tick(debounceDelay, func(time.Time) tea.Msg {
			return reconcileMsg{gen: gen}
		}))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) saveFile() {
	if m.path == "" || m.cfg.UI.ReadOnly {
		return
	}
	if err := os.WriteFile(m.path, []byte(m.editor.Value()), 0600); err != nil {
		m.status = "save failed: " + err.Error()
		m.log.Error().Err(err).Str("path", m.path).Msg("save failed")
		return
	}
	m.dirty = false
	m.status = "saved"
	m.log.Info().Str("path", m.path).Msg("saved")
}

// saveSessionState remembers the cursor position for the next run. Best
// effort only; quitting must not fail.
func (m *Model) saveSessionState() {
	if m.path == "" {
		return
	}
	state, err := config.LoadState()
	if err != nil {
		state = &config.State{}
	}
	c := m.editor.Cursor()
	state.SetFileState(m.path, config.FileState{CursorLine: c.Line, CursorCh: c.Ch})
	if err := config.SaveState(state); err != nil {
		m.log.Warn().Err(err).Msg("session state not saved")
	}
}
