package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// refresh copies the session state the views need. The current date is
// materialized on first display.
func (m *Model) refresh() {
	if m.session == nil {
		return
	}
	m.Date = m.session.CurrentDate()
	tasks, err := m.session.GetRecord(m.ctx, m.Date)
	if err != nil {
		m.reportError(err)
	}
	m.Tasks = model.SortByTime(tasks)
	m.Cursor = clampCursor(m.Cursor, len(m.Tasks))

	m.Templates = m.session.Templates(m.TemplateFilter)
	m.TemplateCursor = clampCursor(m.TemplateCursor, len(m.Templates))
	m.Stats = m.session.Stats()

	if req, ok := m.session.PendingDelete(); ok {
		m.Confirm = &req
	} else {
		m.Confirm = nil
	}
}

// reportError surfaces err on the status bar. A failed save keeps the change
// on screen, so it is reported as unsaved rather than undone.
func (m *Model) reportError(err error) {
	if err == nil {
		return
	}
	m.LastError = err
	var perr *routine.PersistenceError
	if errors.As(err, &perr) {
		m.Status = StatusBar{Text: fmt.Sprintf("not saved: %v", perr.Err), IsError: true}
	} else {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
	m.notify("Error", m.Status.Text, "error")
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m Model) selectedTask() (model.TaskRecord, bool) {
	if len(m.Tasks) == 0 {
		return model.TaskRecord{}, false
	}
	return m.Tasks[clampCursor(m.Cursor, len(m.Tasks))], true
}

func (m Model) selectedTemplate() (model.TaskTemplate, bool) {
	if len(m.Templates) == 0 {
		return model.TaskTemplate{}, false
	}
	return m.Templates[clampCursor(m.TemplateCursor, len(m.Templates))], true
}

// keyText is the text a key press types into an input.
func keyText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return " "
	}
	return string(msg.Runes)
}
