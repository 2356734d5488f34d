package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/views"
)

// Zen shows only the next incomplete task of the current date.
func (m Model) handleZenKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case " ", "enter":
		task, ok := m.session.NextPending(m.Date)
		if !ok {
			m.Status = StatusBar{Text: "nothing left for " + string(m.Date)}
			return m
		}
		_, err := m.session.ToggleCompletion(m.ctx, m.Date, task.ID)
		m.refresh()
		m.replan()
		if err != nil {
			m.reportError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Title)}
	case "esc":
		m.CurrentView = ViewToday
	}
	return m
}

func (m Model) renderZenView() string {
	p := m.session.Progress(m.Date)
	data := views.ZenPanelData{
		Date:         string(m.Date),
		ProgressView: m.dayProgress.ViewAs(float64(p.Percent) / 100),
		Percent:      p.Percent,
		Remaining:    p.Total - p.Completed,
	}
	if task, ok := m.session.NextPending(m.Date); ok {
		item := taskItemData(task)
		data.Task = &item
	}
	return views.RenderZenPanel(data)
}
