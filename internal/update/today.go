package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/views"
)

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.Cursor = clampCursor(m.Cursor+1, len(m.Tasks))
	case "k", "up":
		m.Cursor = clampCursor(m.Cursor-1, len(m.Tasks))
	case " ", "x":
		m.toggleSelected()
	case "a":
		m.Form = FormState{Kind: FormAddTask}
		m.Status = StatusBar{Text: "new task: title @HH:MM ~duration #icon"}
	case "e":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		m.Form = FormState{Kind: FormEditTask, TargetID: task.ID, Input: taskFormValue(task)}
	case "d":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		if req, ok := m.session.RequestDelete(m.Date, task.ID); ok {
			m.Confirm = &req
		}
	case "h", "left":
		m.shiftDate(-1)
	case "l", "right":
		m.shiftDate(1)
	case "t":
		if _, err := m.session.SelectDate(m.ctx, m.session.Today()); err != nil {
			m.reportError(err)
		}
		m.Cursor = 0
		m.refresh()
	case "c":
		m.closeCurrentDay()
	}
	return m
}

func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	found, err := m.session.ToggleCompletion(m.ctx, m.Date, task.ID)
	m.refresh()
	m.replan()
	if err != nil {
		m.reportError(err)
		return
	}
	if !found {
		return
	}
	if task.Completed {
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Title)}
	}
}

func (m *Model) shiftDate(days int) {
	if _, err := m.session.ShiftDate(m.ctx, days); err != nil {
		m.reportError(err)
	}
	m.Cursor = 0
	m.refresh()
}

// closeCurrentDay records the shown date in history and moves on to the
// following day, which rolls the list forward.
func (m *Model) closeCurrentDay() {
	summary, err := m.session.CloseDay(m.ctx, m.Date)
	if err != nil {
		m.reportError(err)
	}
	if _, _, err := m.session.AdvanceDay(m.ctx); err != nil {
		m.reportError(err)
	}
	m.Cursor = 0
	m.refresh()
	m.replan()
	if err == nil {
		m.Status = StatusBar{Text: fmt.Sprintf("closed %s: %d%% (%d/%d)", summary.Date, summary.Score, summary.CompletedCount, summary.TotalTasks)}
		m.notify("Day closed", m.Status.Text, "info")
	}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	req := *m.Confirm
	switch msg.String() {
	case "y", "enter":
		deleted, err := m.session.ConfirmDelete(m.ctx, req)
		m.refresh()
		m.replan()
		if err != nil {
			m.reportError(err)
			return m
		}
		if deleted {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %s: %s", req.Kind, req.Title)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("%s already gone: %s", req.Kind, req.Title)}
		}
	case "n", "esc":
		m.session.CancelDelete()
		m.Confirm = nil
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m Model) renderTodayView() string {
	items := make([]views.TaskItemData, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		items = append(items, taskItemData(t))
	}
	selected := ""
	if task, ok := m.selectedTask(); ok {
		selected = task.ID
	}
	p := m.session.Progress(m.Date)
	return views.RenderTodayPanel(views.TodayPanelData{
		Date:         string(m.Date),
		IsToday:      m.Date == m.session.Today(),
		ListView:     m.todayList.View(),
		Items:        items,
		SelectedID:   selected,
		ProgressView: m.dayProgress.ViewAs(float64(p.Percent) / 100),
		Completed:    p.Completed,
		Total:        p.Total,
		Percent:      p.Percent,
		TimeLabel:    p.TimeLabel(),
		FormView:     m.renderFormIfActive(FormAddTask, FormEditTask),
	})
}

func taskFormValue(t model.TaskRecord) string {
	parts := []string{t.Title, "@" + t.ScheduledTime}
	if strings.TrimSpace(t.DurationText) != "" {
		parts = append(parts, "~"+t.DurationText)
	}
	parts = append(parts, "#"+t.Icon().String())
	return strings.Join(parts, " ")
}
