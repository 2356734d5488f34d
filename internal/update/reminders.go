package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/scheduler"
)

const reminderLogSize = 20

func waitForReminderCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// replan replaces the scheduler queue with today's reminders. It runs after
// every change that can move, add or complete a task.
func (m *Model) replan() {
	if m.Scheduler == nil || m.session == nil {
		return
	}
	today := m.session.Today()
	tasks, err := m.session.GetRecord(m.ctx, today)
	if err != nil {
		m.reportError(err)
	}
	if err := m.Scheduler.Replace(scheduler.PlanDay(today, tasks, m.reminderLead, m.now())); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder planning failed: %v", err), IsError: true}
	}
}

func (m *Model) applyReminder(ev scheduler.Event) {
	m.ReminderLog = append(m.ReminderLog, ev)
	if len(m.ReminderLog) > reminderLogSize {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogSize:]
	}

	switch ev.Kind {
	case scheduler.KindTaskStart:
		// Plans from an earlier day can still be in flight after midnight.
		if ev.Date != m.session.Today() {
			return
		}
		task, ok := m.session.Task(ev.Date, ev.TaskID)
		if !ok || task.Completed {
			return
		}
		m.Status = StatusBar{Text: fmt.Sprintf("starting soon: %s at %s", task.Title, task.ScheduledTime)}
		m.notify("Reminder", m.Status.Text, "info")
	case scheduler.KindDayChange:
		if m.Date == ev.Date {
			if _, err := m.session.SelectDate(m.ctx, ev.Date.AddDays(1)); err != nil {
				m.reportError(err)
			}
			m.Cursor = 0
			m.refresh()
			m.Status = StatusBar{Text: fmt.Sprintf("new day: %s", m.Date)}
			m.notify("Day change", m.Status.Text, "info")
		}
		m.replan()
	}
}

func (m Model) renderReminderView() string {
	if len(m.ReminderLog) == 0 {
		return ""
	}
	last := m.ReminderLog[len(m.ReminderLog)-1]
	return fmt.Sprintf("last-reminder: %s @ %s", last.ID, last.At.Format("15:04"))
}
