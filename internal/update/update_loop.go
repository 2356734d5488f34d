package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForReminderCmd(m.Scheduler.C())
	}
	return nil
}

// Update applies msg and re-syncs the bubble components from the new state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Confirm != nil {
			return m.handleConfirmKey(typed), nil
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Form.Kind != FormNone {
			return m.handleFormKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.Templates:
			m.CurrentView = ViewTemplates
			return m, nil
		case m.Keys.Zen:
			m.CurrentView = ViewZen
			return m, nil
		case m.Keys.Advise:
			cmd := m.startAdvice()
			return m, cmd
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "D":
			m.cycleDensity()
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewToday:
			return m.handleTodayKey(typed), nil
		case ViewStats:
			return m.handleStatsKey(typed), nil
		case ViewTemplates:
			return m.handleTemplatesKey(typed), nil
		case ViewZen:
			return m.handleZenKey(typed), nil
		}
	case spinner.TickMsg:
		if m.Advice.Loading {
			var cmd tea.Cmd
			m.adviceSpinner, cmd = m.adviceSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.reportError(typed.Err)
		}
		return m, nil
	case AdviceMsg:
		m.Advice = AdviceState{Date: typed.Date, Text: typed.Text}
		m.Status = StatusBar{Text: fmt.Sprintf("advice ready for %s", typed.Date)}
		return m, nil
	case ReminderDueMsg:
		m.applyReminder(typed.Event)
		if m.Scheduler != nil {
			return m, waitForReminderCmd(m.Scheduler.C())
		}
		return m, nil
	case StoreChangedMsg:
		if err := m.session.Reload(m.ctx); err != nil {
			m.reportError(err)
			return m, nil
		}
		m.refresh()
		m.replan()
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = joinPanes(m.renderAdviceView(), m.renderCommandPalette(), m.renderHelpIfVisible())
	case ViewStats:
		leftPane = m.renderStatsView()
		rightPane = joinPanes(m.renderCommandPalette(), m.renderHelpIfVisible())
	case ViewTemplates:
		leftPane = m.renderTemplatesView()
		rightPane = joinPanes(m.renderCommandPalette(), m.renderHelpIfVisible())
	case ViewZen:
		leftPane = m.renderZenView()
		rightPane = joinPanes(m.renderAdviceView(), m.renderCommandPalette(), m.renderHelpIfVisible())
	}
	notificationView := strings.TrimSpace(strings.Join([]string{
		m.renderReminderView(),
		strings.TrimSpace(m.renderNotificationsView()),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("lifehub | view: %s | date: %s", m.CurrentView, m.Date),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		Overlay:      m.renderConfirmView(),
		StatusLine:   status,
		Notification: notificationView,
		Footer:       fmt.Sprintf("keys: %s today | %s stats | %s templates | %s zen | %s advise | / cmd | %s help | %s quit", m.Keys.Today, m.Keys.Stats, m.Keys.Templates, m.Keys.Zen, m.Keys.Advise, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewStats, ViewTemplates, ViewZen:
		return true
	default:
		return false
	}
}
