package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/commands"
	"github.com/sandeepkv93/lifehub/internal/routine"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.Palette.Input += keyText(msg)
			m.commandInput.SetValue(m.Palette.Input)
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput.SetValue(m.Palette.Input)
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.CurrentView = ViewToday
			rec, err := m.session.AddTask(m.ctx, m.Date, a.Draft)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added: %s at %s", rec.Title, rec.ScheduledTime)}, nil
		},
		Date: func(d commands.DateArgs) (commands.Result, error) {
			var err error
			switch {
			case d.Today:
				_, err = m.session.SelectDate(m.ctx, m.session.Today())
			case d.Date != "":
				_, err = m.session.SelectDate(m.ctx, d.Date)
			default:
				_, err = m.session.ShiftDate(m.ctx, d.Offset)
			}
			m.CurrentView = ViewToday
			m.Cursor = 0
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", m.session.CurrentDate())}, nil
		},
		Close: func(c commands.CloseArgs) (commands.Result, error) {
			date := c.Date
			if date == "" {
				date = m.Date
			}
			summary, err := m.session.CloseDay(m.ctx, date)
			if err != nil {
				return commands.Result{}, err
			}
			if date == m.Date {
				if _, _, err := m.session.AdvanceDay(m.ctx); err != nil {
					return commands.Result{}, err
				}
				m.Cursor = 0
			}
			return commands.Result{Message: fmt.Sprintf("closed %s: %d%% (%d/%d)", summary.Date, summary.Score, summary.CompletedCount, summary.TotalTasks)}, nil
		},
		Template: func(t commands.TemplateArgs) (commands.Result, error) {
			tpl, ok := m.session.FindTemplate(t.Name)
			if !ok {
				return commands.Result{}, fmt.Errorf("%w: %s", routine.ErrTemplateNotFound, t.Name)
			}
			rec, err := m.session.ApplyTemplate(m.ctx, m.Date, tpl.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %s to %s", rec.Title, m.Date)}, nil
		},
		Advise: func() (commands.Result, error) {
			follow = m.startAdvice()
			if follow == nil && !m.Advice.Loading {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "advisor not configured"}
			}
			return commands.Result{Message: "asking for advice"}, nil
		},
	})

	m.refresh()
	m.replan()
	if err != nil {
		m.reportError(err)
		return m, follow
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	m.notify("Command", res.Message, "info")
	return m, follow
}
