package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifehub/internal/advisor"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/views"
)

// startAdvice asks the advisor about the current date off the update loop.
// Only one request runs at a time.
func (m *Model) startAdvice() tea.Cmd {
	if m.advisor == nil {
		m.Status = StatusBar{Text: "advisor not configured", IsError: true}
		return nil
	}
	if m.Advice.Loading {
		return nil
	}
	m.Advice = AdviceState{Loading: true, Date: m.Date}
	m.Status = StatusBar{Text: "asking for advice"}
	return tea.Batch(m.adviceSpinner.Tick, requestAdvice(m.ctx, m.advisor, m.Date, m.session.AdvisoryPrompt(m.Date)))
}

func requestAdvice(ctx context.Context, adv advisor.Advisor, date model.DateKey, prompt string) tea.Cmd {
	return func() tea.Msg {
		return AdviceMsg{Date: date, Text: adv.Advise(ctx, prompt)}
	}
}

func (m Model) renderAdviceView() string {
	if !m.Advice.Loading && m.Advice.Text == "" {
		return ""
	}
	return views.RenderAdvisorPanel(views.AdvisorPanelData{
		Date:        string(m.Advice.Date),
		Loading:     m.Advice.Loading,
		SpinnerView: m.adviceSpinner.View(),
		Body:        m.adviceViewport.View(),
	})
}
