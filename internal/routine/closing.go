package routine

import (
	"context"

	"github.com/sandeepkv93/lifehub/internal/model"
)

// CloseDay snapshots date's statistics into history, replacing any earlier
// entry for the same date. An absent date counts as an empty list and is
// not materialized. Tasks are left untouched.
func (s *Session) CloseDay(ctx context.Context, date model.DateKey) (model.DayClosureSummary, error) {
	summary := model.Summarize(date, s.routines[date])

	kept := make([]model.DayClosureSummary, 0, len(s.history)+1)
	for _, h := range s.history {
		if h.Date != date {
			kept = append(kept, h)
		}
	}
	s.history = append(kept, summary)
	s.logger.Info("closed day",
		"date", date,
		"score", summary.Score,
		"completed", summary.CompletedCount,
		"total", summary.TotalTasks,
		"minutes", summary.TimeSpentMinutes,
	)
	return summary, s.persistHistory(ctx)
}

// ListHistory returns the summaries in stored order: re-closed dates move
// to the end.
func (s *Session) ListHistory() []model.DayClosureSummary {
	out := make([]model.DayClosureSummary, len(s.history))
	copy(out, s.history)
	return out
}

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
	Minutes   int `json:"minutes"`
}

func (p Progress) TimeLabel() string {
	return model.FormatMinutes(p.Minutes)
}

// Progress is the live view of date's list. It never materializes.
func (s *Session) Progress(date model.DateKey) Progress {
	sum := model.Summarize(date, s.routines[date])
	return Progress{
		Completed: sum.CompletedCount,
		Total:     sum.TotalTasks,
		Percent:   sum.Score,
		Minutes:   sum.TimeSpentMinutes,
	}
}

type Stats struct {
	Recent         []model.DayClosureSummary
	TotalCompleted int
	TotalMinutes   int
}

func (s Stats) TotalHours() string {
	return model.FormatHours(s.TotalMinutes)
}

const recentWindow = 7

// Stats aggregates all of history; Recent holds the last seven entries in
// stored order.
func (s *Session) Stats() Stats {
	var out Stats
	for _, h := range s.history {
		out.TotalCompleted += h.CompletedCount
		out.TotalMinutes += h.TimeSpentMinutes
	}
	start := len(s.history) - recentWindow
	if start < 0 {
		start = 0
	}
	out.Recent = make([]model.DayClosureSummary, len(s.history)-start)
	copy(out.Recent, s.history[start:])
	return out
}
