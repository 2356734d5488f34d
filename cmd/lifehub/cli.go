package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/lifehub/internal/advisor"
	"github.com/sandeepkv93/lifehub/internal/commands"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
	"github.com/sandeepkv93/lifehub/internal/views"
)

type cliOptions struct {
	json bool
	yes  bool
}

const usage = `usage: lifehub [command] [--json]

  (no command)            open the terminal UI
  today                   show today's routine
  show <date>             show the routine for YYYY-MM-DD
  add <title> [@HH:MM] [~duration] [#icon]
  done <id> [date]        toggle completion
  delete <id> [date]      delete a task (needs --yes)
  close [date]            close a day and record its score
  dates                   list dates that have a stored routine
  history                 list closed days
  stats                   totals across closed days
  templates [filter]      list templates (all, recent, popular)
  apply <template> [date] add a template's task
  advise [date]           ask for advice on a day
  mcp                     serve tools over stdio`

type recordView struct {
	Date     model.DateKey      `json:"date"`
	Progress routine.Progress   `json:"progress"`
	Tasks    []model.TaskRecord `json:"tasks"`
}

func runCommand(ctx context.Context, w io.Writer, s *routine.Session, adv advisor.Advisor, args []string, opts cliOptions) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "today":
		return printRecord(ctx, w, s, s.Today(), opts)
	case "show":
		if len(rest) != 1 {
			return errors.New("usage: lifehub show <YYYY-MM-DD>")
		}
		date, err := model.ParseDateKey(rest[0])
		if err != nil {
			return err
		}
		return printRecord(ctx, w, s, date, opts)
	case "add":
		return cmdAdd(ctx, w, s, rest, opts)
	case "done":
		return cmdDone(ctx, w, s, rest, opts)
	case "delete":
		return cmdDelete(ctx, w, s, rest, opts)
	case "close":
		return cmdClose(ctx, w, s, rest, opts)
	case "dates":
		return cmdDates(w, s, opts)
	case "history":
		return cmdHistory(w, s, opts)
	case "stats":
		return cmdStats(w, s, opts)
	case "templates":
		return cmdTemplates(w, s, rest, opts)
	case "apply":
		return cmdApply(ctx, w, s, rest, opts)
	case "advise":
		return cmdAdvise(ctx, w, s, adv, rest, opts)
	case "help", "-h", "--help":
		fmt.Fprintln(w, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// dateArg reads an optional trailing date, falling back to today.
func dateArg(s *routine.Session, rest []string, at int) (model.DateKey, error) {
	if len(rest) <= at {
		return s.Today(), nil
	}
	return model.ParseDateKey(rest[at])
}

func printRecord(ctx context.Context, w io.Writer, s *routine.Session, date model.DateKey, opts cliOptions) error {
	tasks, err := s.GetRecord(ctx, date)
	if err != nil {
		return err
	}
	tasks = model.SortByTime(tasks)
	p := s.Progress(date)
	if opts.json {
		return outputJSON(w, recordView{Date: date, Progress: p, Tasks: tasks})
	}
	fmt.Fprintf(w, "%s  %d/%d  %d%%  %s\n", date, p.Completed, p.Total, p.Percent, p.TimeLabel())
	if len(tasks) == 0 {
		fmt.Fprintln(w, "(no tasks)")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "%-10s %s (%s)\n", t.ID, views.TaskLine(views.TaskItemData{
			Title:     t.Title,
			Glyph:     t.Icon().Glyph(),
			Time:      t.ScheduledTime,
			Completed: t.Completed,
		}), t.DurationText)
	}
	return nil
}

func cmdAdd(ctx context.Context, w io.Writer, s *routine.Session, rest []string, opts cliOptions) error {
	parsed, err := commands.Parse("add " + strings.Join(rest, " "))
	if err != nil {
		return err
	}
	rec, err := s.AddTask(ctx, s.Today(), parsed.Add.Draft)
	if err != nil {
		return err
	}
	if opts.json {
		return outputJSON(w, rec)
	}
	fmt.Fprintf(w, "added %s: %s at %s\n", rec.ID, rec.Title, rec.ScheduledTime)
	return nil
}

// taskNoop reports an unknown id without failing, so repeated runs are safe.
func taskNoop(w io.Writer, id string, date model.DateKey, opts cliOptions) error {
	if opts.json {
		return outputJSON(w, map[string]any{"found": false, "id": id, "date": date})
	}
	fmt.Fprintf(w, "no task %q on %s\n", id, date)
	return nil
}

func cmdDone(ctx context.Context, w io.Writer, s *routine.Session, rest []string, opts cliOptions) error {
	if len(rest) < 1 {
		return errors.New("usage: lifehub done <id> [date]")
	}
	date, err := dateArg(s, rest, 1)
	if err != nil {
		return err
	}
	changed, err := s.ToggleCompletion(ctx, date, rest[0])
	if err != nil {
		return err
	}
	if !changed {
		return taskNoop(w, rest[0], date, opts)
	}
	t, _ := s.Task(date, rest[0])
	if opts.json {
		return outputJSON(w, t)
	}
	state := "reopened"
	if t.Completed {
		state = "completed"
	}
	fmt.Fprintf(w, "%s: %s\n", state, t.Title)
	return nil
}

func cmdDelete(ctx context.Context, w io.Writer, s *routine.Session, rest []string, opts cliOptions) error {
	if len(rest) < 1 {
		return errors.New("usage: lifehub delete <id> [date] --yes")
	}
	date, err := dateArg(s, rest, 1)
	if err != nil {
		return err
	}
	req, ok := s.RequestDelete(date, rest[0])
	if !ok {
		return taskNoop(w, rest[0], date, opts)
	}
	if !opts.yes {
		s.CancelDelete()
		fmt.Fprintf(w, "would delete %q from %s; rerun with --yes\n", req.Title, date)
		return nil
	}
	if _, err := s.ConfirmDelete(ctx, req); err != nil {
		return err
	}
	if opts.json {
		return outputJSON(w, map[string]any{"found": true, "deleted": true, "id": req.ID, "date": req.Date})
	}
	fmt.Fprintf(w, "deleted: %s\n", req.Title)
	return nil
}

func cmdClose(ctx context.Context, w io.Writer, s *routine.Session, rest []string, opts cliOptions) error {
	date, err := dateArg(s, rest, 0)
	if err != nil {
		return err
	}
	summary, err := s.CloseDay(ctx, date)
	if err != nil {
		return err
	}
	if opts.json {
		return outputJSON(w, summary)
	}
	fmt.Fprintf(w, "closed %s: %d%% (%d/%d) %s\n", summary.Date, summary.Score,
		summary.CompletedCount, summary.TotalTasks, model.FormatMinutes(summary.TimeSpentMinutes))
	return nil
}

type dateEntry struct {
	Date     model.DateKey    `json:"date"`
	Progress routine.Progress `json:"progress"`
}

func cmdDates(w io.Writer, s *routine.Session, opts cliOptions) error {
	dates := s.Dates()
	entries := make([]dateEntry, 0, len(dates))
	for _, d := range dates {
		entries = append(entries, dateEntry{Date: d, Progress: s.Progress(d)})
	}
	if opts.json {
		return outputJSON(w, entries)
	}
	if !s.HasRecord(s.Today()) {
		fmt.Fprintf(w, "(today, %s, has no list yet)\n", s.Today())
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %d/%d  %d%%\n", e.Date, e.Progress.Completed, e.Progress.Total, e.Progress.Percent)
	}
	return nil
}

func cmdHistory(w io.Writer, s *routine.Session, opts cliOptions) error {
	history := s.ListHistory()
	if opts.json {
		return outputJSON(w, history)
	}
	if len(history) == 0 {
		fmt.Fprintln(w, "(no closed days)")
		return nil
	}
	for _, h := range history {
		fmt.Fprintf(w, "%s  %3d%%  %d/%d  %s\n", h.Date, h.Score, h.CompletedCount, h.TotalTasks, model.FormatMinutes(h.TimeSpentMinutes))
	}
	return nil
}

func cmdStats(w io.Writer, s *routine.Session, opts cliOptions) error {
	stats := s.Stats()
	if opts.json {
		return outputJSON(w, map[string]any{
			"totalCompleted": stats.TotalCompleted,
			"totalMinutes":   stats.TotalMinutes,
			"totalHours":     stats.TotalHours(),
			"recent":         stats.Recent,
		})
	}
	fmt.Fprintf(w, "completed: %d | hours: %s\n", stats.TotalCompleted, stats.TotalHours())
	for _, h := range stats.Recent {
		fmt.Fprintf(w, "%s  %3d%%\n", h.Date, h.Score)
	}
	return nil
}

func cmdTemplates(w io.Writer, s *routine.Session, rest []string, opts cliOptions) error {
	filter := model.TemplateFilterAll
	if len(rest) > 0 {
		f, err := model.ParseTemplateFilter(rest[0])
		if err != nil {
			return err
		}
		filter = f
	}
	templates := s.Templates(filter)
	if opts.json {
		return outputJSON(w, templates)
	}
	if len(templates) == 0 {
		fmt.Fprintln(w, "(no templates)")
		return nil
	}
	for _, t := range templates {
		fmt.Fprintf(w, "%-10s %s %s (%s) used %d\n", t.ID, t.Icon().Glyph(), t.Title, t.DurationText, t.UsageCount)
	}
	return nil
}

func cmdApply(ctx context.Context, w io.Writer, s *routine.Session, rest []string, opts cliOptions) error {
	if len(rest) < 1 {
		return errors.New("usage: lifehub apply <template> [date]")
	}
	date, err := dateArg(s, rest, 1)
	if err != nil {
		return err
	}
	tpl, ok := s.FindTemplate(rest[0])
	if !ok {
		return fmt.Errorf("%w: %s", routine.ErrTemplateNotFound, rest[0])
	}
	rec, err := s.ApplyTemplate(ctx, date, tpl.ID)
	if err != nil {
		return err
	}
	if opts.json {
		return outputJSON(w, rec)
	}
	fmt.Fprintf(w, "added %s to %s\n", rec.Title, date)
	return nil
}

func cmdAdvise(ctx context.Context, w io.Writer, s *routine.Session, adv advisor.Advisor, rest []string, opts cliOptions) error {
	date, err := dateArg(s, rest, 0)
	if err != nil {
		return err
	}
	if _, err := s.GetRecord(ctx, date); err != nil {
		return err
	}
	text := adv.Advise(ctx, s.AdvisoryPrompt(date))
	if opts.json {
		return outputJSON(w, map[string]any{"date": date, "advice": text})
	}
	fmt.Fprintln(w, views.RenderMarkdown(text))
	return nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
