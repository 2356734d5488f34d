package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sandeepkv93/lifehub/internal/advisor"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
	"github.com/sandeepkv93/lifehub/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, kv storage.KV) *routine.Session {
	t.Helper()
	n := 0
	s, err := routine.Open(t.Context(), kv,
		routine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		routine.WithClock(func() time.Time {
			now, _ := model.DateKey("2024-01-02").At("08:00")
			return now
		}),
	)
	require.NoError(t, err)
	return s
}

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := t.Context()
	server := NewServer(cfg)
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func call[T any](t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) T {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "%s returned error: %s", name, errorText(result))

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func callError(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.True(t, result.IsError, "%s should fail", name)
	return errorText(result)
}

func errorText(result *sdkmcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestServerListsTools(t *testing.T) {
	session := connect(t, Config{Session: newTestSession(t, storage.NewMemoryKV())})

	tools, err := session.ListTools(t.Context(), nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"get_record", "add_task", "edit_task", "toggle_task", "delete_task",
		"apply_template", "close_day", "list_history", "get_stats", "list_templates",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.False(t, names["advise"], "advise needs an advisor")

	info := session.InitializeResult()
	require.NotNil(t, info)
	assert.Equal(t, "lifehub", info.ServerInfo.Name)
}

func TestServerRoutineFlow(t *testing.T) {
	kv := storage.NewMemoryKV()
	session := connect(t, Config{Session: newTestSession(t, kv)})

	rec := call[RecordResponse](t, session, "get_record", nil)
	assert.Equal(t, "2024-01-02", rec.Date)
	assert.Empty(t, rec.Tasks)

	added := call[TaskResponse](t, session, "add_task", map[string]any{"title": "Gym", "time": "07:00", "duration": "1h 30m", "icon": "Dumbbell"})
	assert.Equal(t, "Gym", added.Task.Title)
	assert.Equal(t, "07:00", added.Task.ScheduledTime)
	second := call[TaskResponse](t, session, "add_task", map[string]any{"title": "Read"})
	assert.Equal(t, model.DefaultScheduledTime, second.Task.ScheduledTime)
	assert.Equal(t, model.DefaultDurationText, second.Task.DurationText)

	toggled := call[ToggleResponse](t, session, "toggle_task", map[string]any{"id": added.Task.ID})
	assert.True(t, toggled.Completed)

	edited := call[EditResponse](t, session, "edit_task", map[string]any{"id": second.Task.ID, "title": "Read fiction"})
	assert.Equal(t, "Read fiction", edited.Task.Title)
	assert.Equal(t, model.DefaultDurationText, edited.Task.DurationText)

	summary := call[SummaryResponse](t, session, "close_day", nil)
	assert.Equal(t, model.DayClosureSummary{Date: "2024-01-02", Score: 50, CompletedCount: 1, TotalTasks: 2, TimeSpentMinutes: 90}, summary.Summary)

	next := call[RecordResponse](t, session, "get_record", map[string]any{"date": "2024-01-03"})
	require.Len(t, next.Tasks, 2)
	for _, task := range next.Tasks {
		assert.False(t, task.Completed)
		assert.NotEqual(t, added.Task.ID, task.ID)
	}

	history := call[HistoryResponse](t, session, "list_history", nil)
	require.Len(t, history.History, 1)
	stats := call[StatsResponse](t, session, "get_stats", nil)
	assert.Equal(t, "1.5", stats.TotalHours)
}

func TestServerDeleteNeedsConfirm(t *testing.T) {
	session := connect(t, Config{Session: newTestSession(t, storage.NewMemoryKV())})
	added := call[TaskResponse](t, session, "add_task", map[string]any{"title": "Gym"})

	preview := call[DeleteResponse](t, session, "delete_task", map[string]any{"id": added.Task.ID})
	assert.False(t, preview.Deleted)
	assert.Equal(t, "Gym", preview.Title)
	rec := call[RecordResponse](t, session, "get_record", nil)
	require.Len(t, rec.Tasks, 1)

	done := call[DeleteResponse](t, session, "delete_task", map[string]any{"id": added.Task.ID, "confirm": true})
	assert.True(t, done.Deleted)
	rec = call[RecordResponse](t, session, "get_record", nil)
	assert.Empty(t, rec.Tasks)

	again := call[DeleteResponse](t, session, "delete_task", map[string]any{"id": added.Task.ID, "confirm": true})
	assert.False(t, again.Found)
	assert.False(t, again.Deleted)
}

func TestServerUnknownIDsAreNoops(t *testing.T) {
	session := connect(t, Config{Session: newTestSession(t, storage.NewMemoryKV())})
	added := call[TaskResponse](t, session, "add_task", map[string]any{"title": "Gym"})

	toggled := call[ToggleResponse](t, session, "toggle_task", map[string]any{"id": "missing"})
	assert.False(t, toggled.Found)
	assert.Equal(t, "missing", toggled.ID)

	edited := call[EditResponse](t, session, "edit_task", map[string]any{"id": "missing", "title": "Run"})
	assert.False(t, edited.Found)

	rec := call[RecordResponse](t, session, "get_record", nil)
	require.Len(t, rec.Tasks, 1)
	assert.Equal(t, added.Task.ID, rec.Tasks[0].ID)
	assert.Equal(t, "Gym", rec.Tasks[0].Title)
	assert.False(t, rec.Tasks[0].Completed)

	toggled = call[ToggleResponse](t, session, "toggle_task", map[string]any{"id": added.Task.ID})
	assert.True(t, toggled.Found)
	assert.True(t, toggled.Completed)
}

func TestServerTemplatesAndErrors(t *testing.T) {
	s := newTestSession(t, storage.NewMemoryKV())
	_, err := s.SaveTemplate(t.Context(), model.TemplateDraft{Title: "Deep Work", IconKey: "Brain", DurationText: "2h"})
	require.NoError(t, err)
	session := connect(t, Config{Session: s})

	applied := call[TaskResponse](t, session, "apply_template", map[string]any{"template": "deep work", "date": "2024-01-05"})
	assert.Equal(t, "Deep Work", applied.Task.Title)
	assert.Equal(t, "09:00", applied.Task.ScheduledTime)

	list := call[TemplatesResponse](t, session, "list_templates", map[string]any{"filter": "popular"})
	require.Len(t, list.Templates, 1)
	assert.Equal(t, 1, list.Templates[0].UsageCount)

	assert.Contains(t, callError(t, session, "apply_template", map[string]any{"template": "nope"}), "TEMPLATE_NOT_FOUND")
	assert.Contains(t, callError(t, session, "get_record", map[string]any{"date": "2024-02-30"}), "INVALID_DATE")
	assert.Contains(t, callError(t, session, "add_task", map[string]any{"title": "x", "time": "7am"}), "VALIDATION")
	assert.Contains(t, callError(t, session, "list_templates", map[string]any{"filter": "oldest"}), "VALIDATION")
}

func TestServerReloadsBetweenCalls(t *testing.T) {
	kv := storage.NewMemoryKV()
	session := connect(t, Config{Session: newTestSession(t, kv), ReloadEachCall: true})

	other := newTestSession(t, kv)
	_, err := other.AddTask(t.Context(), "2024-01-02", model.TaskDraft{Title: "From elsewhere", DurationText: "10 min"})
	require.NoError(t, err)

	rec := call[RecordResponse](t, session, "get_record", nil)
	require.Len(t, rec.Tasks, 1)
	assert.Equal(t, "From elsewhere", rec.Tasks[0].Title)
}

func TestServerAdvise(t *testing.T) {
	session := connect(t, Config{
		Session: newTestSession(t, storage.NewMemoryKV()),
		Advisor: advisor.Static("take breaks"),
	})
	out := call[AdviceResponse](t, session, "advise", nil)
	assert.Equal(t, "take breaks", out.Advice)
	assert.Equal(t, "2024-01-02", out.Date)
}
