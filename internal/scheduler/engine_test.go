package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/lifehub/internal/model"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Event{ID: "later", At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Event{ID: "sooner", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Event{ID: fmt.Sprintf("evt-%d", i), Kind: KindTaskStart, At: now}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleSameIDReplacesPendingReminder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Event{ID: "2024-01-02/a", Title: "Gym", At: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Event{ID: "2024-01-02/a", Title: "Gym moved", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected 1 pending event, got %d", got)
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.Title != "Gym moved" {
		t.Fatalf("expected rescheduled reminder, got %+v", ev)
	}
}

func TestSameInstantDeliversTasksBeforeDayChange(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(30 * time.Millisecond)
	if err := engine.Replace([]Event{
		{ID: "d/day-change", Kind: KindDayChange, At: at},
		{ID: "d/b", Kind: KindTaskStart, At: at},
		{ID: "d/a", Kind: KindTaskStart, At: at},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, waitEvent(t, engine.C(), time.Second).ID)
	}
	want := []string{"d/a", "d/b", "d/day-change"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Event{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestReplaceDropsPendingEvents(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Event{ID: "stale", At: now.Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule stale: %v", err)
	}
	if err := engine.Replace([]Event{
		{ID: "fresh", At: now.Add(40 * time.Millisecond)},
		{ID: "zero"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected 1 pending event, got %d", got)
	}

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ID != "fresh" {
		t.Fatalf("expected fresh event, got %s", ev.ID)
	}
}

func TestScheduleAfterStop(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Event{ID: "late", At: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if err := engine.Replace(nil); err != ErrStopped {
		t.Fatalf("expected ErrStopped from replace, got %v", err)
	}
}

func TestPlanDay(t *testing.T) {
	date := model.DateKey("2024-01-02")
	now, _ := date.At("10:00")
	tasks := []model.TaskRecord{
		{ID: "late", Title: "Read", ScheduledTime: "21:00"},
		{ID: "past", Title: "Gym", ScheduledTime: "07:00"},
		{ID: "done", Title: "Walk", ScheduledTime: "12:00", Completed: true},
		{ID: "soon", Title: "Lunch", ScheduledTime: "10:04"},
		{ID: "noclock", Title: "Whenever"},
	}

	events := PlanDay(date, tasks, 5*time.Minute, now)
	if len(events) != 2 {
		t.Fatalf("expected read reminder and day change, got %+v", events)
	}
	if events[0].TaskID != "late" || events[0].Kind != KindTaskStart || events[0].Date != date {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	want, _ := date.At("20:55")
	if !events[0].At.Equal(want) {
		t.Fatalf("expected trigger at %v, got %v", want, events[0].At)
	}
	if events[1].Kind != KindDayChange || !events[1].At.Equal(model.DateKey("2024-01-03").Time()) {
		t.Fatalf("unexpected day change event: %+v", events[1])
	}
}

func TestPlanDayForPastDate(t *testing.T) {
	now, _ := model.DateKey("2024-01-05").At("08:00")
	events := PlanDay("2024-01-02", []model.TaskRecord{{ID: "a", ScheduledTime: "09:00"}}, 0, now)
	if len(events) != 0 {
		t.Fatalf("expected no events for a past date, got %+v", events)
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
