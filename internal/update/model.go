package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/lifehub/internal/advisor"
	"github.com/sandeepkv93/lifehub/internal/config"
	"github.com/sandeepkv93/lifehub/internal/model"
	"github.com/sandeepkv93/lifehub/internal/routine"
	"github.com/sandeepkv93/lifehub/internal/scheduler"
)

type View string

const (
	ViewToday     View = "Today"
	ViewStats     View = "Stats"
	ViewTemplates View = "Templates"
	ViewZen       View = "Zen"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today     string
	Stats     string
	Templates string
	Zen       string
	Advise    string
	Help      string
	Quit      string
}

type FormKind string

const (
	FormNone         FormKind = ""
	FormAddTask      FormKind = "add task"
	FormEditTask     FormKind = "edit task"
	FormNewTemplate  FormKind = "new template"
	FormEditTemplate FormKind = "edit template"
)

// FormState is the single-line editor shared by task and template forms.
// Input uses the palette's add syntax: title [@HH:MM] [~duration] [#icon].
type FormState struct {
	Kind     FormKind
	TargetID string
	Input    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type AdviceState struct {
	Loading bool
	Date    model.DateKey
	Text    string
}

type Model struct {
	CurrentView    View
	Date           model.DateKey
	Tasks          []model.TaskRecord
	Cursor         int
	TemplateFilter model.TemplateFilter
	Templates      []model.TaskTemplate
	TemplateCursor int
	Stats          routine.Stats
	Form           FormState
	Confirm        *routine.DeleteRequest
	Palette        CommandPaletteState
	Advice         AdviceState
	Scheduler      *scheduler.Engine
	ReminderLog    []scheduler.Event
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx          context.Context
	session      *routine.Session
	advisor      advisor.Advisor
	reminderLead time.Duration
	now          func() time.Time

	todayList      list.Model
	templateList   list.Model
	historyTable   table.Model
	formInput      textinput.Model
	commandInput   textinput.Model
	dayProgress    progress.Model
	adviceSpinner  spinner.Model
	helpModel      help.Model
	adviceViewport viewport.Model
	uiDensity      int
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.Event
}

type AdviceMsg struct {
	Date model.DateKey
	Text string
}

// StoreChangedMsg is sent by the watcher when the data directory changes
// underneath the running session.
type StoreChangedMsg struct{}

// NewModel builds the TUI state around an open session. The session's
// current date is shown first.
func NewModel(ctx context.Context, session *routine.Session) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		CurrentView:    ViewToday,
		TemplateFilter: model.TemplateFilterAll,
		notifier:       NoopDesktopNotifier{},
		Keys: GlobalKeyMap{
			Today:     "1",
			Stats:     "2",
			Templates: "3",
			Zen:       "4",
			Advise:    "A",
			Help:      "?",
			Quit:      "q",
		},
		ctx:          ctx,
		session:      session,
		reminderLead: time.Duration(config.DefaultRuntimeConfig().ReminderLeadMinutes) * time.Minute,
		now:          time.Now,
		uiDensity:    1,
	}
	m.initBubbleComponents()
	m.refresh()
	m.syncBubbleData()
	return m
}

func NewModelWithConfig(ctx context.Context, session *routine.Session, engine *scheduler.Engine, notifier DesktopNotifier, adv advisor.Advisor, cfg config.RuntimeConfig) Model {
	m := NewModel(ctx, session)
	m.Scheduler = engine
	m.DesktopEnabled = cfg.DesktopNotifications
	m.advisor = adv
	if notifier != nil {
		m.notifier = notifier
	}
	if cfg.ReminderLeadMinutes >= 0 {
		m.reminderLead = time.Duration(cfg.ReminderLeadMinutes) * time.Minute
	}
	m.replan()
	return m
}
