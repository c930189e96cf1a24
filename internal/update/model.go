package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/dnd"
	"github.com/sandeepkv93/studyplan/internal/filter"
	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/refresh"
	"github.com/sandeepkv93/studyplan/internal/scheduler"
	"github.com/sandeepkv93/studyplan/internal/store"
	"github.com/sandeepkv93/studyplan/internal/techniques"
)

type View string

const (
	ViewList       View = "List"
	ViewWeek       View = "Week"
	ViewTechniques View = "Techniques"
	ViewFocus      View = "Focus"
)

const (
	firstHour  = 6
	lastHour   = 22
	allDayBand = -1
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	List       string
	Week       string
	Techniques string
	Focus      string
	Palette    string
	Refresh    string
	Help       string
	Quit       string
}

type SidebarState struct {
	Focused bool
	Cursor  int
	Hidden  map[string]bool
}

// WeekState is the cursor of the week grid. Hour is allDayBand or an hour
// between firstHour and lastHour.
type WeekState struct {
	Anchor string
	Day    int
	Hour   int
}

type FocusPhase string

const (
	FocusPhaseWork  FocusPhase = "work"
	FocusPhaseBreak FocusPhase = "break"
)

type FocusState struct {
	TaskID             string
	TaskTitle          string
	Technique          model.Technique
	WorkDurationSec    int
	BreakDurationSec   int
	RemainingSec       int
	Running            bool
	Phase              FocusPhase
	CompletedPomodoros int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

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

// Deps are the long-lived services the TUI drives. Store is required.
type Deps struct {
	Store     *store.Store
	Notices   *ChannelNotifier
	Scheduler *scheduler.Engine
	Refresh   *refresh.Service
	Desktop   DesktopNotifier
	Config    RuntimeConfig
}

type Model struct {
	CurrentView     View
	SelectedTaskID  string
	SubtaskCursor   int
	Tasks           []model.Task
	Loading         bool
	Filter          filter.Options
	Cursor          int
	Searching       bool
	Sidebar         SidebarState
	Week            WeekState
	Pages           []techniques.Page
	TechniqueCursor int
	Focus           FocusState
	Palette         CommandPaletteState
	HelpVisible     bool
	Notifications   []Notification
	ReminderLog     []scheduler.Reminder
	DesktopEnabled  bool
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error

	store        *store.Store
	dates        datekey.Normalizer
	drag         *dnd.Controller
	notices      *ChannelNotifier
	scheduler    *scheduler.Engine
	refresher    *refresh.Service
	notifier     DesktopNotifier
	reminderLead time.Duration
	changes      <-chan struct{}
	unsubscribe  func()

	commandInput  textinput.Model
	searchInput   textinput.Model
	focusProgress progress.Model
	syncSpinner   spinner.Model
	helpModel     help.Model
	pageViewport  viewport.Model
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

// TasksChangedMsg means the store dispatched since the last snapshot.
type TasksChangedMsg struct{}

type NotificationMsg struct {
	Notification store.Notification
}

type ReminderDueMsg struct {
	Reminder scheduler.Reminder
}

// OpResultMsg reports a finished store operation.
type OpResultMsg struct {
	Text string
	Err  error
}

// GrabMsg starts dragging a task.
type GrabMsg struct {
	TaskID string
}

// DropMsg releases the dragged task over a cell.
type DropMsg struct {
	Target dnd.Target
}

type FocusTickMsg struct{}

func NewModel(deps Deps) Model {
	cfg := deps.Config
	if cfg == (RuntimeConfig{}) {
		cfg = DefaultRuntimeConfig()
	}
	m := Model{
		CurrentView: ViewList,
		Filter:      filter.DefaultOptions(),
		Sidebar:     SidebarState{Hidden: make(map[string]bool)},
		Week:        WeekState{Hour: allDayBand},
		Focus: FocusState{
			WorkDurationSec:  25 * 60,
			BreakDurationSec: 5 * 60,
			Phase:            FocusPhaseWork,
		},
		DesktopEnabled: cfg.DesktopNotifications,
		Keys: GlobalKeyMap{
			List:       "1",
			Week:       "2",
			Techniques: "3",
			Focus:      "4",
			Palette:    ":",
			Refresh:    "R",
			Help:       "?",
			Quit:       "q",
		},
		store:        deps.Store,
		dates:        deps.Store.Dates(),
		drag:         dnd.NewController(deps.Store),
		notices:      deps.Notices,
		scheduler:    deps.Scheduler,
		refresher:    deps.Refresh,
		notifier:     NoopDesktopNotifier{},
		reminderLead: cfg.ReminderLead(),
	}
	if deps.Desktop != nil {
		m.notifier = deps.Desktop
	}
	if cfg.FocusWorkMinutes > 0 {
		m.Focus.WorkDurationSec = cfg.FocusWorkMinutes * 60
	}
	if cfg.FocusBreakMinutes > 0 {
		m.Focus.BreakDurationSec = cfg.FocusBreakMinutes * 60
	}
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	m.Week.Anchor = m.dates.Today()
	m.Week.Day = weekdayIndex(m.Week.Anchor, m.weekDays())
	m.changes, m.unsubscribe = deps.Store.Subscribe()
	if pages, err := techniques.All(); err == nil {
		m.Pages = pages
	}

	m.initBubbleComponents()
	m.reloadTasks()
	m.syncTechniquePage()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 40

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.pageViewport = viewport.New(60, 18)
}
