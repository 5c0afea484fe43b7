package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/backend"
	"github.com/atomicstack/tmux-popup-tree/internal/layout"
	"github.com/atomicstack/tmux-popup-tree/internal/loader"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/command"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/keyboard"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/popup"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type entry = uistate.Entry

type msgHandler func(tea.Msg) tea.Cmd

// Config holds the settings the model needs. Zero durations and sizes fall
// back to defaults, except FadeSteps where zero disables fading.
type Config struct {
	Root       string
	SocketPath string
	// Width and Height pin the canvas size; zero follows the terminal.
	Width    int
	Height   int
	MaxDepth int
	HotKey   string
	Viewer   string
	Verbose  bool

	LeaveDelay          time.Duration
	CloseDelay          time.Duration
	DeactivationSwallow time.Duration
	StillActiveInterval time.Duration
	FadeStep            time.Duration
	FadeSteps           int
	MinWidth            int
	MaxWidth            int
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 || c.MaxDepth > uistate.MaxDepth {
		c.MaxDepth = uistate.MaxDepth
	}
	if c.LeaveDelay <= 0 {
		c.LeaveDelay = 500 * time.Millisecond
	}
	if c.CloseDelay <= 0 {
		c.CloseDelay = 400 * time.Millisecond
	}
	if c.DeactivationSwallow <= 0 {
		c.DeactivationSwallow = 200 * time.Millisecond
	}
	if c.StillActiveInterval <= 0 {
		c.StillActiveInterval = time.Second
	}
	defaults := popup.DefaultOptions()
	if c.FadeStep <= 0 {
		c.FadeStep = defaults.FadeStep
	}
	if c.FadeSteps < 0 {
		c.FadeSteps = 0
	}
	if c.MinWidth <= 0 {
		c.MinWidth = defaults.MinWidth
	}
	if c.MaxWidth < c.MinWidth {
		c.MaxWidth = max(defaults.MaxWidth, c.MinWidth)
	}
	return c
}

// actions are the file operations behind activation and the context click.
type actions struct {
	open command.Action
	copy command.Action
}

// Model implements the Bubble Tea model for the cascading directory menus.
type Model struct {
	cfg  Config
	tree *uistate.Tree

	// levels holds one view per depth; the open chain is always a
	// contiguous prefix. Views that were closed but are still fading out
	// live in fading until they report Hidden.
	levels [uistate.MaxDepth]*popup.View
	fading []*popup.View

	scan     loader.ScanFunc
	rootSlot *loader.Slot
	owners   map[*loader.Slot]*entry

	keys     *keyboard.Navigator
	viewOpts popup.Options
	views    popupEvents

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	pointerX    int
	pointerY    int

	deactivatedAt time.Time
	leave         debouncer
	stillActive   poller

	spin       spinner.Spinner
	spinFrame  int
	spinGen    uint64
	spinActive bool

	errMsg  string
	infoMsg string
	err     error

	bus     *command.Bus
	actions actions
	watcher *backend.Watcher

	now   func() time.Time
	after func(time.Duration, tea.Msg) tea.Cmd

	handlers map[reflect.Type]msgHandler
}

// NewModel builds a closed cascade rooted at cfg.Root. scan runs on worker
// goroutines; watcher may be nil.
func NewModel(cfg Config, scan loader.ScanFunc, watcher *backend.Watcher) *Model {
	cfg = cfg.withDefaults()
	m := &Model{
		cfg:     cfg,
		tree:    uistate.NewTree(),
		scan:    scan,
		owners:  map[*loader.Slot]*entry{},
		spin:    spinner.MiniDot,
		bus:     command.New(),
		watcher: watcher,
		now:     time.Now,
		after:   tick,
	}
	m.rootSlot = loader.NewSlot(cfg.Root, scan)
	m.actions = actions{open: m.openEntry, copy: m.copyEntryPath}
	m.views = popupEvents{m: m}
	m.viewOpts = popup.Options{
		FadeStep:    cfg.FadeStep,
		FadeSteps:   cfg.FadeSteps,
		MinWidth:    cfg.MinWidth,
		MaxWidth:    cfg.MaxWidth,
		DoubleClick: popup.DefaultOptions().DoubleClick,
		Tick:        func(d time.Duration, msg tea.Msg) tea.Cmd { return m.after(d, msg) },
	}
	m.keys = keyboard.New(keyboard.DefaultKeyMap(cfg.HotKey), navLevels{m: m}, keyEvents{m: m})
	m.leave.delay = cfg.LeaveDelay
	m.stillActive.interval = cfg.StillActiveInterval
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Resize sets the canvas size unless it was pinned by configuration.
func (m *Model) Resize(width, height int) {
	if !m.fixedWidth && width > 0 {
		m.width = width
	}
	if !m.fixedHeight && height > 0 {
		m.height = height
	}
	m.relayout()
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error { return m.err }

// Init opens the root level, as if the hotkey had been pressed.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.switchOpenClose(false), m.startStillActive()}
	if m.watcher != nil {
		cmds = append(cmds, waitForWatchEvent(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.FocusMsg{}):      m.handleFocusMsg,
		reflect.TypeOf(tea.BlurMsg{}):       m.handleBlurMsg,
		reflect.TypeOf(loader.DoneMsg{}):    m.handleLoadDoneMsg,
		reflect.TypeOf(popup.FadeMsg{}):     m.handleFadeMsg,
		reflect.TypeOf(closeSoonMsg{}):      m.handleCloseSoonMsg,
		reflect.TypeOf(leaveFiredMsg{}):     m.handleLeaveFiredMsg,
		reflect.TypeOf(stillActiveMsg{}):    m.handleStillActiveMsg,
		reflect.TypeOf(spinTickMsg{}):       m.handleSpinTickMsg,
		reflect.TypeOf(command.Result{}):    m.handleActionResultMsg,
		reflect.TypeOf(watchEventMsg{}):     m.handleWatchEventMsg,
		reflect.TypeOf(watchDoneMsg{}):      m.handleWatchDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.Resize(size.Width, size.Height)
	return nil
}

func (m *Model) handleFadeMsg(msg tea.Msg) tea.Cmd {
	fade, ok := msg.(popup.FadeMsg)
	if !ok || fade.View() == nil {
		return nil
	}
	return fade.View().HandleFade(fade)
}

// canvasHeight is the area above the tray line.
func (m *Model) canvasHeight() int {
	return max(m.height-1, 0)
}

func (m *Model) screen() layout.Size {
	return layout.Size{Width: m.width, Height: m.canvasHeight()}
}

// navLevels exposes the usable levels to the keyboard navigator.
type navLevels struct{ m *Model }

func (n navLevels) Level(depth int) *uistate.Level {
	if depth < 0 || depth >= len(n.m.levels) {
		return nil
	}
	v := n.m.levels[depth]
	if v == nil || !v.Usable() {
		return nil
	}
	return v.Level()
}

func (n navLevels) PageSize(depth int) int {
	if depth < 0 || depth >= len(n.m.levels) || n.m.levels[depth] == nil {
		return 1
	}
	return max(n.m.levels[depth].VisibleRows(), 1)
}
