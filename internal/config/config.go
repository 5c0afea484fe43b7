package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/app"
	"github.com/atomicstack/tmux-popup-tree/internal/scan"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	"github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigFile  = "TMUX_POPUP_TREE_CONFIG"
	envRoot        = "TMUX_POPUP_TREE_ROOT"
	envSocketPath  = "TMUX_POPUP_TREE_SOCKET"
	envWidth       = "TMUX_POPUP_TREE_WIDTH"
	envHeight      = "TMUX_POPUP_TREE_HEIGHT"
	envMaxDepth    = "TMUX_POPUP_TREE_MAX_DEPTH"
	envHotKey      = "TMUX_POPUP_TREE_HOTKEY"
	envShowHidden  = "TMUX_POPUP_TREE_SHOW_HIDDEN"
	envExclude     = "TMUX_POPUP_TREE_EXCLUDE"
	envWatch       = "TMUX_POPUP_TREE_WATCH"
	envViewer      = "TMUX_POPUP_TREE_VIEWER"
	envVerbose     = "TMUX_POPUP_TREE_VERBOSE"
	envLeaveDelay  = "TMUX_POPUP_TREE_LEAVE_DELAY"
	envCloseDelay  = "TMUX_POPUP_TREE_CLOSE_DELAY"
	envSwallow     = "TMUX_POPUP_TREE_SWALLOW"
	envStillActive = "TMUX_POPUP_TREE_STILL_ACTIVE"
	envFadeStep    = "TMUX_POPUP_TREE_FADE_STEP"
	envFadeSteps   = "TMUX_POPUP_TREE_FADE_STEPS"
	envMinWidth    = "TMUX_POPUP_TREE_MIN_WIDTH"
	envMaxWidth    = "TMUX_POPUP_TREE_MAX_WIDTH"
	envTrace       = "TMUX_POPUP_TREE_TRACE"
	envLogFile     = "TMUX_POPUP_TREE_LOG_FILE"
)

// fileSettings mirrors the TOML settings file. Zero values leave the
// built-in default in place.
type fileSettings struct {
	Root        string   `toml:"root"`
	Socket      string   `toml:"socket"`
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	MaxDepth    int      `toml:"max_depth"`
	HotKey      string   `toml:"hotkey"`
	ShowHidden  bool     `toml:"show_hidden"`
	Exclude     []string `toml:"exclude"`
	Watch       *bool    `toml:"watch"`
	Viewer      string   `toml:"viewer"`
	Verbose     bool     `toml:"verbose"`
	LogFile     string   `toml:"log_file"`
	Trace       bool     `toml:"trace"`
	LeaveDelay  duration `toml:"leave_delay"`
	CloseDelay  duration `toml:"close_delay"`
	Swallow     duration `toml:"swallow"`
	StillActive duration `toml:"still_active"`
	FadeStep    duration `toml:"fade_step"`
	FadeSteps   *int     `toml:"fade_steps"`
	MinWidth    int      `toml:"min_width"`
	MaxWidth    int      `toml:"max_width"`
}

// duration accepts Go duration strings such as "250ms" in the settings file.
type duration struct {
	time.Duration
	set bool
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration, d.set = parsed, true
	return nil
}

func (d duration) or(fallback time.Duration) time.Duration {
	if d.set {
		return d.Duration
	}
	return fallback
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// flag, then environment, then settings file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	file := envOrDefault(env, envConfigFile, "")
	if v, ok := configFlag(args); ok {
		file = v
	}
	var fs0 fileSettings
	if file != "" {
		loaded, err := readFile(file)
		if err != nil {
			return Config{}, err
		}
		fs0 = loaded
	}
	watchDefault := true
	if fs0.Watch != nil {
		watchDefault = *fs0.Watch
	}
	fadeStepsDefault := 6
	if fs0.FadeSteps != nil {
		fadeStepsDefault = *fs0.FadeSteps
	}

	fs := flag.NewFlagSet("tmux-popup-tree", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", file, "path to a TOML settings file")
	root := fs.String("root", envOrDefault(env, envRoot, fs0.Root), "directory shown as the root menu (defaults to the pane's directory)")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, fs0.Socket), "path to the tmux socket (overrides environment detection)")
	width := fs.Int("width", envOrInt(env, envWidth, fs0.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, fs0.Height), "desired viewport height in rows (0 uses terminal height)")
	maxDepth := fs.Int("max-depth", envOrInt(env, envMaxDepth, orInt(fs0.MaxDepth, state.MaxDepth)), "maximum number of nested levels")
	hotkey := fs.String("hotkey", envOrDefault(env, envHotKey, orString(fs0.HotKey, "ctrl+o")), "key that toggles the menu")
	showHidden := fs.Bool("show-hidden", envOrBool(env, envShowHidden, fs0.ShowHidden), "list dotfiles")
	exclude := fs.String("exclude", envOrDefault(env, envExclude, strings.Join(fs0.Exclude, ",")), "comma separated glob patterns to hide")
	watch := fs.Bool("watch", envOrBool(env, envWatch, watchDefault), "reload the root menu when the root directory changes")
	viewer := fs.String("viewer", envOrDefault(env, envViewer, fs0.Viewer), "command used to open files (defaults to less)")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, fs0.Verbose), "print success messages for actions")
	leaveDelay := fs.Duration("leave-delay", envOrDuration(env, envLeaveDelay, fs0.LeaveDelay.or(500*time.Millisecond)), "delay after the pointer leaves every level before fading out")
	closeDelay := fs.Duration("close-delay", envOrDuration(env, envCloseDelay, fs0.CloseDelay.or(400*time.Millisecond)), "delay before a loaded child level closes after its row is left")
	swallow := fs.Duration("swallow", envOrDuration(env, envSwallow, fs0.Swallow.or(200*time.Millisecond)), "window in which a tray click after a focus-loss close is ignored")
	stillActive := fs.Duration("still-active", envOrDuration(env, envStillActive, fs0.StillActive.or(time.Second)), "poll interval for detecting lost focus")
	fadeStep := fs.Duration("fade-step", envOrDuration(env, envFadeStep, fs0.FadeStep.or(16*time.Millisecond)), "interval between fade frames")
	fadeSteps := fs.Int("fade-steps", envOrInt(env, envFadeSteps, fadeStepsDefault), "number of fade frames (0 disables fading)")
	minWidth := fs.Int("min-width", envOrInt(env, envMinWidth, orInt(fs0.MinWidth, 16)), "minimum level width in cells")
	maxWidth := fs.Int("max-width", envOrInt(env, envMaxWidth, orInt(fs0.MaxWidth, 48)), "maximum level width in cells")
	trace := fs.Bool("trace", envOrBool(env, envTrace, fs0.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, fs0.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Root:                *root,
			SocketPath:          *socket,
			Width:               *width,
			Height:              *height,
			MaxDepth:            *maxDepth,
			HotKey:              strings.TrimSpace(*hotkey),
			ShowHidden:          *showHidden,
			Exclude:             splitList(*exclude),
			Watch:               *watch,
			Viewer:              *viewer,
			Verbose:             *verbose,
			LeaveDelay:          *leaveDelay,
			CloseDelay:          *closeDelay,
			DeactivationSwallow: *swallow,
			StillActiveInterval: *stillActive,
			FadeStep:            *fadeStep,
			FadeSteps:           *fadeSteps,
			MinWidth:            *minWidth,
			MaxWidth:            *maxWidth,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: file,
		Flags: map[string]string{
			"config":      file,
			"root":        *root,
			"socket":      *socket,
			"width":       strconv.Itoa(*width),
			"height":      strconv.Itoa(*height),
			"maxDepth":    strconv.Itoa(*maxDepth),
			"hotkey":      *hotkey,
			"showHidden":  strconv.FormatBool(*showHidden),
			"exclude":     *exclude,
			"watch":       strconv.FormatBool(*watch),
			"viewer":      *viewer,
			"verbose":     strconv.FormatBool(*verbose),
			"leaveDelay":  leaveDelay.String(),
			"closeDelay":  closeDelay.String(),
			"swallow":     swallow.String(),
			"stillActive": stillActive.String(),
			"fadeStep":    fadeStep.String(),
			"fadeSteps":   strconv.Itoa(*fadeSteps),
			"minWidth":    strconv.Itoa(*minWidth),
			"maxWidth":    strconv.Itoa(*maxWidth),
			"trace":       strconv.FormatBool(*trace),
			"logFile":     *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configFlag finds --config ahead of the real parse, since the file supplies
// defaults for every other flag.
func configFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func readFile(path string) (fileSettings, error) {
	var out fileSettings
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read settings file: %w", err)
	}
	if err := toml.Unmarshal(data, &out); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return out, fmt.Errorf("parse %s:%d:%d: %w", path, row, col, err)
		}
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	a := cfg.App
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.MaxDepth < 1 || a.MaxDepth > state.MaxDepth {
		return fmt.Errorf("max-depth must be between 1 and %d (got %d)", state.MaxDepth, a.MaxDepth)
	}
	if a.HotKey == "" {
		return errors.New("hotkey must not be empty")
	}
	for name, d := range map[string]time.Duration{
		"leave-delay":  a.LeaveDelay,
		"close-delay":  a.CloseDelay,
		"swallow":      a.DeactivationSwallow,
		"still-active": a.StillActiveInterval,
		"fade-step":    a.FadeStep,
	} {
		if d < 0 {
			return fmt.Errorf("%s must be >= 0 (got %s)", name, d)
		}
	}
	if a.FadeSteps < 0 {
		return fmt.Errorf("fade-steps must be >= 0 (got %d)", a.FadeSteps)
	}
	if a.MinWidth < 1 {
		return fmt.Errorf("min-width must be >= 1 (got %d)", a.MinWidth)
	}
	if a.MaxWidth < a.MinWidth {
		return fmt.Errorf("max-width must be >= min-width (got %d < %d)", a.MaxWidth, a.MinWidth)
	}
	if err := scan.ValidatePatterns(a.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	return nil
}
