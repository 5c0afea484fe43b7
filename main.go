package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/tmux-popup-tree/internal/app"
	"github.com/atomicstack/tmux-popup-tree/internal/config"
	"github.com/atomicstack/tmux-popup-tree/internal/logging"
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

// run returns the exit code: 2 for a bad configuration, 1 when the tree
// could not be shown.
func run() int {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupTracePayload(cfg))

	err := app.Run(cfg.App)
	events.App.Exit(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// startupTracePayload records how the tree was configured and what the
// process found around it.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+3)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	if cfg.File != "" {
		flags["config"] = cfg.File
	}
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"root":   describeRoot(cfg.App.Root),
		"timings": map[string]int64{
			"leaveMs":       cfg.App.LeaveDelay.Milliseconds(),
			"closeMs":       cfg.App.CloseDelay.Milliseconds(),
			"swallowMs":     cfg.App.DeactivationSwallow.Milliseconds(),
			"stillActiveMs": cfg.App.StillActiveInterval.Milliseconds(),
		},
		"tty": collectTTYDetails(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

type rootDetails struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	IsDir  bool   `json:"is_dir"`
	Error  string `json:"error,omitempty"`
}

// describeRoot stats the configured root. An empty root is resolved later
// from the tmux pane, so only the path is recorded.
func describeRoot(root string) rootDetails {
	d := rootDetails{Path: root}
	if root == "" {
		return d
	}
	info, err := os.Stat(root)
	if err != nil {
		d.Error = err.Error()
		return d
	}
	d.Exists, d.IsDir = true, info.IsDir()
	return d
}

type ttyDetails struct {
	Size   *ttyProbe  `json:"size,omitempty"`
	Probes []ttyProbe `json:"probes"`
}

type ttyProbe struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

func probeTTY(name string, f *os.File) ttyProbe {
	p := ttyProbe{Name: name}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return p
	}
	p.Terminal = true
	w, h, err := term.GetSize(fd)
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Width, p.Height = w, h
	return p
}

// collectTTYDetails probes the standard descriptors. Size is the first one
// that reported dimensions.
func collectTTYDetails() ttyDetails {
	var d ttyDetails
	for _, f := range []struct {
		name string
		file *os.File
	}{{"stdin", os.Stdin}, {"stdout", os.Stdout}, {"stderr", os.Stderr}} {
		p := probeTTY(f.name, f.file)
		d.Probes = append(d.Probes, p)
		if d.Size == nil && p.Width > 0 {
			size := p
			d.Size = &size
		}
	}
	return d
}
