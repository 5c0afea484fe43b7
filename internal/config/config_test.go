package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	a := cfg.App
	if a.MaxDepth != 25 || a.HotKey != "ctrl+o" || !a.Watch {
		t.Fatalf("unexpected defaults %+v", a)
	}
	if a.CloseDelay != 400*time.Millisecond || a.DeactivationSwallow != 200*time.Millisecond || a.StillActiveInterval != time.Second {
		t.Fatalf("unexpected timing defaults %+v", a)
	}
	if a.FadeSteps != 6 || a.MinWidth != 16 || a.MaxWidth != 48 {
		t.Fatalf("unexpected view defaults %+v", a)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	env := []string{
		envSocketPath + "=/env.sock",
		envCloseDelay + "=1s",
		envExclude + "=**/node_modules, *.tmp",
		envShowHidden + "=true",
	}
	cfg, err := LoadArgs([]string{"-socket", "/flag.sock", "-close-delay", "250ms"}, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.SocketPath != "/flag.sock" || cfg.App.CloseDelay != 250*time.Millisecond {
		t.Fatalf("flags should win: %+v", cfg.App)
	}
	if !cfg.App.ShowHidden {
		t.Fatalf("expected show-hidden from env")
	}
	if !reflect.DeepEqual(cfg.App.Exclude, []string{"**/node_modules", "*.tmp"}) {
		t.Fatalf("unexpected exclude %q", cfg.App.Exclude)
	}
	if cfg.Flags["socket"] != "/flag.sock" || cfg.Flags["closeDelay"] != "250ms" {
		t.Fatalf("unexpected flag record %v", cfg.Flags)
	}
}

func TestInvalidEnvironmentFallsBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{envMaxDepth + "=lots", envSwallow + "=soon"})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.MaxDepth != 25 || cfg.App.DeactivationSwallow != 200*time.Millisecond {
		t.Fatalf("expected fallbacks, got %+v", cfg.App)
	}
}

func TestSettingsFileSitsBelowEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.toml")
	body := strings.Join([]string{
		`root = "/srv"`,
		`max_depth = 4`,
		`exclude = ["*.bak"]`,
		`watch = false`,
		`close_delay = "900ms"`,
		`fade_steps = 0`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	cfg, err := LoadArgs([]string{"--config=" + path}, []string{envMaxDepth + "=7"})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	a := cfg.App
	if a.Root != "/srv" || a.MaxDepth != 7 || a.Watch || a.FadeSteps != 0 {
		t.Fatalf("unexpected layering %+v", a)
	}
	if a.CloseDelay != 900*time.Millisecond || !reflect.DeepEqual(a.Exclude, []string{"*.bak"}) {
		t.Fatalf("unexpected file values %+v", a)
	}
	if cfg.File != path {
		t.Fatalf("expected file recorded, got %q", cfg.File)
	}
}

func TestSettingsFileFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.toml")
	if err := os.WriteFile(path, []byte(`hotkey = "ctrl+t"`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	cfg, err := LoadArgs(nil, []string{envConfigFile + "=" + path})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.HotKey != "ctrl+t" {
		t.Fatalf("expected hotkey from file, got %q", cfg.App.HotKey)
	}
}

func TestBadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.toml")
	if err := os.WriteFile(path, []byte("close_delay = \"never\"\n"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := LoadArgs([]string{"-config", path}, nil); err == nil {
		t.Fatalf("expected error for bad duration")
	}
	if _, err := LoadArgs([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string][]string{
		"negative width":   {"-width", "-1"},
		"zero depth":       {"-max-depth", "0"},
		"deep":             {"-max-depth", "99"},
		"negative delay":   {"-close-delay", "-1s"},
		"negative steps":   {"-fade-steps", "-2"},
		"narrow max":       {"-min-width", "20", "-max-width", "10"},
		"empty hotkey":     {"-hotkey", " "},
		"bad exclude glob": {"-exclude", "[abc"},
	}
	for name, args := range cases {
		cfg, err := LoadArgs(args, nil)
		if err != nil {
			t.Fatalf("%s: LoadArgs: %v", name, err)
		}
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestUnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"-nope"}, nil); err == nil {
		t.Fatalf("expected unknown flag error")
	}
}
