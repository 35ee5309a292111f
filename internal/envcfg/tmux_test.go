package envcfg

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ezrta/internal/config"
	"ezrta/internal/execx"
	"ezrta/internal/paths"
)

func testHostPaths(t *testing.T) paths.HostPaths {
	t.Helper()
	home := t.TempDir()
	return paths.HostPaths{
		Home:        home,
		TmuxConf:    filepath.Join(home, ".tmux.conf"),
		TmuxLogsDir: filepath.Join(home, "tmux-logs"),
		TPMDir:      filepath.Join(home, ".tmux", "plugins", "tpm"),
		ZshRC:       filepath.Join(home, ".zshrc"),
		BashRC:      filepath.Join(home, ".bashrc"),
	}
}

func TestTmuxSetupRequiresTmux(t *testing.T) {
	fake := &execx.FakeRunner{
		Responses: map[string]execx.FakeResponse{
			"tmux -V": {ExitCode: 127},
		},
	}
	cfg := &TmuxConfigurator{
		Runner: fake,
		Paths:  testHostPaths(t),
		Shell:  config.Default().Shell,
	}
	if err := cfg.Setup(context.Background()); err == nil {
		t.Fatal("expected error when tmux is missing")
	}
}

func TestTmuxSetupWritesConfigAndClonesPlugins(t *testing.T) {
	p := testHostPaths(t)
	fake := &execx.FakeRunner{}
	var out bytes.Buffer
	cfg := &TmuxConfigurator{
		Runner: &tpmCloningRunner{inner: fake, dest: p.TPMDir},
		Out:    &out,
		Paths:  p,
		Shell:  config.ShellConfig{Preferred: "zsh", Fallback: "/bin/bash"},
		LookPath: func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		},
	}

	if err := cfg.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	body, err := os.ReadFile(p.TmuxConf)
	if err != nil {
		t.Fatalf("read tmux conf: %v", err)
	}
	if !strings.Contains(string(body), "set-option -g default-shell /usr/bin/zsh") {
		t.Errorf("config missing default shell:\n%s", body)
	}
	if !strings.Contains(string(body), p.TmuxLogsDir) {
		t.Errorf("config missing logging path:\n%s", body)
	}

	if info, err := os.Stat(p.TmuxLogsDir); err != nil || !info.IsDir() {
		t.Errorf("tmux logs dir not created: %v", err)
	}
	if !fake.CalledWith("git clone") {
		t.Errorf("plugin manager not cloned: %v", fake.Calls)
	}
}

func TestTmuxSetupSkipsPluginCloneWhenPresent(t *testing.T) {
	p := testHostPaths(t)
	if err := os.MkdirAll(p.TPMDir, 0o755); err != nil {
		t.Fatal(err)
	}

	fake := &execx.FakeRunner{}
	cfg := &TmuxConfigurator{
		Runner: fake,
		Paths:  p,
		Shell:  config.ShellConfig{Preferred: "zsh", Fallback: "/bin/bash"},
		LookPath: func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		},
	}
	if err := cfg.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if fake.CalledWith("git clone") {
		t.Errorf("cloned over existing plugin manager: %v", fake.Calls)
	}
}

func TestTmuxSetupFallsBackWhenShellMissing(t *testing.T) {
	p := testHostPaths(t)
	if err := os.MkdirAll(p.TPMDir, 0o755); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cfg := &TmuxConfigurator{
		Runner: &execx.FakeRunner{},
		Out:    &out,
		Paths:  p,
		Shell:  config.ShellConfig{Preferred: "zsh", Fallback: "/bin/bash"},
		LookPath: func(string) (string, error) {
			return "", errors.New("not found")
		},
	}
	if err := cfg.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	body, err := os.ReadFile(p.TmuxConf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "set-option -g default-shell /bin/bash") {
		t.Errorf("config did not fall back to bash:\n%s", body)
	}
	if !strings.Contains(out.String(), "falling back") {
		t.Errorf("missing fallback warning in output: %q", out.String())
	}
}

type tpmCloningRunner struct {
	inner *execx.FakeRunner
	dest  string
}

func (c *tpmCloningRunner) Run(ctx context.Context, command string, args []string, opts execx.RunOptions) (execx.RunResult, error) {
	if command == "git" && len(args) > 0 && args[0] == "clone" {
		if err := os.MkdirAll(c.dest, 0o755); err != nil {
			return execx.RunResult{}, err
		}
	}
	return c.inner.Run(ctx, command, args, opts)
}

func (c *tpmCloningRunner) RunShell(ctx context.Context, script string, opts execx.RunOptions) (execx.RunResult, error) {
	return c.inner.RunShell(ctx, script, opts)
}
