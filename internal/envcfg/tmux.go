package envcfg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"ezrta/internal/artifact"
	"ezrta/internal/config"
	"ezrta/internal/execx"
	"ezrta/internal/paths"
)

const tpmRepoURL = "https://github.com/tmux-plugins/tpm"

// tmuxConfTemplate is written wholesale on every run; the config file is
// fully regenerated, never merged.
const tmuxConfTemplate = `# Default Shell
set-option -g default-shell {shell}

# increase history size (Be careful making this too large)
set -g history-limit 30000

# List of plugins
# to enable a plugin, use the 'set -g @plugin' syntax:
set -g @plugin 'tmux-plugins/tpm'
set -g @plugin 'tmux-plugins/tmux-sensible'
set -g @plugin 'tmux-plugins/tmux-logging'

# Set logging path
set -g @logging-path "{logdir}"

# Shift arrow to shift windows
bind -n S-Left previous-window
bind -n S-Right next-window

# set window title list colors
set-window-option -g window-status-style fg=brightblue,bg=colour237,dim

# active window title colors
set-window-option -g window-status-current-style fg=brightgreen,bg=colour237,bright

# show host name and IP address on right side of status bar
set -g status-right-length 70
set -g status-bg colour237
set -g status-fg white
set -g status-right "#[fg=white]Host: #[fg=green]#h#[fg=white] LAN: #[fg=green]#(ip addr show dev eth0 | grep "inet[^6]" | awk '{print $2}')#[fg=white] VPN: #[fg=green]#(ip addr show dev tun0 | grep "inet[^6]" | awk '{print $2}')"

# scroll with mouse
setw -g mouse on
set -g terminal-overrides 'xterm*:smcup@:rmcup@'

# Initialize TMUX plugin manager
run '~/.tmux/plugins/tpm/tpm'
`

// TmuxConfigurator writes the multiplexer configuration and installs the
// plugin manager. Both actions are idempotent.
type TmuxConfigurator struct {
	Runner   execx.Runner
	Log      execx.StatusLogger
	Out      io.Writer
	Paths    paths.HostPaths
	Shell    config.ShellConfig
	LookPath func(string) (string, error)
}

// Setup requires tmux, creates the logging directory, regenerates the
// configuration file with the detected default shell, and clones the plugin
// manager only when absent.
func (t *TmuxConfigurator) Setup(ctx context.Context) error {
	if _, err := t.Runner.RunShell(ctx, "tmux -V", execx.RunOptions{}); err != nil {
		return fmt.Errorf("tmux is not installed; install it with: apt-get install -y tmux")
	}

	if err := os.MkdirAll(t.Paths.TmuxLogsDir, 0o755); err != nil {
		return fmt.Errorf("create tmux logs dir: %w", err)
	}

	shell := t.detectShell()
	conf := strings.NewReplacer(
		"{shell}", shell,
		"{logdir}", t.Paths.TmuxLogsDir,
	).Replace(tmuxConfTemplate)

	if err := os.WriteFile(t.Paths.TmuxConf, []byte(conf), 0o644); err != nil {
		return fmt.Errorf("write tmux config: %w", err)
	}
	t.printf("[+] Tmux configuration saved at %s\n", t.Paths.TmuxConf)
	t.printf("[*] Tmux logs will be saved to %s\n", t.Paths.TmuxLogsDir)

	cloned, err := artifact.CloneIfAbsent(ctx, t.Runner, tpmRepoURL, t.Paths.TPMDir)
	if err != nil {
		return fmt.Errorf("install tmux plugin manager: %w", err)
	}
	if cloned {
		t.printf("[+] Tmux Plugin Manager installed successfully\n")
	} else {
		t.printf("[+] Tmux Plugin Manager is already installed\n")
	}

	t.printf("[*] To activate the new tmux configuration:\n")
	t.printf("[*]   1. Create a new tmux session: tmux new -s <mysession>\n")
	t.printf("[*]   2. Inside tmux, press CTRL+B then SHIFT+I to install plugins\n")
	t.printf("[*]   3. Logging usage: https://github.com/tmux-plugins/tmux-logging\n")
	return nil
}

// detectShell prefers the configured shell when present on PATH and falls
// back with a warning otherwise.
func (t *TmuxConfigurator) detectShell() string {
	lookPath := t.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if path, err := lookPath(t.Shell.Preferred); err == nil {
		return path
	}
	t.printf("[!] %s not found, falling back to %s\n", t.Shell.Preferred, t.Shell.Fallback)
	return t.Shell.Fallback
}

func (t *TmuxConfigurator) printf(format string, v ...any) {
	if t.Out != nil {
		fmt.Fprintf(t.Out, format, v...)
	}
	if t.Log != nil {
		t.Log.Printf(strings.TrimSuffix(format, "\n"), v...)
	}
}
