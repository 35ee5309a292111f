package workspace

import (
	"context"
	"fmt"

	"ezrta/internal/deps"
	"ezrta/internal/execx"
)

// StartSession creates a detached three-pane tmux session rooted in dir: one
// pane on the left, two stacked on the right, with focus returned to the
// first pane. When a session with the requested name already exists, the
// decision callback is asked whether to create the session under the first
// free numeric suffix instead; declining aborts without touching tmux state.
func (p *Provisioner) StartSession(ctx context.Context, name, dir string, renameInstead deps.Decision) (string, error) {
	final, err := p.resolveSessionName(ctx, name, renameInstead)
	if err != nil {
		return "", err
	}

	steps := [][]string{
		{"new-session", "-d", "-s", final, "-c", dir},
		{"split-window", "-h", "-t", final, "-c", dir},
		{"split-window", "-v", "-t", final, "-c", dir},
		{"select-pane", "-t", final + ":0.0"},
	}
	for _, args := range steps {
		if _, err := p.Runner.Run(ctx, "tmux", args, execx.RunOptions{}); err != nil {
			return "", fmt.Errorf("tmux %s: %w", args[0], err)
		}
	}

	p.printf("[+] Tmux session %q started in %s\n", final, dir)
	p.printf("[*] Attach with: tmux attach -t %s\n", final)
	return final, nil
}

func (p *Provisioner) resolveSessionName(ctx context.Context, name string, renameInstead deps.Decision) (string, error) {
	if !p.sessionExists(ctx, name) {
		return name, nil
	}

	candidate := name
	for n := 2; p.sessionExists(ctx, candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}

	prompt := fmt.Sprintf("Tmux session %q already exists. Create session as %q instead?", name, candidate)
	if !renameInstead.Ask(prompt) {
		return "", deps.ErrAborted
	}
	return candidate, nil
}

func (p *Provisioner) sessionExists(ctx context.Context, name string) bool {
	_, err := p.Runner.Run(ctx, "tmux", []string{"has-session", "-t", name}, execx.RunOptions{})
	return err == nil
}
