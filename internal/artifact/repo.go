package artifact

import (
	"context"
	"fmt"
	"path/filepath"

	"ezrta/internal/execx"
	"ezrta/internal/paths"
)

// EnsureRepo clones a checkout-installed tool into its dedicated directory,
// or pulls the latest changes when the checkout already exists.
func (ins *Installer) EnsureRepo(ctx context.Context, def RepoDefinition) (Status, error) {
	status := Status{Tool: def.Name}
	dest := filepath.Join(ins.ToolsDir, def.Name)

	exists, err := paths.DirExists(dest)
	if err != nil {
		status.Error = err.Error()
		return status, fmt.Errorf("stat %s: %w", dest, err)
	}

	ins.report(def.Name, "cloning")
	if exists {
		status.Notes = append(status.Notes, "checkout exists, pulling latest changes")
		_, err = ins.Runner.Run(ctx, "git", []string{"-C", dest, "pull"}, execx.RunOptions{})
	} else {
		_, err = ins.Runner.Run(ctx, "git", []string{"clone", def.URL, dest}, execx.RunOptions{})
	}
	if err != nil {
		status.Notes = append(status.Notes, err.Error())
	}

	// Like binary installs, success is judged by what is on disk.
	exists, statErr := paths.DirExists(dest)
	if statErr != nil || !exists {
		status.Error = fmt.Sprintf("checkout missing after clone: %v", err)
		ins.report(def.Name, "failed")
		return status, fmt.Errorf("ensure repo %s: %s", def.Name, status.Error)
	}

	status.Path = dest
	status.Installed = true
	ins.report(def.Name, "cloned")
	ins.logf("%s checkout ready at %s", def.Name, dest)
	return status, nil
}

// CloneIfAbsent clones url into dest only when dest does not exist; an
// existing checkout is left untouched.
func CloneIfAbsent(ctx context.Context, runner execx.Runner, url, dest string) (cloned bool, err error) {
	exists, err := paths.DirExists(dest)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", dest, err)
	}
	if exists {
		return false, nil
	}
	if _, err := runner.Run(ctx, "git", []string{"clone", url, dest}, execx.RunOptions{}); err != nil {
		return false, fmt.Errorf("clone %s: %w", url, err)
	}
	return true, nil
}
