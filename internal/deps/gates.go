package deps

import (
	"context"
	"strings"

	"ezrta/internal/execx"
)

const (
	// minPythonVersion gates the host interpreter used by pipx and
	// virtualenv installed tools.
	minPythonVersion = "3.7"

	noUpgradesMarker = "0 upgraded, 0 newly installed"
)

// CheckRuntimeVersion compares the host python3 version against the minimum.
// A missing interpreter or a version below minimum is a warning that
// requires operator confirmation to continue; it never aborts silently.
func (r *Resolver) CheckRuntimeVersion(ctx context.Context) error {
	r.printf("[*] Checking python3 version (minimum required: %s)...\n", minPythonVersion)

	result, err := r.Runner.RunShell(ctx, "python3 --version", execx.RunOptions{})
	version := ""
	if err == nil {
		version = parsePythonVersion(string(result.Stdout), string(result.Stderr))
	}

	if err == nil && meetsMinimum(version, minPythonVersion) {
		r.printf("[+] python3 %s meets requirements\n", version)
		return nil
	}

	if version == "" {
		r.printf("[-] python3 version could not be determined\n")
	} else {
		r.printf("[-] python3 %s is below minimum required version %s\n", version, minPythonVersion)
	}
	if !r.Decisions.ContinueBelowMinimum.Ask("Python version check failed. Continue anyway?") {
		return ErrAborted
	}
	return nil
}

// UpdateSystem refreshes package lists and optionally applies available
// upgrades. Refresh failure requires confirmation to continue (default
// abort); upgrade application is offered, and a failed upgrade re-asks.
func (r *Resolver) UpdateSystem(ctx context.Context) error {
	r.printf("[*] Updating system package lists...\n")
	if _, err := r.Runner.Run(ctx, "apt-get", []string{"update"}, execx.RunOptions{}); err != nil {
		r.printf("[-] Failed to update package lists: %v\n", err)
		if !r.Decisions.ContinueAfterUpdateFailure.Ask("Continue anyway?") {
			return ErrAborted
		}
		return nil
	}

	r.printf("[*] Checking for system upgrades...\n")
	sim, err := r.Runner.Run(ctx, "apt-get", []string{"-s", "upgrade"}, execx.RunOptions{})
	if err != nil || strings.Contains(string(sim.Stdout), noUpgradesMarker) {
		r.printf("[+] System is up to date\n")
		return nil
	}

	if !r.Decisions.ApplyUpgrades.Ask("System updates are available. Would you like to upgrade?") {
		return nil
	}

	if _, err := r.Runner.Run(ctx, "apt-get", []string{"upgrade", "-y"}, execx.RunOptions{}); err != nil {
		r.printf("[-] System upgrade failed: %v\n", err)
		if !r.Decisions.ContinueAfterUpgradeFailure.Ask("Continue anyway?") {
			return ErrAborted
		}
		return nil
	}

	r.printf("[+] System upgrade completed successfully\n")
	return nil
}

// parsePythonVersion extracts the numeric version from `python3 --version`
// output; older interpreters print it on stderr.
func parsePythonVersion(stdout, stderr string) string {
	line := firstLine(strings.TrimSpace(stdout))
	if line == "" {
		line = firstLine(strings.TrimSpace(stderr))
	}
	fields := strings.Fields(line)
	if len(fields) >= 2 {
		return fields[1]
	}
	return ""
}
