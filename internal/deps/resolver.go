package deps

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ezrta/internal/execx"
)

// State tracks one dependency through a resolver run. Lifetime is a single
// Resolve call; nothing is persisted.
type State struct {
	Installed            bool `json:"installed"`
	AttemptedInstall     bool `json:"attempted_install"`
	PostInstallInstalled bool `json:"post_install_installed"`
}

// Report maps dependency name to its resolved state.
type Report map[string]State

// Missing returns the names still absent after the resolver finished.
func (r Report) Missing() []string {
	var names []string
	for name, st := range r {
		if !st.Installed && !st.PostInstallInstalled {
			names = append(names, name)
		}
	}
	return names
}

// InstalledNow reports whether a dependency was absent before the run and
// present after bulk installation.
func (r Report) InstalledNow(name string) bool {
	st, ok := r[name]
	return ok && st.AttemptedInstall && st.PostInstallInstalled
}

// ProgressReporter receives per-dependency status transitions.
type ProgressReporter interface {
	StatusChanged(name, status string)
}

// Resolver drives the check, prompt, install, reverify cycle over the
// catalog.
type Resolver struct {
	Runner    execx.Runner
	Log       execx.StatusLogger
	Out       io.Writer
	Decisions Decisions
	Catalog   []Descriptor
	Reporter  ProgressReporter
}

// Resolve probes every catalog entry, offers one bulk installation of the
// missing set, re-probes, and surfaces anything still missing through a
// single operator decision. Dependencies already present are never
// installed.
func (r *Resolver) Resolve(ctx context.Context) (Report, error) {
	report := Report{}
	var missing []Descriptor

	for _, dep := range r.Catalog {
		r.status(dep.Name, "checking")
		if r.probe(ctx, dep) {
			report[dep.Name] = State{Installed: true, PostInstallInstalled: true}
			r.status(dep.Name, "installed")
			r.printf("[+] %s is installed\n", dep.Name)
			continue
		}
		report[dep.Name] = State{}
		missing = append(missing, dep)
		r.status(dep.Name, "missing")
		r.printf("[-] %s is not installed\n", dep.Name)
	}

	if len(missing) == 0 {
		return report, nil
	}

	names := descriptorNames(missing)
	r.printf("[!] The following dependencies are missing: %s\n", strings.Join(names, ", "))

	if !r.Decisions.InstallMissing.Ask(fmt.Sprintf("Attempt automatic installation of %s?", strings.Join(names, ", "))) {
		if !r.Decisions.ContinueWithoutInstall.Ask("Continue without installing dependencies?") {
			return report, ErrAborted
		}
		return report, nil
	}

	for _, dep := range missing {
		st := report[dep.Name]
		st.AttemptedInstall = true
		report[dep.Name] = st

		r.status(dep.Name, "installing")
		r.printf("[*] Attempting to install %s...\n", dep.Name)
		if _, err := r.Runner.Run(ctx, "apt-get", dep.InstallArgs, execx.RunOptions{}); err != nil {
			// Surfaced here; the reverify pass decides whether it matters.
			r.printf("[-] Failed to install %s: %v\n", dep.Name, err)
			r.status(dep.Name, "failed")
		}
	}

	var stillMissing []string
	for _, dep := range r.Catalog {
		st := report[dep.Name]
		st.PostInstallInstalled = r.probe(ctx, dep)
		report[dep.Name] = st

		if st.AttemptedInstall {
			if st.PostInstallInstalled {
				r.status(dep.Name, "installed")
				r.printf("[+] Successfully installed %s\n", dep.Name)
			} else {
				r.status(dep.Name, "failed")
				stillMissing = append(stillMissing, dep.Name)
			}
		}
	}

	if len(stillMissing) > 0 {
		prompt := fmt.Sprintf("Still missing after install: %s. Continue anyway?", strings.Join(stillMissing, ", "))
		if !r.Decisions.ContinueStillMissing.Ask(prompt) {
			return report, ErrAborted
		}
	}

	return report, nil
}

func (r *Resolver) probe(ctx context.Context, dep Descriptor) bool {
	_, err := r.Runner.RunShell(ctx, dep.Probe, execx.RunOptions{})
	return err == nil
}

func (r *Resolver) status(name, status string) {
	if r.Reporter != nil {
		r.Reporter.StatusChanged(name, status)
	}
}

func (r *Resolver) printf(format string, v ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, v...)
	}
	if r.Log != nil {
		r.Log.Printf(strings.TrimSuffix(format, "\n"), v...)
	}
}

func descriptorNames(descs []Descriptor) []string {
	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}
	return names
}
