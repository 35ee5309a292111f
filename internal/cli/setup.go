package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ezrta/internal/artifact"
	"ezrta/internal/deps"
	"ezrta/internal/envcfg"
	"ezrta/internal/paths"
	"ezrta/internal/tui"
	"ezrta/internal/workspace"
)

var errRequiresRoot = errors.New("ezrta must be run as root")

const bannerArt = `  ______  ______       _____  _______
 |  ____||___  /      |  __ \|__   __| /\
 | |__      / /______ | |__) |  | |   /  \
 |  __|    / /|______||  _  /   | |  / /\ \
 | |____  / /__       | | \ \   | | / ____ \
 |______|/_____|      |_|  \_\  |_|/_/    \_\`

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run the full engagement setup pipeline",
		Long: "Checks and installs host dependencies, then walks through tool\n" +
			"installation, tmux configuration, and engagement directory creation.\n" +
			"Each step past the dependency stage can be skipped from a menu.",
		RunE: runSetup,
	}
}

type setupStep struct {
	name string
	run  func(context.Context) error
}

func runSetup(cmd *cobra.Command, _ []string) error {
	if os.Geteuid() != 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "[-] Please run ezrta as root.")
		return errRequiresRoot
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	start := time.Now()
	printBanner(out, start)

	resolver := &deps.Resolver{
		Runner:    a.runner,
		Log:       a.log,
		Out:       out,
		Decisions: a.decisions(),
		Catalog:   deps.DefaultCatalog(),
	}
	if err := resolver.UpdateSystem(ctx); err != nil {
		return err
	}
	if err := resolver.CheckRuntimeVersion(ctx); err != nil {
		return err
	}
	report, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if report.InstalledNow(deps.PipxDependency) {
		a.registerPipx(out)
	}

	steps := []setupStep{
		{name: fmt.Sprintf("Create tools directory at %s", a.paths.ToolsDir), run: func(context.Context) error {
			return a.ensureToolsDir(out)
		}},
		{name: "Install Pretender", run: func(ctx context.Context) error {
			return a.installReleaseTools(ctx, out, toolDefinitions(a.cfg))
		}},
		{name: "Download DC enumeration script", run: func(ctx context.Context) error {
			return a.installRepoTools(ctx, out, artifact.RepoDefinitions())
		}},
		{name: "Configure tmux environment", run: func(ctx context.Context) error {
			return a.tmuxConfigurator(out).Setup(ctx)
		}},
		{name: "Create engagement directory and session", run: func(ctx context.Context) error {
			return a.setupEngagement(ctx, out)
		}},
	}

	skipped := map[int]bool{}
	if !a.yes() {
		fmt.Fprintln(out, "\nAvailable options:")
		for i, step := range steps {
			fmt.Fprintf(out, "[%d] %s\n", i+1, step.name)
		}
		answer := a.prompter.line("\nEnter the numbers of the options you want to skip, separated by spaces (or press Enter to run all)")
		skipped = parseSkipSelection(answer, len(steps))
	}

	var failures []string
	for i, step := range steps {
		if skipped[i+1] {
			fmt.Fprintf(out, "[*] Skipping: %s\n", step.name)
			continue
		}
		if err := step.run(ctx); err != nil {
			if errors.Is(err, deps.ErrAborted) {
				return err
			}
			// Partial failure: record it and keep provisioning.
			failures = append(failures, fmt.Sprintf("%s: %v", step.name, err))
			fmt.Fprintf(out, "[-] %s failed: %v\n", step.name, err)
			a.log.Printf("step failed: %s: %v", step.name, err)
		}
	}

	if names := report.Missing(); len(names) > 0 {
		fmt.Fprintf(out, "[!] Dependencies still missing: %v\n", names)
	}
	for _, f := range failures {
		fmt.Fprintf(out, "[!] Incomplete: %s\n", f)
	}
	fmt.Fprintf(out, "\n[+] Setup complete in %s.\n", time.Since(start).Round(time.Second))
	return nil
}

func printBanner(out io.Writer, now time.Time) {
	fmt.Fprintf(out, "Current Time: %s\n\n", now.Format("Monday, January 02, 2006 at 15:04:05"))
	fmt.Fprintln(out, tui.BannerStyle.Render(bannerArt))
	fmt.Fprintln(out, "\n[ Engagement Setup Automation Tool ]")
}

// ensureToolsDir creates the tools directory. When the primary path already
// exists the operator may redirect this run to an alternate directory; the
// choice is never persisted.
func (a *app) ensureToolsDir(out io.Writer) error {
	exists, err := paths.DirExists(a.paths.ToolsDir)
	if err != nil {
		return err
	}
	if exists && !a.yes() {
		prompt := fmt.Sprintf("%s already exists. Enter an alternate tools directory, or press Enter to keep it", a.paths.ToolsDir)
		if alt := a.prompter.line(prompt); alt != "" {
			abs, absErr := filepath.Abs(alt)
			if absErr != nil {
				return fmt.Errorf("resolve alternate tools dir: %w", absErr)
			}
			a.paths.ToolsDir = abs
		}
	}
	if err := a.paths.EnsureToolsDir(); err != nil {
		return err
	}
	fmt.Fprintf(out, "[+] Tools directory ensured at %s\n", a.paths.ToolsDir)
	return nil
}

// registerPipx wires a freshly installed pipx into the shell profiles and
// the current process PATH so later steps can invoke it.
func (a *app) registerPipx(out io.Writer) {
	reg := envcfg.NewRegistrar(os.Environ(), a.paths)
	reg.Log = a.log
	if err := reg.RegisterPipx(a.paths.Home); err != nil {
		fmt.Fprintf(out, "[!] pipx PATH registration failed: %v\n", err)
		return
	}
	userBin := filepath.Join(a.paths.Home, ".local", "bin")
	_ = os.Setenv("PATH", os.Getenv("PATH")+":"+userBin)
	fmt.Fprintf(out, "[+] pipx registered on PATH (%s)\n", userBin)
}

func (a *app) setupEngagement(ctx context.Context, out io.Writer) error {
	if a.yes() {
		fmt.Fprintln(out, "[*] Skipping engagement setup (requires interactive input)")
		return nil
	}

	component := a.prompter.line("Enter Component Name (e.g., TIPT, CIPT, CPPT), or press Enter to skip")
	if component == "" {
		fmt.Fprintln(out, "[*] Skipping engagement setup")
		return nil
	}
	desc := workspace.Descriptor{
		Component: component,
		Quarter:   a.prompter.line("Enter Quarter (e.g., Q1, Q2, Q3, Q4)"),
		Initials:  a.prompter.line("Enter Initials (e.g., MB)"),
		Year:      workspace.CurrentYear(),
	}

	prov := a.provisioner(out)
	dir, err := prov.CreateDirs(desc)
	if err != nil {
		return err
	}
	_, err = prov.StartSession(ctx, desc.DirName(), dir, a.prompter.confirm)
	if errors.Is(err, deps.ErrAborted) {
		// Declining the rename skips the session only; the directory stands.
		fmt.Fprintln(out, "[*] Session creation skipped")
		return nil
	}
	return err
}
