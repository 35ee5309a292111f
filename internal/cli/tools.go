package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ezrta/internal/artifact"
	"ezrta/internal/config"
	"ezrta/internal/paths"
	"ezrta/internal/tui"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage assessment tools under the tools directory",
	}
	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsInstallCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show managed tools and their install state",
		RunE:  runToolsList,
	}
}

func newToolsInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [tool...]",
		Short: "Install managed tools (all of them by default)",
		RunE:  runToolsInstall,
	}
}

// toolDefinitions applies config version pins: a pinned tool skips the
// release lookup and downloads the pinned version directly.
func toolDefinitions(cfg config.Config) []artifact.ToolDefinition {
	defs := artifact.Definitions()
	for i := range defs {
		if pin := cfg.PinnedVersion(defs[i].Name); pin != "" {
			defs[i].FallbackVersion = pin
			defs[i].Strategy = artifact.StrategyStatic
		}
	}
	return defs
}

type toolRow struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Version   string `json:"version"`
	Path      string `json:"path"`
	Installed bool   `json:"installed"`
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var rows []toolRow
	for _, def := range toolDefinitions(a.cfg) {
		version := "latest"
		if def.Strategy == artifact.StrategyStatic {
			version = def.FallbackVersion
		}
		binPath := filepath.Join(a.paths.ToolDir(def.Name), def.Executable)
		installed, err := paths.FileExists(binPath)
		if err != nil {
			return err
		}
		rows = append(rows, toolRow{Name: def.Name, Kind: "release", Version: version, Path: binPath, Installed: installed})
	}
	for _, def := range artifact.RepoDefinitions() {
		dir := a.paths.ToolDir(def.Name)
		installed, err := paths.DirExists(dir)
		if err != nil {
			return err
		}
		rows = append(rows, toolRow{Name: def.Name, Kind: "git", Version: "-", Path: dir, Installed: installed})
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVERSION\tINSTALLED\tPATH")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", row.Name, row.Kind, row.Version, row.Installed, row.Path)
	}
	return tw.Flush()
}

func runToolsInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	defs, repos, err := selectTools(a.cfg, args)
	if err != nil {
		return err
	}
	if err := a.paths.EnsureToolsDir(); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if tui.DetectMode(out, noProgress, outputJSON) == tui.ModeTUI {
		return a.installWithProgress(ctx, out, defs, repos)
	}

	humanOut := out
	if outputJSON {
		humanOut = io.Discard
	}

	var statuses []artifact.Status
	ins := a.installer()
	for _, def := range defs {
		status, installErr := ins.Install(ctx, def)
		statuses = append(statuses, status)
		a.printToolStatus(humanOut, status, installErr)
	}
	for _, def := range repos {
		status, repoErr := ins.EnsureRepo(ctx, def)
		statuses = append(statuses, status)
		a.printToolStatus(humanOut, status, repoErr)
	}

	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(statuses); err != nil {
			return err
		}
	}
	return failedInstalls(statuses)
}

// selectTools filters the managed tool set by the requested names; no names
// selects everything.
func selectTools(cfg config.Config, names []string) ([]artifact.ToolDefinition, []artifact.RepoDefinition, error) {
	defs := toolDefinitions(cfg)
	repos := artifact.RepoDefinitions()
	if len(names) == 0 {
		return defs, repos, nil
	}

	var pickedDefs []artifact.ToolDefinition
	var pickedRepos []artifact.RepoDefinition
	for _, name := range names {
		found := false
		for _, def := range defs {
			if def.Name == name {
				pickedDefs = append(pickedDefs, def)
				found = true
			}
		}
		for _, def := range repos {
			if def.Name == name {
				pickedRepos = append(pickedRepos, def)
				found = true
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("unknown tool %q", name)
		}
	}
	return pickedDefs, pickedRepos, nil
}

func (a *app) installWithProgress(ctx context.Context, out io.Writer, defs []artifact.ToolDefinition, repos []artifact.RepoDefinition) error {
	model := tui.NewProgressModel("Installing tools", []tui.Column{
		{Header: "TOOL", Width: 14},
		{Header: "STATUS", Width: 12},
	})
	for _, def := range defs {
		model.AddRow(def.Name, []string{def.Name, "pending"})
	}
	for _, def := range repos {
		model.AddRow(def.Name, []string{def.Name, "pending"})
	}

	var statuses []artifact.Status
	err := tui.RunWithWork(out, model, func(send func(tea.Msg)) {
		ins := a.installer()
		ins.Reporter = tui.NewReporter(send)
		for _, def := range defs {
			status, _ := ins.Install(ctx, def)
			statuses = append(statuses, status)
		}
		for _, def := range repos {
			status, _ := ins.EnsureRepo(ctx, def)
			statuses = append(statuses, status)
		}
	})
	if err != nil {
		return err
	}

	for _, status := range statuses {
		a.printToolStatus(out, status, nil)
	}
	return failedInstalls(statuses)
}

func (a *app) installer() *artifact.Installer {
	return &artifact.Installer{
		ToolsDir: a.paths.ToolsDir,
		Runner:   a.runner,
		Log:      a.log,
	}
}

func (a *app) printToolStatus(out io.Writer, status artifact.Status, err error) {
	for _, note := range status.Notes {
		fmt.Fprintf(out, "[!] %s: %s\n", status.Tool, note)
	}
	switch {
	case status.Installed && status.Version != "":
		fmt.Fprintf(out, "[+] %s %s installed at %s\n", status.Tool, status.Version, status.Path)
	case status.Installed:
		fmt.Fprintf(out, "[+] %s ready at %s\n", status.Tool, status.Path)
	case err != nil:
		fmt.Fprintf(out, "[-] %s: %v\n", status.Tool, err)
	default:
		fmt.Fprintf(out, "[-] %s: %s\n", status.Tool, status.Error)
	}
}

func failedInstalls(statuses []artifact.Status) error {
	var errs []error
	for _, status := range statuses {
		if !status.Installed {
			errs = append(errs, fmt.Errorf("install %s: %s", status.Tool, status.Error))
		}
	}
	return errors.Join(errs...)
}

// installReleaseTools is the plain-output install path used by setup.
func (a *app) installReleaseTools(ctx context.Context, out io.Writer, defs []artifact.ToolDefinition) error {
	ins := a.installer()
	var statuses []artifact.Status
	for _, def := range defs {
		fmt.Fprintf(out, "[*] Installing %s...\n", def.Name)
		status, err := ins.Install(ctx, def)
		statuses = append(statuses, status)
		a.printToolStatus(out, status, err)
	}
	return failedInstalls(statuses)
}

func (a *app) installRepoTools(ctx context.Context, out io.Writer, repos []artifact.RepoDefinition) error {
	ins := a.installer()
	var statuses []artifact.Status
	for _, def := range repos {
		fmt.Fprintf(out, "[*] Downloading %s...\n", def.Name)
		status, err := ins.EnsureRepo(ctx, def)
		statuses = append(statuses, status)
		a.printToolStatus(out, status, err)
	}
	return failedInstalls(statuses)
}
