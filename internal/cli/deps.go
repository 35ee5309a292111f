package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ezrta/internal/deps"
	"ezrta/internal/execx"
	"ezrta/internal/tui"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check and install host dependencies",
	}
	cmd.AddCommand(newDepsCheckCmd())
	cmd.AddCommand(newDepsInstallCmd())
	return cmd
}

func newDepsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe for required dependencies without installing anything",
		RunE:  runDepsCheck,
	}
}

func newDepsInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install missing dependencies after confirmation",
		RunE:  runDepsInstall,
	}
}

type depRow struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Installed bool   `json:"installed"`
}

func runDepsCheck(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var spinner *tui.StatusWriter
	if !outputJSON && !noProgress {
		spinner = tui.NewStatusWriter(cmd.ErrOrStderr())
	}

	var rows []depRow
	for _, dep := range deps.DefaultCatalog() {
		if spinner != nil {
			spinner.Update("probing " + dep.Name)
		}
		_, probeErr := a.runner.RunShell(ctx, dep.Probe, execx.RunOptions{})
		rows = append(rows, depRow{
			Name:      dep.Name,
			Category:  string(dep.Category),
			Installed: probeErr == nil,
		})
	}
	if spinner != nil {
		spinner.Stop()
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tINSTALLED")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", row.Name, row.Category, row.Installed)
	}
	return tw.Flush()
}

func runDepsInstall(cmd *cobra.Command, _ []string) error {
	if os.Geteuid() != 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "[-] Installing dependencies requires root.")
		return errRequiresRoot
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
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

	if names := report.Missing(); len(names) > 0 {
		fmt.Fprintf(out, "[!] Still missing: %v\n", names)
	}
	return nil
}
