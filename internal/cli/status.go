package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ezrta/internal/artifact"
	"ezrta/internal/paths"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the provisioning state of this host",
		RunE:  runStatus,
	}
}

type hostCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var checks []hostCheck
	add := func(name string, ok bool, detail string) {
		checks = append(checks, hostCheck{Name: name, OK: ok, Detail: detail})
	}

	toolsDirOK, err := paths.DirExists(a.paths.ToolsDir)
	if err != nil {
		return err
	}
	add("tools directory", toolsDirOK, a.paths.ToolsDir)

	for _, def := range toolDefinitions(a.cfg) {
		binPath := filepath.Join(a.paths.ToolDir(def.Name), def.Executable)
		ok, err := paths.FileExists(binPath)
		if err != nil {
			return err
		}
		add(def.Name, ok, binPath)
	}
	for _, def := range artifact.RepoDefinitions() {
		dir := a.paths.ToolDir(def.Name)
		ok, err := paths.DirExists(dir)
		if err != nil {
			return err
		}
		add(def.Name, ok, dir)
	}

	tmuxConfOK, err := paths.FileExists(a.paths.TmuxConf)
	if err != nil {
		return err
	}
	add("tmux configuration", tmuxConfOK, a.paths.TmuxConf)

	tpmOK, err := paths.DirExists(a.paths.TPMDir)
	if err != nil {
		return err
	}
	add("tmux plugin manager", tpmOK, a.paths.TPMDir)

	configOK, err := paths.FileExists(a.paths.ConfigFile)
	if err != nil {
		return err
	}
	detail := a.paths.ConfigFile
	if !configOK {
		detail += " (using defaults)"
	}
	add("config file", configOK, detail)

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(checks)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tOK\tDETAIL")
	for _, check := range checks {
		mark := "yes"
		if !check.OK {
			mark = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", check.Name, mark, check.Detail)
	}
	return tw.Flush()
}
