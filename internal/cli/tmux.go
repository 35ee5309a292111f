package cli

import (
	"io"

	"github.com/spf13/cobra"

	"ezrta/internal/envcfg"
)

func newTmuxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmux",
		Short: "Manage the tmux environment",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: "Write the tmux configuration and install the plugin manager",
		RunE:  runTmuxSetup,
	})
	return cmd
}

func runTmuxSetup(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.tmuxConfigurator(cmd.OutOrStdout()).Setup(cmd.Context())
}

func (a *app) tmuxConfigurator(out io.Writer) *envcfg.TmuxConfigurator {
	return &envcfg.TmuxConfigurator{
		Runner: a.runner,
		Log:    a.log,
		Out:    out,
		Paths:  a.paths,
		Shell:  a.cfg.Shell,
	}
}
