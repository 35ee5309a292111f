package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"ezrta/internal/deps"
	"ezrta/internal/workspace"
)

func newEngagementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engagement",
		Short: "Provision engagement working directories",
	}
	cmd.AddCommand(newEngagementNewCmd())
	return cmd
}

func newEngagementNewCmd() *cobra.Command {
	var (
		component string
		quarter   string
		initials  string
		year      string
		noSession bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an engagement directory and tmux session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			desc := workspace.Descriptor{
				Component: component,
				Quarter:   quarter,
				Initials:  initials,
				Year:      year,
			}
			if !a.yes() {
				if desc.Component == "" {
					desc.Component = a.prompter.line("Enter Component Name (e.g., TIPT, CIPT, CPPT)")
				}
				if desc.Quarter == "" {
					desc.Quarter = a.prompter.line("Enter Quarter (e.g., Q1, Q2, Q3, Q4)")
				}
				if desc.Initials == "" {
					desc.Initials = a.prompter.line("Enter Initials (e.g., MB)")
				}
			}
			if desc.Year == "" {
				desc.Year = workspace.CurrentYear()
			}

			out := cmd.OutOrStdout()
			humanOut := out
			if outputJSON {
				humanOut = io.Discard
			}
			prov := a.provisioner(humanOut)
			dir, err := prov.CreateDirs(desc)
			if err != nil {
				return err
			}

			session := ""
			if !noSession {
				session, err = prov.StartSession(cmd.Context(), desc.DirName(), dir, a.confirm)
				if errors.Is(err, deps.ErrAborted) {
					// Declined rename: keep the directory, skip the session.
					session = ""
				} else if err != nil {
					return err
				}
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					workspace.Descriptor
					Directory string `json:"directory"`
					Session   string `json:"session,omitempty"`
				}{desc, dir, session})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "Component name (e.g., TIPT, CIPT, CPPT)")
	cmd.Flags().StringVar(&quarter, "quarter", "", "Quarter (e.g., Q1)")
	cmd.Flags().StringVar(&initials, "initials", "", "Operator initials")
	cmd.Flags().StringVar(&year, "year", "", "Engagement year (defaults to the current year)")
	cmd.Flags().BoolVar(&noSession, "no-session", false, "Skip creating the tmux session")
	return cmd
}

func (a *app) provisioner(out io.Writer) *workspace.Provisioner {
	return &workspace.Provisioner{
		Runner:  a.runner,
		Log:     a.log,
		Out:     out,
		Root:    a.cfg.Engagement.Root,
		Subdirs: a.cfg.Engagement.Subdirs,
	}
}
