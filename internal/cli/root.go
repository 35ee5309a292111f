package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ezrta/internal/config"
	"ezrta/internal/deps"
	"ezrta/internal/execx"
	"ezrta/internal/logx"
	"ezrta/internal/paths"
)

var (
	toolsDirFlag string
	outputJSON   bool
	assumeYes    bool
	noProgress   bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ezrta",
		Short: "Engagement setup automation for red team assessment hosts",
	}

	cmd.PersistentFlags().StringVar(&toolsDirFlag, "tools-dir", "", "Path to the managed tools directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation prompt")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress rendering")

	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newDepsCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newTmuxCmd())
	cmd.AddCommand(newEngagementCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// app bundles the resolved host state shared by every subcommand: paths,
// configuration, the run log, and the command runner.
type app struct {
	paths     paths.HostPaths
	cfg       config.Config
	log       *log.Logger
	logCloser io.Closer
	runner    execx.Runner
	prompter  *prompter
}

func newApp(cmd *cobra.Command) (*app, error) {
	p, err := paths.Resolve(toolsDirFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.ConfigFile)
	if err != nil {
		return nil, err
	}
	// Config-level tools_dir sits below the flag and the environment
	// variable in precedence.
	if toolsDirFlag == "" && os.Getenv("EZRTA_TOOLS_DIR") == "" && cfg.ToolsDir != "" {
		if abs, absErr := filepath.Abs(cfg.ToolsDir); absErr == nil {
			p.ToolsDir = abs
		}
	}

	if err := p.EnsureMetaDirs(); err != nil {
		return nil, err
	}
	logger, closer, err := logx.New(p)
	if err != nil {
		return nil, err
	}

	return &app{
		paths:     p,
		cfg:       cfg,
		log:       logger,
		logCloser: closer,
		runner:    &execx.CmdRunner{Log: logger},
		prompter:  newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
	}, nil
}

func (a *app) Close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// yes reports whether confirmations are suppressed for this run.
func (a *app) yes() bool {
	return assumeYes || a.cfg.AssumeYes
}

func (a *app) decisions() deps.Decisions {
	if a.yes() {
		return deps.AlwaysYes()
	}
	return a.prompter.decisions()
}

// confirm answers a single yes/no question, honouring --yes.
func (a *app) confirm(prompt string) bool {
	if a.yes() {
		return true
	}
	return a.prompter.confirm(prompt)
}
