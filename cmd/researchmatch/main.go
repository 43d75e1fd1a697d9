// cmd/researchmatch/main.go
//
// This is the entry point for the ResearchMatch terminal client.
//
// Flow:
// 1. Load ~/.researchmatch/config.yaml (created on first run) and .env
// 2. With no subcommand, launch the TUI in the alternate screen
// 3. Subcommands run the local sandbox API or inspect the stored session

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/researchmatch/internal/config"
	"github.com/kingrea/researchmatch/internal/tui"
)

// cli carries the state shared by every subcommand.
type cli struct {
	verbose bool
	home    string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "researchmatch",
		Short: "ResearchMatch - find researchers who seek or share what you need",
		Long: `ResearchMatch connects researchers who are seeking resources with
researchers who are sharing them.

Run without arguments to start the terminal client. Use "researchmatch sandbox"
to run a local stand-in for the matching API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			home := c.home
			if home == "" {
				resolved, err := config.ResolveHome()
				if err != nil {
					return err
				}
				home = resolved
			}
			cfg, err := config.LoadFrom(home)
			if err != nil {
				return err
			}
			c.cfg = cfg

			// The TUI owns the terminal; it logs to its logbook instead.
			if cmd == cmd.Root() {
				c.logger = zap.NewNop()
				return nil
			}
			zc := zap.NewProductionConfig()
			zc.Encoding = "console"
			zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if c.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&c.home, "home", "", "Configuration directory (default: $RESEARCHMATCH_HOME or ~/.researchmatch)")

	root.AddCommand(c.sandboxCmd())
	root.AddCommand(c.sessionCmd())
	root.AddCommand(c.logoutCmd())
	root.AddCommand(c.envCmd())
	return root
}

func (c *cli) runTUI() error {
	app, err := tui.NewApp(c.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// tea.NewProgram drives the App through Init/Update/View until quit.
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
