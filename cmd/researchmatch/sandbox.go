package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/researchmatch/internal/sandbox"
)

func (c *cli) sandboxCmd() *cobra.Command {
	var (
		addr     string
		seed     int64
		profiles int
	)
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local stand-in for the matching API",
		Long: `Runs an in-memory implementation of the matching API seeded with
generated researchers. Point the client at it with the development
environment (the default).

A demo account is always available: ` + sandbox.DemoEmail + ` / ` + sandbox.DemoPassword,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := sandbox.SettingsFromConfig(c.cfg)
			if cmd.Flags().Changed("addr") {
				settings.SetAddress(addr)
			}
			if cmd.Flags().Changed("profiles") {
				settings.SeedProfiles = profiles
			}
			settings.Seed = seed
			return c.runSandbox(cmd, settings)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address host:port (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for generated profiles (0 picks a random seed)")
	cmd.Flags().IntVar(&profiles, "profiles", 0, "Number of generated profiles (default from config)")
	return cmd
}

func (c *cli) runSandbox(cmd *cobra.Command, settings sandbox.Settings) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := sandbox.NewServer(settings, sandbox.WithLogger(c.logger))
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	c.logger.Info("sandbox ready",
		zap.String("url", srv.BaseURL()),
		zap.Int("profiles", len(srv.Store().Profiles())),
		zap.String("demo_account", sandbox.DemoEmail))
	fmt.Fprintf(cmd.OutOrStdout(), "Sandbox API listening on %s (ctrl+c to stop)\n", srv.BaseURL())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sandbox shutdown: %w", err)
	}
	c.logger.Info("sandbox stopped")
	return nil
}
