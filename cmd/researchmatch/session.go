package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/researchmatch/internal/config"
	"github.com/kingrea/researchmatch/internal/session"
)

func (c *cli) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the stored login session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.New(c.cfg.SessionPath())
			if err := store.Restore(); err != nil {
				c.logger.Warn("stored session discarded", zap.Error(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Environment: %s\n", c.cfg.Environment())
			if !store.Authenticated() {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			who := store.Subject()
			if who == "" {
				who = "unknown account"
			}
			fmt.Fprintf(out, "Logged in as %s\n", who)
			if exp, ok := store.ExpiresAt(); ok {
				fmt.Fprintf(out, "Token expires %s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Second))
			}
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.New(c.cfg.SessionPath())
			if err := store.Logout(); err != nil {
				return err
			}
			c.logger.Debug("session removed", zap.String("path", store.Path()))
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) envCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "env [development|production]",
		Short:     "Show or switch the API environment",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{config.EnvironmentDevelopment, config.EnvironmentProduction},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, c.cfg.Environment())
				return nil
			}
			if err := c.cfg.SetEnvironment(args[0]); err != nil {
				return err
			}
			c.logger.Info("environment changed", zap.String("environment", args[0]))
			fmt.Fprintf(out, "Environment set to %s\n", c.cfg.Environment())
			return nil
		},
	}
}
