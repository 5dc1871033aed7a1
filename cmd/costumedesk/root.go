package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/costumedesk/internal/config"
)

// cliEnv carries what every command needs once configuration is loaded.
type cliEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "costumedesk",
		Short:         "Administrative client for the costume catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			env.cfg = cfg
			env.stdin, env.stdout, env.stderr = cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
			env.logger = newLogger(cfg, env.stderr)
			slog.SetDefault(env.logger)
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(env),
		newLoginCmd(env),
		newLogoutCmd(env),
		newStatusCmd(env),
		newCostumesCmd(env),
		newDownloadCmd(env),
	)
	return root
}
