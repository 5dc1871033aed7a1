package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// withCLIApp wires the pipeline with notifications printed to stderr and
// runs fn against it.
func withCLIApp(ctx context.Context, env *cliEnv, fn func(a *app) error) error {
	a, err := newApp(ctx, env.cfg, env.logger, stderrNotifier{w: env.stderr})
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func newLoginCmd(env *cliEnv) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				_, _ = fmt.Fprint(env.stderr, "Password: ")
				line, err := bufio.NewReader(env.stdin).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := a.session.Login(cmd.Context(), username, password); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.stdout, "signed in as %s\n", strings.TrimSpace(username))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := a.session.Logout(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(env.stdout, "signed out")
				return nil
			})
		},
	}
}

func newStatusCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a credential is stored and when it was written",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if !a.session.IsAuthenticated() {
					_, _ = fmt.Fprintf(env.stdout, "signed out (api: %s)\n", a.client.BaseURL())
					return nil
				}

				stored, err := a.creds.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("read stored credential: %w", err)
				}
				since := "unknown"
				for _, c := range stored {
					if c.Key == model.CredentialKeyAuth {
						since = c.UpdatedAt.Local().Format(time.DateTime)
					}
				}
				_, _ = fmt.Fprintf(env.stdout, "signed in (api: %s, credential stored %s)\n", a.client.BaseURL(), since)
				return nil
			})
		},
	}
}
