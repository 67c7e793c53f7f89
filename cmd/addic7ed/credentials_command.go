package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/credentials"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/secrets"

	"github.com/spf13/cobra"
)

func newCredentialsCommand(ctx *commandContext) *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the Addic7ed login used by the scraping strategy",
	}

	credentialsCmd.AddCommand(newCredentialsSetCommand(ctx))
	credentialsCmd.AddCommand(newCredentialsShowCommand(ctx))

	return credentialsCmd
}

func credentialsManager(cmd *cobra.Command, ctx *commandContext) (*credentials.Manager, error) {
	store, err := ctx.configStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	cipher, err := ctx.cipher()
	if err != nil {
		return nil, err
	}
	return credentials.Register(store, cipher), nil
}

func newCredentialsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Addic7ed username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}
			if !passwordStdin {
				return errors.New("pass the password on stdin with --password-stdin")
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}

			manager, err := credentialsManager(cmd, ctx)
			if err != nil {
				return err
			}
			defer manager.Close()

			if err := manager.Save(cmd.Context(), models.ProviderOptions{Username: username, PasswordHash: password}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored credentials for %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Addic7ed username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newCredentialsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored username and whether the password is encrypted",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := credentialsManager(cmd, ctx)
			if err != nil {
				return err
			}
			defer manager.Close()

			opts, err := manager.Options(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.Username == "" {
				fmt.Fprintln(out, "No credentials stored")
				return nil
			}

			state := "plaintext"
			if secrets.IsEncrypted(opts.PasswordHash) {
				state = "encrypted"
			}
			fmt.Fprintln(out, renderTable([]string{"Username", "Password"}, [][]string{{opts.Username, state}}, nil))
			return nil
		},
	}
}
