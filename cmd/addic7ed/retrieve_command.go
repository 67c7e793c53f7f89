package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRetrieveCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "retrieve TOKEN",
		Short: "Download the subtitle behind a search result token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.subtitleProvider(cmd.Context())
			if err != nil {
				return err
			}

			payload, err := p.Retrieve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if payload == nil {
				return fmt.Errorf("subtitle %q is not available", args[0])
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(payload.Content)
				return err
			}
			if err := os.WriteFile(output, payload.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s subtitle (%d bytes) to %s\n", payload.Language, len(payload.Content), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the subtitle to this file instead of stdout")
	return cmd
}
