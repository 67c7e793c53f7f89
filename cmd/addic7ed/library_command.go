package main

import (
	"errors"
	"fmt"

	"github.com/Belphemur/Addic7edSubtitles/internal/library"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"

	"github.com/spf13/cobra"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the local series catalog used to resolve TVDB ids",
	}

	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))

	return libraryCmd
}

func sqliteCatalog(cmd *cobra.Command, ctx *commandContext) (*library.SQLiteCatalog, error) {
	db, err := ctx.database()
	if err != nil {
		return nil, err
	}
	return library.NewSQLiteCatalog(cmd.Context(), db)
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var ids models.ProviderIDs

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or update a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ids.TVDB == "" && ids.IMDB == "" {
				return errors.New("at least one of --tvdb or --imdb is required")
			}
			catalog, err := sqliteCatalog(cmd, ctx)
			if err != nil {
				return err
			}
			if err := catalog.Upsert(cmd.Context(), args[0], ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&ids.TVDB, "tvdb", "", "TVDB series id")
	cmd.Flags().StringVar(&ids.IMDB, "imdb", "", "IMDb id")
	return cmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the series of the local catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := sqliteCatalog(cmd, ctx)
			if err != nil {
				return err
			}
			series, err := catalog.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(series) == 0 {
				fmt.Fprintln(out, "Library is empty")
				return nil
			}
			rows := make([][]string, 0, len(series))
			for _, s := range series {
				rows = append(rows, []string{s.Name, s.IDs.TVDB, s.IDs.IMDB})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "TVDB", "IMDb"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}
