package main

import (
	"fmt"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/models"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		kind     string
		season   int
		episode  int
		year     int
		lang     string
		forced   bool
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Search subtitles for an episode or a movie",
		Example: `  addic7ed search "Example Show" --season 1 --episode 2 --language en
  addic7ed search "Example Movie" --kind movie --year 2020 --language en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.subtitleProvider(cmd.Context())
			if err != nil {
				return err
			}

			req := models.SearchRequest{
				Kind:     models.ParseContentKind(strings.ToLower(kind)),
				Name:     args[0],
				Language: lang,
			}
			flags := cmd.Flags()
			if flags.Changed("season") {
				req.Season = &season
			}
			if flags.Changed("episode") {
				req.Episode = &episode
			}
			if flags.Changed("year") {
				req.Year = &year
			}
			if flags.Changed("forced") {
				req.IsForced = &forced
			}

			results := p.Search(cmd.Context(), req)
			out := cmd.OutOrStdout()
			if jsonMode {
				return writeJSON(out, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No subtitles found")
				return nil
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, r.Language, r.Format, r.ID})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Language", "Format", "Token"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(models.ContentKindEpisode), "Content kind: episode or movie")
	cmd.Flags().IntVarP(&season, "season", "s", 0, "Season number")
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Episode number")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Movie release year")
	cmd.Flags().StringVarP(&lang, "language", "l", "", "Subtitle language")
	cmd.Flags().BoolVar(&forced, "forced", false, "Only forced subtitles (never available on Addic7ed)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output JSON")

	return cmd
}
