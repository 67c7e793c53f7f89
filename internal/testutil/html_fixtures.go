package testutil

import (
	"fmt"
	"strings"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// BoolPtr is a helper for creating *bool values in tests
func BoolPtr(v bool) *bool {
	return &v
}

// ShowRowOptions contains options for generating a show listing entry
type ShowRowOptions struct {
	ShowID   string
	ShowName string
}

// SeasonRowOptions contains options for generating a season table row
type SeasonRowOptions struct {
	Season          int
	Episode         int
	Title           string
	Language        string // "English", "French", etc.
	Version         string
	Status          string // Defaults to "Completed"
	HearingImpaired bool
	Corrected       bool
	HD              bool
	DownloadURI     string
	Multi           bool
	// Truncated drops every cell after the language column
	Truncated bool
}

// MovieRowOptions contains options for generating a movie search result
type MovieRowOptions struct {
	MovieID string
	Title   string // "Name (Year)"
}

// MovieVersionOptions contains options for generating one subtitle block of a movie page
type MovieVersionOptions struct {
	Version     string
	Language    string
	DownloadURI string
}

// GenerateShowListHTML generates the shows.php listing page
func GenerateShowListHTML(shows []ShowRowOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<head><meta charset="utf-8"><title>Addic7ed.com - TV Shows</title></head>
<body>
<table class="tabel90">
	<tr>
`)
	for i, show := range shows {
		fmt.Fprintf(&sb, `		<td class="version">
			<h3><a href="/show/%s">%s</a></h3>
		</td>
`, show.ShowID, show.ShowName)
		if i%3 == 2 {
			sb.WriteString("\t</tr>\n\t<tr>\n")
		}
	}
	sb.WriteString(`	</tr>
</table>
</body>
</html>`)

	return sb.String()
}

// GenerateSeasonHTML generates the ajax_loadShow.php season table
func GenerateSeasonHTML(rows []SeasonRowOptions) string {
	var sb strings.Builder

	sb.WriteString(`<div id="season">
<table class="tabel95" id="sortable">
	<thead>
		<tr>
			<th>Season</th><th>Episode</th><th>Title</th><th>Language</th><th>Version</th>
			<th>Completed</th><th>HI</th><th>Corrected</th><th>HD</th><th>Download</th><th>Multi</th>
		</tr>
	</thead>
	<tbody>
`)
	for _, row := range rows {
		if row.Language == "" {
			row.Language = "English"
		}
		if row.Status == "" {
			row.Status = "Completed"
		}
		if row.DownloadURI == "" {
			row.DownloadURI = fmt.Sprintf("/original/%d/%d", row.Season*100+row.Episode, 0)
		}

		fmt.Fprintf(&sb, `		<tr class="epeven completed">
			<td>%d</td>
			<td>%d</td>
			<td class="c"><a href="/serie/Show/%d/%d/episode">%s</a></td>
			<td>%s</td>
`, row.Season, row.Episode, row.Season, row.Episode, row.Title, row.Language)

		if row.Truncated {
			sb.WriteString("\t\t</tr>\n")
			continue
		}

		fmt.Fprintf(&sb, `			<td class="c">%s</td>
			<td class="c">%s</td>
			<td class="c">%s</td>
			<td class="c">%s</td>
			<td class="c">%s</td>
			<td class="c"><a href="%s">Download</a></td>
			<td class="c">%s</td>
		</tr>
`, row.Version, row.Status, flag(row.HearingImpaired), flag(row.Corrected), flag(row.HD), row.DownloadURI, flag(row.Multi))
	}
	sb.WriteString(`	</tbody>
</table>
</div>`)

	return sb.String()
}

// GenerateMovieSearchHTML generates the search.php results page
func GenerateMovieSearchHTML(movies []MovieRowOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<body>
<table class="tabel">
`)
	for _, movie := range movies {
		fmt.Fprintf(&sb, `	<tr>
		<td><img src="/images/movie.png"></td>
		<td><a href="movie/%s">%s</a></td>
	</tr>
`, movie.MovieID, movie.Title)
	}
	sb.WriteString(`</table>
</body>
</html>`)

	return sb.String()
}

// GenerateMoviePageHTML generates a /movie/{id} page with one block per version
func GenerateMoviePageHTML(title string, versions []MovieVersionOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<html>
<body>
<div id="container95m">
	<span class="titulo">%s Subtitle </span>
`, title)
	for _, version := range versions {
		fmt.Fprintf(&sb, `	<table class="tabel95">
		<tr>
			<td class="NewsTitle" colspan="3">Version %s, 0.00 MBs </td>
		</tr>
		<tr>
			<td class="language">%s</td>
			<td><b>Completed</b></td>
			<td><a class="buttonDownload" href="%s"><strong>Download</strong></a></td>
		</tr>
	</table>
`, version.Version, version.Language, version.DownloadURI)
	}
	sb.WriteString(`</div>
</body>
</html>`)

	return sb.String()
}

// GenerateEmptyHTML generates an empty page
func GenerateEmptyHTML() string {
	return `<html><body></body></html>`
}

func flag(set bool) string {
	if set {
		return "&#10004;"
	}
	return ""
}
