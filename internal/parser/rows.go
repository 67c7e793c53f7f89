package parser

import (
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/metrics"

	"github.com/PuerkitoBio/goquery"
)

// Column describes how one value is read out of a cell or a page.
//
// Selector narrows the lookup to the first matching descendant, an empty Selector
// reads the node itself. Attr reads an attribute instead of the text content.
type Column struct {
	Name     string
	Selector string
	Attr     string
}

func (c Column) value(sel *goquery.Selection) string {
	if c.Selector != "" {
		sel = sel.Find(c.Selector).First()
	}
	if c.Attr != "" {
		v, _ := sel.Attr(c.Attr)
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(sel.Text())
}

// RowPattern describes a table-style page: every element matching Row is a record and
// its direct children matching Cell are read positionally through Columns.
type RowPattern struct {
	Page    string
	Row     string
	Cell    string
	Columns []Column
}

// Row is one extracted record, keyed by column name.
type Row map[string]string

// ExtractRows returns one Row per element matching pattern.Row, in document order.
// A row with fewer cells than pattern.Columns is logged, counted and skipped; the
// remaining rows are still extracted.
func ExtractRows(doc *goquery.Document, pattern RowPattern) []Row {
	logger := config.GetLogger()
	expected := len(pattern.Columns)

	var rows []Row
	doc.Find(pattern.Row).Each(func(i int, sel *goquery.Selection) {
		cells := sel.ChildrenFiltered(pattern.Cell)
		if cells.Length() < expected {
			err := &apperrors.ErrMalformedRow{Page: pattern.Page, Row: i, Cells: cells.Length(), Expected: expected}
			logger.Warn().Err(err).Str("page", pattern.Page).Int("row", i).Msg("Skipping malformed row")
			metrics.MalformedRowsTotal.WithLabelValues(pattern.Page).Inc()
			return
		}

		row := make(Row, expected)
		for idx, column := range pattern.Columns {
			row[column.Name] = column.value(cells.Eq(idx))
		}
		rows = append(rows, row)
	})

	logger.Debug().Str("page", pattern.Page).Int("rows", len(rows)).Msg("Extracted rows")
	return rows
}

// ExtractGroups reads every column independently over the whole document, for pages
// where related values are not nested under a common row. The result maps a column
// name to its values in document order.
func ExtractGroups(doc *goquery.Document, groups []Column) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, group := range groups {
		values := []string{}
		lookup := Column{Attr: group.Attr}
		doc.Find(group.Selector).Each(func(_ int, sel *goquery.Selection) {
			values = append(values, lookup.value(sel))
		})
		out[group.Name] = values
	}
	return out
}
