package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeFound    = "found"
	OutcomeEmpty    = "empty"
	OutcomeRejected = "rejected"
)

// Subtitle search and download metrics
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_searches_total",
			Help: "Total number of subtitle searches by provider, content kind and outcome.",
		},
		[]string{"provider", "kind", "outcome"},
	)

	SubtitleDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_downloads_total",
			Help: "Total number of subtitle downloads.",
		},
		[]string{"provider", "status"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_logins_total",
			Help: "Total number of login attempts against the subtitle source.",
		},
		[]string{"outcome"},
	)

	MalformedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parser_malformed_rows_total",
			Help: "Total number of markup rows skipped because they did not match the expected layout.",
		},
		[]string{"page"},
	)
)

func init() {
	prometheus.MustRegister(
		SearchesTotal,
		SubtitleDownloadsTotal,
		LoginsTotal,
		MalformedRowsTotal,
	)
}
