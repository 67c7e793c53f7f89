package models

import "time"

// GestdownShow is a single show entry returned by the Gestdown API
type GestdownShow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NbSeasons int    `json:"nbSeasons"`
	Seasons   []int  `json:"seasons"`
	TvDbID    int    `json:"tvDbId"`
}

// GestdownShowResponse is the response of the shows/external lookup endpoint
type GestdownShowResponse struct {
	Shows []GestdownShow `json:"shows"`
}

// GestdownEpisode describes the episode a subtitle search matched
type GestdownEpisode struct {
	Season     int       `json:"season"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Show       string    `json:"show"`
	Discovered time.Time `json:"discovered"`
}

// GestdownSubtitle is a subtitle entry of a search response
type GestdownSubtitle struct {
	SubtitleID      string    `json:"subtitleId"`
	Version         string    `json:"version"`
	Completed       bool      `json:"completed"`
	HearingImpaired bool      `json:"hearingImpaired"`
	Corrected       bool      `json:"corrected"`
	HD              bool      `json:"hd"`
	DownloadURI     string    `json:"downloadUri"`
	Language        string    `json:"language"`
	Discovered      time.Time `json:"discovered"`
	DownloadCount   int       `json:"downloadCount"`
}

// GestdownSubtitleSearchResponse is the response of the subtitles/get endpoint
type GestdownSubtitleSearchResponse struct {
	MatchingSubtitles []GestdownSubtitle `json:"matchingSubtitles"`
	Episode           GestdownEpisode    `json:"episode"`
}
