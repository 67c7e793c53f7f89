package models

// FormatSRT is the only subtitle format served by the provider
const FormatSRT = "srt"

// SubtitleCandidate is a single subtitle row extracted from the source, before filtering
type SubtitleCandidate struct {
	Season          int    `json:"season"`
	Episode         int    `json:"episode"`
	Title           string `json:"title"`
	Language        string `json:"language"` // Normalized language code
	Version         string `json:"version"`  // Release label, e.g. "KILLERS"
	Completed       bool   `json:"completed"`
	HearingImpaired bool   `json:"hearingImpaired"`
	Corrected       bool   `json:"corrected"`
	HD              bool   `json:"hd"`
	DownloadURI     string `json:"downloadUri"` // Absolute URL or path relative to the provider
	Multi           bool   `json:"multi"`
}

// RemoteSubtitle is a search result handed back to the caller.
// ID is an opaque token that can later be passed to Retrieve.
type RemoteSubtitle struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Language     string `json:"language"`
	Format       string `json:"format"`
	ProviderName string `json:"providerName"`
}

// SubtitlePayload is the downloaded subtitle content
type SubtitlePayload struct {
	Language string `json:"language"`
	Format   string `json:"format"`
	Content  []byte `json:"content"`
}
