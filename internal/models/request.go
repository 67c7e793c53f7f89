package models

// ContentKind identifies the kind of media a search is made for
type ContentKind string

const (
	ContentKindEpisode ContentKind = "episode"
	ContentKindMovie   ContentKind = "movie"
)

// ParseContentKind converts a free-form kind string to a ContentKind.
// Unknown values return an empty kind.
func ParseContentKind(kind string) ContentKind {
	switch ContentKind(kind) {
	case ContentKindEpisode, ContentKindMovie:
		return ContentKind(kind)
	default:
		return ""
	}
}

// SearchRequest describes the media a caller wants subtitles for.
// Optional numeric fields are nil when the caller did not provide them.
type SearchRequest struct {
	Kind     ContentKind `json:"kind"`
	Name     string      `json:"name"`
	Season   *int        `json:"season,omitempty"`
	Episode  *int        `json:"episode,omitempty"`
	Year     *int        `json:"year,omitempty"`
	Language string      `json:"language"`
	IsForced *bool       `json:"isForced,omitempty"`
}

// Forced reports whether the request explicitly asks for forced subtitles
func (r SearchRequest) Forced() bool {
	return r.IsForced != nil && *r.IsForced
}
