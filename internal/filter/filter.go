// Package filter narrows extracted subtitle candidates down to the ones matching a request.
// Source order is preserved and no ranking is applied.
package filter

import (
	"github.com/samber/lo"

	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

// Episode keeps the candidates for the requested episode number and normalized language.
// Language comparison is exact and case-sensitive.
func Episode(candidates []models.SubtitleCandidate, episode int, language string) []models.SubtitleCandidate {
	return lo.Filter(candidates, func(c models.SubtitleCandidate, _ int) bool {
		return c.Episode == episode && c.Language == language
	})
}

// Movie keeps the candidates in the requested normalized language
func Movie(candidates []models.SubtitleCandidate, language string) []models.SubtitleCandidate {
	return lo.Filter(candidates, func(c models.SubtitleCandidate, _ int) bool {
		return c.Language == language
	})
}
