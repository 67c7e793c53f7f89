package provider

import (
	"context"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/client"
	"github.com/Belphemur/Addic7edSubtitles/internal/codec"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/metrics"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

// Download status label values
const (
	downloadOK       = "success"
	downloadFailed   = "error"
	downloadRejected = "rejected"
)

// retriever downloads the subtitle a token points to
type retriever struct {
	fetcher  client.Fetcher
	codec    codec.Codec
	strategy string
}

// Retrieve decodes token and downloads the subtitle. Only a malformed token is an
// error; a failed download or a response that is not a subtitle yields nil.
func (r *retriever) Retrieve(ctx context.Context, token string) (*models.SubtitlePayload, error) {
	logger := config.GetLogger().With().Str("provider", r.strategy).Logger()

	locator, lang, err := r.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	resp, err := r.fetcher.Get(ctx, locator, nil)
	if err != nil {
		logger.Warn().Err(err).Str("locator", locator).Msg("Failed to download subtitle")
		metrics.SubtitleDownloadsTotal.WithLabelValues(r.strategy, downloadFailed).Inc()
		return nil, nil
	}

	if !isSubtitleContent(resp.ContentType) {
		logger.Warn().Str("locator", locator).Str("content_type", resp.ContentType).Msg("Download is not a subtitle")
		metrics.SubtitleDownloadsTotal.WithLabelValues(r.strategy, downloadRejected).Inc()
		return nil, nil
	}

	metrics.SubtitleDownloadsTotal.WithLabelValues(r.strategy, downloadOK).Inc()
	logger.Debug().Str("locator", locator).Int("size", len(resp.Body)).Msg("Subtitle downloaded")
	return &models.SubtitlePayload{
		Language: lang,
		Format:   models.FormatSRT,
		Content:  resp.Body,
	}, nil
}

// isSubtitleContent accepts a missing content type and any srt or subrip media type
func isSubtitleContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, models.FormatSRT) || strings.Contains(ct, "subrip")
}
