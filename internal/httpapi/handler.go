// Package httpapi exposes subtitle search and retrieval over plain HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/provider"

	"github.com/gorilla/mux"
)

// subripContentType is served for every downloaded subtitle
const subripContentType = "application/x-subrip"

// Handler serves the subtitle API endpoints
type Handler struct {
	provider provider.Provider
}

// NewHandler creates a Handler for p
func NewHandler(p provider.Provider) *Handler {
	return &Handler{provider: p}
}

// NewRouter routes /api/v1 to a Handler for p. Tokens contain slashes, so the router
// matches on the escaped path and clients must escape the token.
func NewRouter(p provider.Provider) *mux.Router {
	h := NewHandler(p)
	router := mux.NewRouter().UseEncodedPath()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	api.HandleFunc("/subtitles/{token}", h.Retrieve).Methods(http.MethodGet)
	return router
}

// Search answers GET /api/v1/search with the JSON list of matching subtitles.
// Incomplete or malformed queries yield an empty list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results := h.provider.Search(r.Context(), searchRequestFromQuery(r.URL.Query()))
	writeJSON(w, http.StatusOK, results)
}

// Retrieve answers GET /api/v1/subtitles/{token} with the subtitle file
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	logger := config.GetLogger()

	token, err := url.PathUnescape(mux.Vars(r)["token"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid token escaping")
		return
	}

	payload, err := h.provider.Retrieve(r.Context(), token)
	if err != nil {
		if errors.Is(err, &apperrors.ErrMalformedToken{}) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error().Err(err).Msg("Failed to retrieve subtitle")
		writeError(w, http.StatusInternalServerError, "failed to retrieve subtitle")
		return
	}
	if payload == nil {
		writeError(w, http.StatusNotFound, "subtitle not available")
		return
	}

	w.Header().Set("Content-Type", subripContentType)
	w.Header().Set("Content-Language", payload.Language)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload.Content); err != nil {
		logger.Debug().Err(err).Msg("Failed to write subtitle response")
	}
}

// searchRequestFromQuery maps query parameters to a request. Numbers that do not
// parse are left unset.
func searchRequestFromQuery(q url.Values) models.SearchRequest {
	req := models.SearchRequest{
		Kind:     models.ParseContentKind(strings.ToLower(strings.TrimSpace(q.Get("kind")))),
		Name:     strings.TrimSpace(q.Get("name")),
		Season:   optionalInt(q.Get("season")),
		Episode:  optionalInt(q.Get("episode")),
		Year:     optionalInt(q.Get("year")),
		Language: strings.TrimSpace(q.Get("language")),
	}
	if raw := q.Get("forced"); raw != "" {
		if forced, err := strconv.ParseBool(raw); err == nil {
			req.IsForced = &forced
		}
	}
	return req
}

func optionalInt(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
