package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mockProvider implements provider.Provider for testing
type mockProvider struct {
	searchFunc   func(ctx context.Context, req models.SearchRequest) []models.RemoteSubtitle
	retrieveFunc func(ctx context.Context, token string) (*models.SubtitlePayload, error)
}

func (m *mockProvider) Name() string { return "Addic7ed" }

func (m *mockProvider) SupportedKinds() []models.ContentKind {
	return []models.ContentKind{models.ContentKindEpisode, models.ContentKindMovie}
}

func (m *mockProvider) Search(ctx context.Context, req models.SearchRequest) []models.RemoteSubtitle {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req)
	}
	return []models.RemoteSubtitle{}
}

func (m *mockProvider) Retrieve(ctx context.Context, token string) (*models.SubtitlePayload, error) {
	if m.retrieveFunc != nil {
		return m.retrieveFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockProvider) Close() error { return nil }

func TestServer_Search(t *testing.T) {
	var got models.SearchRequest
	s := NewServer(&mockProvider{
		searchFunc: func(_ context.Context, req models.SearchRequest) []models.RemoteSubtitle {
			got = req
			return []models.RemoteSubtitle{{ID: "/download/abc:en", Name: "KILLERS", Language: "en", Format: "srt", ProviderName: "Addic7ed"}}
		},
	})

	season, episode := 1, 2
	resp, err := s.Search(context.Background(), &models.SearchRequest{
		Kind: models.ContentKindEpisode, Name: "Example Show", Season: &season, Episode: &episode, Language: "en",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Subtitles) != 1 || resp.Subtitles[0].ID != "/download/abc:en" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if got.Name != "Example Show" || *got.Episode != 2 {
		t.Errorf("Provider received %+v", got)
	}
}

func TestServer_RetrieveMalformedToken(t *testing.T) {
	s := NewServer(&mockProvider{
		retrieveFunc: func(_ context.Context, token string) (*models.SubtitlePayload, error) {
			return nil, &apperrors.ErrMalformedToken{Token: token}
		},
	})

	_, err := s.Retrieve(context.Background(), &RetrieveRequest{Token: "bogus"})
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("Expected a gRPC status, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("Code = %v, want InvalidArgument", st.Code())
	}

	var found bool
	for _, detail := range st.Details() {
		if br, ok := detail.(*errdetails.BadRequest); ok {
			found = len(br.FieldViolations) == 1 && br.FieldViolations[0].Field == "token"
		}
	}
	if !found {
		t.Errorf("Expected a BadRequest detail for the token field, got %v", st.Details())
	}
}

func TestServer_RetrieveOtherErrorIsInternal(t *testing.T) {
	s := NewServer(&mockProvider{
		retrieveFunc: func(context.Context, string) (*models.SubtitlePayload, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := s.Retrieve(context.Background(), &RetrieveRequest{Token: "a:b"})
	if status.Code(err) != codes.Internal {
		t.Errorf("Code = %v, want Internal", status.Code(err))
	}
}

func TestServer_RetrieveEmpty(t *testing.T) {
	s := NewServer(&mockProvider{})

	resp, err := s.Retrieve(context.Background(), &RetrieveRequest{Token: "/download/abc:en"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if resp.Subtitle != nil {
		t.Errorf("Expected no subtitle, got %+v", resp.Subtitle)
	}
}
