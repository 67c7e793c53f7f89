package grpc

import (
	"context"
	"errors"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/provider"

	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// server implements SubtitleServiceServer on top of a provider
type server struct {
	provider provider.Provider
	logger   zerolog.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(p provider.Provider) SubtitleServiceServer {
	return &server{
		provider: p,
		logger:   config.GetLogger(),
	}
}

// Search implements SubtitleServiceServer.Search. Unusable requests yield an empty list.
func (s *server) Search(ctx context.Context, req *models.SearchRequest) (*SearchResponse, error) {
	s.logger.Debug().Str("kind", string(req.Kind)).Str("name", req.Name).Msg("Search called")

	results := s.provider.Search(ctx, *req)

	s.logger.Debug().Int("count", len(results)).Msg("Search completed")
	return &SearchResponse{Subtitles: results}, nil
}

// Retrieve implements SubtitleServiceServer.Retrieve
func (s *server) Retrieve(ctx context.Context, req *RetrieveRequest) (*RetrieveResponse, error) {
	s.logger.Debug().Str("token", req.Token).Msg("Retrieve called")

	payload, err := s.provider.Retrieve(ctx, req.Token)
	if err != nil {
		if errors.Is(err, &apperrors.ErrMalformedToken{}) {
			s.logger.Warn().Err(err).Msg("Rejected malformed token")
			return nil, invalidField("token", err)
		}
		s.logger.Error().Err(err).Msg("Failed to retrieve subtitle")
		return nil, status.Errorf(codes.Internal, "failed to retrieve subtitle: %v", err)
	}

	if payload == nil {
		s.logger.Debug().Msg("Retrieve found no subtitle")
	} else {
		s.logger.Debug().Int("size", len(payload.Content)).Msg("Retrieve completed")
	}
	return &RetrieveResponse{Subtitle: payload}, nil
}

// invalidField builds an InvalidArgument status naming the offending request field
func invalidField(field string, err error) error {
	st := status.New(codes.InvalidArgument, err.Error())
	detailed, detailErr := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: field, Description: err.Error()},
		},
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}
