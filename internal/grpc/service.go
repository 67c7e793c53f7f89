package grpc

import (
	"context"

	"github.com/Belphemur/Addic7edSubtitles/internal/models"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the subtitle service
const ServiceName = "addic7ed.v1.SubtitleService"

const (
	searchMethod   = "/" + ServiceName + "/Search"
	retrieveMethod = "/" + ServiceName + "/Retrieve"
)

// SearchResponse lists the subtitles matching a search, possibly none
type SearchResponse struct {
	Subtitles []models.RemoteSubtitle `json:"subtitles"`
}

// RetrieveRequest asks for the subtitle behind a search result token
type RetrieveRequest struct {
	Token string `json:"token"`
}

// RetrieveResponse carries the downloaded subtitle. Subtitle is nil when the source
// could not provide it.
type RetrieveResponse struct {
	Subtitle *models.SubtitlePayload `json:"subtitle,omitempty"`
}

// SubtitleServiceServer is the server API of the subtitle service
type SubtitleServiceServer interface {
	Search(context.Context, *models.SearchRequest) (*SearchResponse, error)
	Retrieve(context.Context, *RetrieveRequest) (*RetrieveResponse, error)
}

// RegisterSubtitleServiceServer registers srv on s
func RegisterSubtitleServiceServer(s grpc.ServiceRegistrar, srv SubtitleServiceServer) {
	s.RegisterService(&SubtitleServiceDesc, srv)
}

func searchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.SearchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubtitleServiceServer).Search(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: searchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubtitleServiceServer).Search(ctx, req.(*models.SearchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func retrieveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RetrieveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubtitleServiceServer).Retrieve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: retrieveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubtitleServiceServer).Retrieve(ctx, req.(*RetrieveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SubtitleServiceDesc describes the subtitle service for grpc.Server.RegisterService.
// Metadata names no registered proto file.
var SubtitleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SubtitleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: searchHandler},
		{MethodName: "Retrieve", Handler: retrieveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "addic7ed/v1/subtitle_service",
}

// SubtitleServiceClient calls the subtitle service with the JSON codec
type SubtitleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSubtitleServiceClient(cc grpc.ClientConnInterface) *SubtitleServiceClient {
	return &SubtitleServiceClient{cc: cc}
}

func (c *SubtitleServiceClient) Search(ctx context.Context, in *models.SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error) {
	out := new(SearchResponse)
	if err := c.cc.Invoke(ctx, searchMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SubtitleServiceClient) Retrieve(ctx context.Context, in *RetrieveRequest, opts ...grpc.CallOption) (*RetrieveResponse, error) {
	out := new(RetrieveResponse)
	if err := c.cc.Invoke(ctx, retrieveMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}
