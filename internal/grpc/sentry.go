package grpc

import (
	"context"

	"github.com/getsentry/sentry-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// sentryUnaryInterceptor reports panics and Internal errors of unary handlers to Sentry.
// A panic is turned into an Internal status.
func sentryUnaryInterceptor(hub *sentry.Hub) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		local := hub.Clone()
		local.Scope().SetTag("grpc.method", info.FullMethod)
		ctx = sentry.SetHubOnContext(ctx, local)

		defer func() {
			if r := recover(); r != nil {
				local.RecoverWithContext(ctx, r)
				resp, err = nil, status.Errorf(codes.Internal, "internal error handling %s", info.FullMethod)
			}
		}()

		resp, err = handler(ctx, req)
		if status.Code(err) == codes.Internal {
			local.CaptureException(err)
		}
		return resp, err
	}
}
