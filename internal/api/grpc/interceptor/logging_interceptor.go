package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"eventrental-backend/internal/logger"
)

// Logging tags each call with a request id and logs its outcome.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx = logger.NewContext(ctx, "request_id", uuid.NewString())
		resp, err := handler(ctx, req)

		code := status.Code(err)
		args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
		switch code {
		case codes.OK:
			logger.DebugContext(ctx, "gRPC request", args...)
		case codes.Internal, codes.Unknown, codes.Unavailable:
			logger.ErrorContext(ctx, "gRPC request failed", append(args, "error", err)...)
		default:
			logger.InfoContext(ctx, "gRPC request rejected", append(args, "error", err)...)
		}
		return resp, err
	}
}

// Recovery turns a handler panic into codes.Internal.
func Recovery() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "Panic in gRPC handler", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
