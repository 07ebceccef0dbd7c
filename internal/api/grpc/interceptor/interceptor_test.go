package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"eventrental-backend/internal/security"
)

func okHandler(ctx context.Context, req any) (any, error) { return "ok", nil }

func TestAuthInterceptor(t *testing.T) {
	tm := security.NewTokenManager("0123456789abcdef0123456789abcdef", "eventrental-test", time.Hour)
	unary := NewAuthInterceptor(tm).Unary()
	protected := &grpc.UnaryServerInfo{FullMethod: "/api/reservations"}

	t.Run("PublicMethod", func(t *testing.T) {
		resp, err := unary(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, okHandler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("NoMetadata", func(t *testing.T) {
		_, err := unary(context.Background(), nil, protected, okHandler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("BadToken", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer junk"))
		_, err := unary(ctx, nil, protected, okHandler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Success", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("office-1", nil)
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
		resp, err := unary(ctx, nil, protected, okHandler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})
}

func TestRecovery(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Panics"}
	_, err := Recovery()(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestLogging_PassesThrough(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Echo"}
	resp, err := Logging()(context.Background(), "hi", info, func(_ context.Context, req any) (any, error) {
		return req, status.Error(codes.InvalidArgument, "bad")
	})
	assert.Equal(t, "hi", resp)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
