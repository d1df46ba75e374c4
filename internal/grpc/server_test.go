package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "github.com/godilite/lhci-compare/api/v1"
	"github.com/godilite/lhci-compare/internal/grpc/mocks"
	"github.com/godilite/lhci-compare/internal/service"
	grpcsrv "github.com/godilite/lhci-compare/pkg/grpc/server"
)

func startBufconn(t *testing.T, handlers *GRPCHandlers) pb.BuildComparisonClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv, err := grpcsrv.New(
		grpcsrv.WithListener(lis),
		grpcsrv.WithLogger(zaptest.NewLogger(t)),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRequestIDs(true),
	)
	require.NoError(t, err)
	srv.RegisterServiceWithHealth(pb.BuildComparison_ServiceName, func(s *gogrpc.Server) {
		pb.RegisterBuildComparisonServer(s, handlers)
	})
	srv.Start()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return pb.NewBuildComparisonClient(conn)
}

func TestBuildComparisonOverGRPC(t *testing.T) {
	mockService := &mocks.MockComparisonService{
		CompareBuildsFunc: func(ctx context.Context, req service.CompareRequest) (service.BuildComparison, error) {
			if req.CompareBuildID != "b2" {
				return service.BuildComparison{}, service.ErrBuildNotFound
			}
			return sampleComparison(), nil
		},
	}
	client := startBufconn(t, NewGRPCHandlers(mockService, nil, zaptest.NewLogger(t), time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("compare builds", func(t *testing.T) {
		var header metadata.MD
		resp, err := client.CompareBuilds(ctx, compareBuildsRequest(t, pb.CompareBuildsRequest{CompareBuildID: "b2"}), gogrpc.Header(&header))
		require.NoError(t, err)

		var got service.BuildComparison
		require.NoError(t, pb.DecodeStruct(resp, &got))
		assert.Equal(t, sampleComparison(), got)
		assert.Len(t, header.Get(grpcsrv.RequestIDHeader), 1)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.CompareBuilds(ctx, compareBuildsRequest(t, pb.CompareBuildsRequest{CompareBuildID: "b9"}))

		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("compare reports requires a report", func(t *testing.T) {
		_, err := client.CompareReports(ctx, compareBuildsRequest(t, pb.CompareBuildsRequest{}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}
