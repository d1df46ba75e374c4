package grpc

import (
	"context"
	"time"

	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type ComparisonService interface {
	CompareBuilds(ctx context.Context, req service.CompareRequest) (service.BuildComparison, error)
	CompareReports(ctx context.Context, compareJSON, baseJSON []byte) ([]comparison.CategoryViewModel, error)
}
