package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/godilite/lhci-compare/api/v1"
	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/service"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const cacheKeyBuildComparison CacheKeyType = "grpc:build_comparison"

type GRPCHandlers struct {
	pb.UnimplementedBuildComparisonServer
	comparisons ComparisonService
	cache       Cacher
	logger      *zap.Logger
	sfGroup     singleflight.Group
	cacheTTL    time.Duration
}

// NewGRPCHandlers initializes the gRPC handlers. cache may be nil, in which
// case every comparison is computed on request.
func NewGRPCHandlers(comparisons ComparisonService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if comparisons == nil {
		panic("nil ComparisonService provided to NewGRPCHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		comparisons: comparisons,
		cache:       cache,
		logger:      logger.Named("grpc-handler"),
		cacheTTL:    ttl,
	}
}

func normalizeKey(prefix CacheKeyType, req pb.CompareBuildsRequest) string {
	return fmt.Sprintf("%s:%s:%s:%s", prefix, req.CompareBuildID, req.BaseBuildID, req.URL)
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrBuildNotFound), errors.Is(err, service.ErrReportNotFound):
		s.logger.Info("comparison input not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, comparison.ErrMalformedReport):
		s.logger.Warn("stored report is malformed", zap.String("op", op), zap.Error(err))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) CompareBuilds(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := pb.ParseCompareBuildsRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.CompareBuildID == "" {
		return nil, status.Error(codes.InvalidArgument, pb.FieldCompareBuildID+" is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	opts := CacheOptions[service.BuildComparison]{
		TTL:    s.cacheTTL,
		Logger: s.logger,
		// A later base build may appear for a build compared without one.
		Incomplete: func(c service.BuildComparison) bool { return c.BaseBuildID == "" },
	}
	result, err := FindAndCache(ctx, s.cache, &s.sfGroup, normalizeKey(cacheKeyBuildComparison, req), opts,
		func(fetchCtx context.Context) (service.BuildComparison, error) {
			return s.comparisons.CompareBuilds(fetchCtx, service.CompareRequest{
				CompareBuildID: req.CompareBuildID,
				BaseBuildID:    req.BaseBuildID,
				URL:            req.URL,
			})
		})
	if err != nil {
		return nil, s.handleError(ctx, "CompareBuilds", err)
	}

	out, err := structpb.NewStruct(mapBuildComparison(result))
	if err != nil {
		return nil, s.handleError(ctx, "CompareBuilds", err)
	}
	return out, nil
}

func (s *GRPCHandlers) CompareReports(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := pb.ParseCompareReportsRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.CompareReport == "" {
		return nil, status.Error(codes.InvalidArgument, pb.FieldCompareReport+" is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	items, err := s.comparisons.CompareReports(ctx, []byte(req.CompareReport), []byte(req.BaseReport))
	if errors.Is(err, comparison.ErrMalformedReport) {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		return nil, s.handleError(ctx, "CompareReports", err)
	}

	out, err := structpb.NewStruct(map[string]any{"categories": mapCategories(items)})
	if err != nil {
		return nil, s.handleError(ctx, "CompareReports", err)
	}
	return out, nil
}

func mapBuildComparison(c service.BuildComparison) map[string]any {
	m := map[string]any{
		"compareBuildId": c.CompareBuildID,
		"url":            c.URL,
		"categories":     mapCategories(c.Categories),
	}
	if c.BaseBuildID != "" {
		m["baseBuildId"] = c.BaseBuildID
	}
	return m
}

// mapCategories converts view models to Struct-compatible values using the
// same field names as their JSON encoding.
func mapCategories(items []comparison.CategoryViewModel) []any {
	out := make([]any, len(items))
	for i, item := range items {
		m := map[string]any{
			"kind":       string(item.Kind),
			"categoryId": item.CategoryID,
			"title":      item.Title,
		}
		if item.IsPWA() {
			mapBadges(m, item)
		} else {
			mapScore(m, item)
		}
		out[i] = m
	}
	return out
}

func mapScore(m map[string]any, item comparison.CategoryViewModel) {
	if item.Score != nil {
		m["score"] = *item.Score
	}
	if item.Diff != nil {
		m["diff"] = map[string]any{
			"auditId":      item.Diff.AuditID,
			"type":         string(item.Diff.Type),
			"baseValue":    optionalFloat(item.Diff.BaseValue),
			"compareValue": optionalFloat(item.Diff.CompareValue),
		}
	}
	if item.Label != "" {
		m["label"] = string(item.Label)
	}
	if item.Delta != nil {
		m["delta"] = *item.Delta
	}
}

func mapBadges(m map[string]any, item comparison.CategoryViewModel) {
	if item.Status != nil {
		m["status"] = map[string]any{
			string(comparison.FacetFastAndReliable): item.Status.FastAndReliable,
			string(comparison.FacetInstallable):     item.Status.Installable,
			string(comparison.FacetOptimized):       item.Status.Optimized,
		}
	}
	if item.DiffBundle == nil {
		m["diffBundle"] = nil
	} else {
		bundle := make(map[string]any, len(item.DiffBundle))
		for facet, label := range item.DiffBundle {
			bundle[string(facet)] = string(label)
		}
		m["diffBundle"] = bundle
	}
	if item.AllNeutral {
		m["allNeutral"] = true
	}
}

func optionalFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
