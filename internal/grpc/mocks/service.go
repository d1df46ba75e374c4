package mocks

import (
	"context"
	"errors"

	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/service"
)

// MockComparisonService is a func-field mock of the ComparisonService interface
// for testing the handler layer.
type MockComparisonService struct {
	CompareBuildsFunc  func(ctx context.Context, req service.CompareRequest) (service.BuildComparison, error)
	CompareReportsFunc func(ctx context.Context, compareJSON, baseJSON []byte) ([]comparison.CategoryViewModel, error)
}

// CompareBuilds implements the ComparisonService interface
func (m *MockComparisonService) CompareBuilds(ctx context.Context, req service.CompareRequest) (service.BuildComparison, error) {
	if m.CompareBuildsFunc != nil {
		return m.CompareBuildsFunc(ctx, req)
	}
	return service.BuildComparison{}, errors.New("CompareBuildsFunc not implemented")
}

// CompareReports implements the ComparisonService interface
func (m *MockComparisonService) CompareReports(ctx context.Context, compareJSON, baseJSON []byte) ([]comparison.CategoryViewModel, error) {
	if m.CompareReportsFunc != nil {
		return m.CompareReportsFunc(ctx, compareJSON, baseJSON)
	}
	return nil, errors.New("CompareReportsFunc not implemented")
}
