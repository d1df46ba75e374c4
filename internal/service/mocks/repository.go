package mocks

import (
	"context"
	"errors"

	"github.com/godilite/lhci-compare/internal/repository/models"
)

// MockBuildRepository is a mock implementation of the BuildRepository interface
// for testing the service layer.
type MockBuildRepository struct {
	GetBuildFunc                func(ctx context.Context, id string) (models.Build, error)
	FindAncestorBuildFunc       func(ctx context.Context, build models.Build, baseBranch string) (models.Build, error)
	GetRepresentativeReportFunc func(ctx context.Context, buildID, url string) (models.Run, error)
}

// GetBuild implements the BuildRepository interface
func (m *MockBuildRepository) GetBuild(ctx context.Context, id string) (models.Build, error) {
	if m.GetBuildFunc != nil {
		return m.GetBuildFunc(ctx, id)
	}
	return models.Build{}, errors.New("GetBuildFunc not implemented")
}

// FindAncestorBuild implements the BuildRepository interface
func (m *MockBuildRepository) FindAncestorBuild(ctx context.Context, build models.Build, baseBranch string) (models.Build, error) {
	if m.FindAncestorBuildFunc != nil {
		return m.FindAncestorBuildFunc(ctx, build, baseBranch)
	}
	return models.Build{}, errors.New("FindAncestorBuildFunc not implemented")
}

// GetRepresentativeReport implements the BuildRepository interface
func (m *MockBuildRepository) GetRepresentativeReport(ctx context.Context, buildID, url string) (models.Run, error) {
	if m.GetRepresentativeReportFunc != nil {
		return m.GetRepresentativeReportFunc(ctx, buildID, url)
	}
	return models.Run{}, errors.New("GetRepresentativeReportFunc not implemented")
}
