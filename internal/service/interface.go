package service

import (
	"context"

	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/repository/models"
)

// BuildRepository defines the storage operations the comparison service needs.
type BuildRepository interface {
	GetBuild(ctx context.Context, id string) (models.Build, error)
	FindAncestorBuild(ctx context.Context, build models.Build, baseBranch string) (models.Build, error)
	GetRepresentativeReport(ctx context.Context, buildID, url string) (models.Run, error)
}

// ReportComparer produces ordered category view models from two reports.
type ReportComparer interface {
	Compare(compareReport, baseReport *comparison.Report) ([]comparison.CategoryViewModel, error)
}
