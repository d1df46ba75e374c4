package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/repository"
	"github.com/godilite/lhci-compare/internal/repository/models"
)

const (
	dbTimeout         = 1 * time.Second
	defaultBaseBranch = "main"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrBuildNotFound  = errors.New("build not found")
	ErrReportNotFound = errors.New("report not found")
	ErrStorageFailure = errors.New("storage failure")
)

// ComparisonService loads builds and their reports and compares them category by category.
type ComparisonService struct {
	storage    BuildRepository
	engine     ReportComparer
	logger     *zap.Logger
	baseBranch string
}

// NewComparisonService creates a new ComparisonService instance.
func NewComparisonService(storage BuildRepository, engine ReportComparer, logger *zap.Logger, baseBranch string) *ComparisonService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if engine == nil {
		panic("engine must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	if baseBranch == "" {
		baseBranch = defaultBaseBranch
	}
	return &ComparisonService{
		storage:    storage,
		engine:     engine,
		logger:     logger,
		baseBranch: baseBranch,
	}
}

// CompareBuilds compares the report of the compare build for req.URL with the
// matching report of the base build. Without an explicit base build the
// ancestor build is used; when none exists the comparison has no base.
func (s *ComparisonService) CompareBuilds(ctx context.Context, req CompareRequest) (BuildComparison, error) {
	if req.CompareBuildID == "" {
		return BuildComparison{}, fmt.Errorf("%w: compare build id is required", ErrInvalidRequest)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	compareBuild, err := s.loadBuild(dbCtx, req.CompareBuildID)
	if err != nil {
		return BuildComparison{}, fmt.Errorf("compare build: %w", err)
	}

	run, err := s.loadRun(dbCtx, compareBuild.ID, req.URL)
	if err != nil {
		return BuildComparison{}, fmt.Errorf("compare report: %w", err)
	}
	compareReport, err := comparison.ParseReport(run.Report)
	if err != nil {
		return BuildComparison{}, fmt.Errorf("compare report %d: %w", run.ID, err)
	}

	baseBuild, found, err := s.resolveBase(dbCtx, compareBuild, req.BaseBuildID)
	if err != nil {
		return BuildComparison{}, fmt.Errorf("base build: %w", err)
	}

	result := BuildComparison{
		CompareBuildID: compareBuild.ID,
		URL:            run.URL,
	}

	var baseReport *comparison.Report
	if found {
		baseReport, err = s.loadBaseReport(dbCtx, baseBuild.ID, run.URL)
		if err != nil {
			return BuildComparison{}, fmt.Errorf("base report: %w", err)
		}
		if baseReport != nil {
			result.BaseBuildID = baseBuild.ID
		}
	}

	result.Categories, err = s.engine.Compare(compareReport, baseReport)
	if err != nil {
		return BuildComparison{}, err
	}

	s.logger.Info("compared builds",
		zap.String("compare_build", result.CompareBuildID),
		zap.String("base_build", result.BaseBuildID),
		zap.String("url", result.URL),
		zap.Int("categories", len(result.Categories)))

	return result, nil
}

// CompareReports compares two raw JSON reports. An empty base means no comparison.
func (s *ComparisonService) CompareReports(ctx context.Context, compareJSON, baseJSON []byte) ([]comparison.CategoryViewModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compareReport, err := comparison.ParseReport(compareJSON)
	if err != nil {
		return nil, fmt.Errorf("compare report: %w", err)
	}

	var baseReport *comparison.Report
	if len(baseJSON) > 0 {
		baseReport, err = comparison.DecodeReport(baseJSON)
		if err != nil {
			return nil, fmt.Errorf("base report: %w", err)
		}
	}

	return s.engine.Compare(compareReport, baseReport)
}

func (s *ComparisonService) loadBuild(ctx context.Context, id string) (models.Build, error) {
	b, err := s.storage.GetBuild(ctx, id)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, repository.ErrNotFound):
		return models.Build{}, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	default:
		s.logger.Error("failed to fetch build", zap.String("build", id), zap.Error(err))
		return models.Build{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}

func (s *ComparisonService) loadRun(ctx context.Context, buildID, url string) (models.Run, error) {
	r, err := s.storage.GetRepresentativeReport(ctx, buildID, url)
	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, repository.ErrNotFound):
		return models.Run{}, fmt.Errorf("%w: build %s url %q", ErrReportNotFound, buildID, url)
	default:
		s.logger.Error("failed to fetch report",
			zap.String("build", buildID),
			zap.String("url", url),
			zap.Error(err))
		return models.Run{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}

// resolveBase returns the explicitly requested base build, or the ancestor of
// the compare build. found is false when there is nothing to compare against.
func (s *ComparisonService) resolveBase(ctx context.Context, compareBuild models.Build, baseBuildID string) (b models.Build, found bool, err error) {
	if baseBuildID != "" {
		b, err = s.loadBuild(ctx, baseBuildID)
		if err != nil {
			return models.Build{}, false, err
		}
		return b, true, nil
	}

	b, err = s.storage.FindAncestorBuild(ctx, compareBuild, s.baseBranch)
	switch {
	case err == nil:
		return b, true, nil
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Info("no ancestor build",
			zap.String("build", compareBuild.ID),
			zap.String("base_branch", s.baseBranch))
		return models.Build{}, false, nil
	default:
		s.logger.Error("failed to resolve ancestor build", zap.String("build", compareBuild.ID), zap.Error(err))
		return models.Build{}, false, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}

// loadBaseReport returns nil when the base build has no usable report for url.
func (s *ComparisonService) loadBaseReport(ctx context.Context, buildID, url string) (*comparison.Report, error) {
	run, err := s.loadRun(ctx, buildID, url)
	if errors.Is(err, ErrReportNotFound) {
		s.logger.Info("base build has no report for url", zap.String("build", buildID), zap.String("url", url))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	report, err := comparison.DecodeReport(run.Report)
	if err != nil {
		s.logger.Warn("ignoring unreadable base report",
			zap.String("build", buildID),
			zap.Int64("run", run.ID),
			zap.Error(err))
		return nil, nil
	}
	return report, nil
}
