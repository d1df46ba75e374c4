package diff

import "github.com/godilite/lhci-compare/internal/comparison"

const (
	groupFastReliable = "pwa-fast-reliable"
	groupInstallable  = "pwa-installable"
	groupOptimized    = "pwa-optimized"
)

// BadgeExtractor derives PWA badge status from the audit groups of the pwa category.
type BadgeExtractor struct{}

// ExtractBadgeStatus implements comparison.BadgeStatusExtractor. A facet is
// earned when its group has at least one audit and every audit in it scores 1.
// A group with no audits fails, so a report that lacks those audits earns no badge.
func (BadgeExtractor) ExtractBadgeStatus(r *comparison.Report) comparison.BadgeStatus {
	category, ok := r.Category(comparison.PWACategoryID)
	if !ok {
		return comparison.BadgeStatus{}
	}

	passed := make(map[string]bool, 3)
	seen := make(map[string]bool, 3)
	for _, ref := range category.AuditRefs {
		if ref.Group == "" {
			continue
		}
		if !seen[ref.Group] {
			seen[ref.Group] = true
			passed[ref.Group] = true
		}
		score := r.AuditScore(ref.ID)
		if score == nil || *score != 1 {
			passed[ref.Group] = false
		}
	}

	return comparison.BadgeStatus{
		FastAndReliable: passed[groupFastReliable],
		Installable:     passed[groupInstallable],
		Optimized:       passed[groupOptimized],
	}
}

// BadgeDiffer labels a facet by whether it was gained or lost.
type BadgeDiffer struct{}

// ClassifyBadgeDiff implements comparison.BadgeDiffClassifier.
func (BadgeDiffer) ClassifyBadgeDiff(base, compare comparison.BadgeStatus, facet comparison.Facet) comparison.DiffLabel {
	before, after := base.Get(facet), compare.Get(facet)
	switch {
	case before == after:
		return comparison.LabelNeutral
	case after:
		return comparison.LabelImprovement
	default:
		return comparison.LabelRegression
	}
}

// NewEngine returns a comparison engine wired with the default policies.
func NewEngine() *comparison.Engine {
	return comparison.NewEngine(ScoreLabeler{}, BadgeExtractor{}, BadgeDiffer{})
}
