// Package diff holds the default classification policies used by the
// comparison engine: score diff labels, PWA badge extraction and badge diffs.
package diff

import "github.com/godilite/lhci-compare/internal/comparison"

// ScoreLabeler labels score diffs by the sign of the change. It applies no
// tolerance: any non-zero change is reported.
type ScoreLabeler struct{}

// ClassifyScoreDiff implements comparison.ScoreDiffClassifier.
func (ScoreLabeler) ClassifyScoreDiff(d comparison.ScoreDiff) comparison.DiffLabel {
	if d.BaseValue == nil || d.CompareValue == nil {
		return comparison.LabelNeutral
	}
	switch delta := *d.CompareValue - *d.BaseValue; {
	case delta > 0:
		return comparison.LabelImprovement
	case delta < 0:
		return comparison.LabelRegression
	default:
		return comparison.LabelNeutral
	}
}
