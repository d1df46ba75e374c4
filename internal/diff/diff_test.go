package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/godilite/lhci-compare/internal/comparison"
)

func ptr(v float64) *float64 { return &v }

func TestScoreLabeler(t *testing.T) {
	tests := []struct {
		name          string
		base, compare *float64
		want          comparison.DiffLabel
	}{
		{"higher score", ptr(0.6), ptr(0.9), comparison.LabelImprovement},
		{"lower score", ptr(0.9), ptr(0.6), comparison.LabelRegression},
		{"equal score", ptr(0.75), ptr(0.75), comparison.LabelNeutral},
		{"missing base", nil, ptr(0.75), comparison.LabelNeutral},
		{"missing compare", ptr(0.75), nil, comparison.LabelNeutral},
		{"tiny change still reported", ptr(0.5), ptr(0.501), comparison.LabelImprovement},
	}

	var l ScoreLabeler
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.ClassifyScoreDiff(comparison.ScoreDiff{
				Type:         comparison.DiffTypeScore,
				BaseValue:    tt.base,
				CompareValue: tt.compare,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBadgeExtractor(t *testing.T) {
	newReport := func(scores map[string]*float64, refs ...comparison.AuditRef) *comparison.Report {
		r := comparison.NewReport(comparison.Category{ID: comparison.PWACategoryID, AuditRefs: refs})
		for id, s := range scores {
			r.Audits[id] = comparison.Audit{ID: id, Score: s}
		}
		return r
	}

	t.Run("all groups passing", func(t *testing.T) {
		r := newReport(
			map[string]*float64{"sw": ptr(1), "offline": ptr(1), "manifest": ptr(1), "viewport": ptr(1)},
			comparison.AuditRef{ID: "sw", Group: groupFastReliable},
			comparison.AuditRef{ID: "offline", Group: groupFastReliable},
			comparison.AuditRef{ID: "manifest", Group: groupInstallable},
			comparison.AuditRef{ID: "viewport", Group: groupOptimized},
			comparison.AuditRef{ID: "manual", Group: ""},
		)

		got := BadgeExtractor{}.ExtractBadgeStatus(r)
		assert.Equal(t, comparison.BadgeStatus{FastAndReliable: true, Installable: true, Optimized: true}, got)
	})

	t.Run("one failing audit fails its group only", func(t *testing.T) {
		r := newReport(
			map[string]*float64{"sw": ptr(1), "offline": ptr(0.5), "manifest": ptr(1)},
			comparison.AuditRef{ID: "sw", Group: groupFastReliable},
			comparison.AuditRef{ID: "offline", Group: groupFastReliable},
			comparison.AuditRef{ID: "manifest", Group: groupInstallable},
		)

		got := BadgeExtractor{}.ExtractBadgeStatus(r)
		assert.Equal(t, comparison.BadgeStatus{Installable: true}, got)
	})

	t.Run("unscored or missing audit fails its group", func(t *testing.T) {
		r := newReport(
			map[string]*float64{"manifest": nil},
			comparison.AuditRef{ID: "manifest", Group: groupInstallable},
			comparison.AuditRef{ID: "viewport", Group: groupOptimized},
		)

		assert.Equal(t, comparison.BadgeStatus{}, BadgeExtractor{}.ExtractBadgeStatus(r))
	})

	t.Run("group without audits is not earned", func(t *testing.T) {
		r := newReport(
			map[string]*float64{"sw": ptr(1), "manifest": ptr(1)},
			comparison.AuditRef{ID: "sw", Group: groupFastReliable},
			comparison.AuditRef{ID: "manifest", Group: groupInstallable},
		)

		got := BadgeExtractor{}.ExtractBadgeStatus(r)
		assert.Equal(t, comparison.BadgeStatus{FastAndReliable: true, Installable: true}, got)
		assert.Equal(t, comparison.BadgeStatus{}, BadgeExtractor{}.ExtractBadgeStatus(newReport(nil)))
	})

	t.Run("no pwa category", func(t *testing.T) {
		r := comparison.NewReport(comparison.Category{ID: "performance"})
		assert.Equal(t, comparison.BadgeStatus{}, BadgeExtractor{}.ExtractBadgeStatus(r))
		assert.Equal(t, comparison.BadgeStatus{}, BadgeExtractor{}.ExtractBadgeStatus(nil))
	})
}

func TestBadgeDiffer(t *testing.T) {
	on := comparison.BadgeStatus{FastAndReliable: true, Installable: true, Optimized: true}
	off := comparison.BadgeStatus{}

	var d BadgeDiffer
	for _, f := range comparison.Facets {
		assert.Equal(t, comparison.LabelNeutral, d.ClassifyBadgeDiff(on, on, f), f)
		assert.Equal(t, comparison.LabelNeutral, d.ClassifyBadgeDiff(off, off, f), f)
		assert.Equal(t, comparison.LabelImprovement, d.ClassifyBadgeDiff(off, on, f), f)
		assert.Equal(t, comparison.LabelRegression, d.ClassifyBadgeDiff(on, off, f), f)
	}

	mixed := comparison.BadgeStatus{Installable: true}
	assert.Equal(t, comparison.LabelImprovement, d.ClassifyBadgeDiff(off, mixed, comparison.FacetInstallable))
	assert.Equal(t, comparison.LabelNeutral, d.ClassifyBadgeDiff(off, mixed, comparison.FacetOptimized))
}
