package comparison_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/lhci-compare/internal/comparison"
	"github.com/godilite/lhci-compare/internal/diff"
)

func score(v float64) *float64 { return &v }

func category(id string, s *float64) comparison.Category {
	return comparison.Category{ID: id, Title: id + " title", Score: s}
}

// pwaCategory returns a pwa category plus the audits backing the requested badge status.
func pwaCategory(status comparison.BadgeStatus) (comparison.Category, map[string]comparison.Audit) {
	groups := []struct {
		group  string
		passed bool
	}{
		{"pwa-fast-reliable", status.FastAndReliable},
		{"pwa-installable", status.Installable},
		{"pwa-optimized", status.Optimized},
	}

	c := comparison.Category{ID: comparison.PWACategoryID, Title: "Progressive Web App"}
	audits := make(map[string]comparison.Audit)
	for _, g := range groups {
		id := g.group + "-audit"
		s := 0.0
		if g.passed {
			s = 1
		}
		c.AuditRefs = append(c.AuditRefs, comparison.AuditRef{ID: id, Weight: 1, Group: g.group})
		audits[id] = comparison.Audit{ID: id, Score: score(s)}
	}
	return c, audits
}

func reportWithPWA(status comparison.BadgeStatus, categories ...comparison.Category) *comparison.Report {
	pwa, audits := pwaCategory(status)
	r := comparison.NewReport(append(categories, pwa)...)
	for id, a := range audits {
		r.Audits[id] = a
	}
	return r
}

var allBadges = comparison.BadgeStatus{FastAndReliable: true, Installable: true, Optimized: true}

func TestNewEngine(t *testing.T) {
	t.Run("valid collaborators", func(t *testing.T) {
		assert.NotNil(t, diff.NewEngine())
	})

	t.Run("nil collaborator panics", func(t *testing.T) {
		assert.Panics(t, func() {
			comparison.NewEngine(nil, diff.BadgeExtractor{}, diff.BadgeDiffer{})
		})
		assert.Panics(t, func() {
			comparison.NewEngine(diff.ScoreLabeler{}, nil, diff.BadgeDiffer{})
		})
		assert.Panics(t, func() {
			comparison.NewEngine(diff.ScoreLabeler{}, diff.BadgeExtractor{}, nil)
		})
	})
}

func TestCompare_Scenarios(t *testing.T) {
	engine := diff.NewEngine()

	t.Run("improved performance with unchanged badges", func(t *testing.T) {
		compare := reportWithPWA(allBadges, category("performance", score(0.9)))
		base := reportWithPWA(allBadges, category("performance", score(0.6)))

		items, err := engine.Compare(compare, base)
		require.NoError(t, err)
		require.Len(t, items, 2)

		perf := items[0]
		assert.Equal(t, "performance", perf.CategoryID)
		require.NotNil(t, perf.Delta)
		assert.Equal(t, 30, *perf.Delta)
		assert.Equal(t, comparison.LabelImprovement, perf.Label)
		require.NotNil(t, perf.Diff)
		assert.Equal(t, comparison.DiffTypeScore, perf.Diff.Type)
		assert.Equal(t, "", perf.Diff.AuditID)
		assert.Equal(t, 0.6, *perf.Diff.BaseValue)
		assert.Equal(t, 0.9, *perf.Diff.CompareValue)

		pwa := items[1]
		assert.True(t, pwa.IsPWA())
		assert.Equal(t, "PWA", pwa.Title)
		assert.True(t, pwa.AllNeutral)
		assert.Empty(t, pwa.DiffBundle)
		assert.True(t, pwa.HasDiff())
		assert.Equal(t, allBadges, *pwa.Status)
	})

	t.Run("compare report only", func(t *testing.T) {
		compare := comparison.NewReport(
			category("performance", score(0.9)),
			category(comparison.PWACategoryID, nil),
			category("seo", score(0.8)),
		)

		items, err := engine.Compare(compare, nil)
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.Equal(t, []string{"performance", "seo", "pwa"}, ids(items))
		for _, item := range items {
			assert.False(t, item.HasDiff(), item.CategoryID)
			assert.Nil(t, item.Diff)
			assert.Nil(t, item.Delta)
			assert.Empty(t, item.Label)
			assert.Nil(t, item.DiffBundle)
			assert.False(t, item.AllNeutral)
		}
		require.NotNil(t, items[2].Status)
		assert.Equal(t, comparison.BadgeStatus{}, *items[2].Status)
	})
}

func TestCompare_StandardItems(t *testing.T) {
	engine := diff.NewEngine()

	t.Run("equal scores are neutral with zero delta", func(t *testing.T) {
		for _, s := range []float64{0, 0.33, 0.5, 0.99, 1} {
			compare := comparison.NewReport(category("a11y", score(s)))
			base := comparison.NewReport(category("a11y", score(s)))

			items, err := engine.Compare(compare, base)
			require.NoError(t, err)
			require.NotNil(t, items[0].Delta)
			assert.Equal(t, 0, *items[0].Delta)
			assert.Equal(t, comparison.LabelNeutral, items[0].Label)
		}
	})

	t.Run("delta sign", func(t *testing.T) {
		up, err := engine.Compare(
			comparison.NewReport(category("seo", score(0.75))),
			comparison.NewReport(category("seo", score(0.50))),
		)
		require.NoError(t, err)
		assert.Equal(t, 25, *up[0].Delta)
		assert.Equal(t, comparison.LabelImprovement, up[0].Label)

		down, err := engine.Compare(
			comparison.NewReport(category("seo", score(0.50))),
			comparison.NewReport(category("seo", score(0.75))),
		)
		require.NoError(t, err)
		assert.Equal(t, -25, *down[0].Delta)
		assert.Equal(t, comparison.LabelRegression, down[0].Label)
	})

	t.Run("category absent from base has no diff", func(t *testing.T) {
		compare := comparison.NewReport(category("performance", score(0.9)), category("seo", score(0.7)))
		base := comparison.NewReport(category("performance", score(0.8)))

		items, err := engine.Compare(compare, base)
		require.NoError(t, err)

		assert.True(t, items[0].HasDiff())
		assert.Equal(t, 10, *items[0].Delta)

		assert.Equal(t, "seo", items[1].CategoryID)
		assert.False(t, items[1].HasDiff())
		assert.Nil(t, items[1].Delta)
		assert.Empty(t, items[1].Label)
		assert.Equal(t, 0.7, *items[1].Score)
	})

	t.Run("null score degrades to no diff", func(t *testing.T) {
		items, err := engine.Compare(
			comparison.NewReport(category("performance", nil), category("seo", score(0.7))),
			comparison.NewReport(category("performance", score(0.5)), category("seo", nil)),
		)
		require.NoError(t, err)
		for _, item := range items {
			assert.False(t, item.HasDiff(), item.CategoryID)
			assert.Nil(t, item.Delta)
		}
	})

	t.Run("base without categories degrades to no diff", func(t *testing.T) {
		items, err := engine.Compare(
			comparison.NewReport(category("performance", score(0.5))),
			&comparison.Report{},
		)
		require.NoError(t, err)
		assert.False(t, items[0].HasDiff())
	})

	t.Run("classifier receives the category diff", func(t *testing.T) {
		var got []comparison.ScoreDiff
		e := comparison.NewEngine(
			comparison.ScoreDiffClassifierFunc(func(d comparison.ScoreDiff) comparison.DiffLabel {
				got = append(got, d)
				return comparison.LabelRegression
			}),
			diff.BadgeExtractor{},
			diff.BadgeDiffer{},
		)

		items, err := e.Compare(
			comparison.NewReport(category("performance", score(0.42))),
			comparison.NewReport(category("performance", score(0.40))),
		)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, comparison.DiffTypeScore, got[0].Type)
		assert.Equal(t, 0.40, *got[0].BaseValue)
		assert.Equal(t, 0.42, *got[0].CompareValue)
		assert.Equal(t, comparison.LabelRegression, items[0].Label)
		assert.Equal(t, 2, *items[0].Delta)
	})
}

func TestCompare_PWAItem(t *testing.T) {
	engine := diff.NewEngine()

	t.Run("only non-neutral facets are kept", func(t *testing.T) {
		base := reportWithPWA(comparison.BadgeStatus{FastAndReliable: true, Installable: false, Optimized: true})
		compare := reportWithPWA(comparison.BadgeStatus{FastAndReliable: true, Installable: true, Optimized: false})

		items, err := engine.Compare(compare, base)
		require.NoError(t, err)
		require.Len(t, items, 1)

		pwa := items[0]
		assert.False(t, pwa.AllNeutral)
		assert.Equal(t, comparison.BadgeDiffBundle{
			comparison.FacetInstallable: comparison.LabelImprovement,
			comparison.FacetOptimized:   comparison.LabelRegression,
		}, pwa.DiffBundle)
	})

	t.Run("badge classifier runs once per facet", func(t *testing.T) {
		calls := make(map[comparison.Facet]int)
		e := comparison.NewEngine(
			diff.ScoreLabeler{},
			diff.BadgeExtractor{},
			comparison.BadgeDiffClassifierFunc(func(base, compare comparison.BadgeStatus, f comparison.Facet) comparison.DiffLabel {
				calls[f]++
				return comparison.LabelNeutral
			}),
		)

		_, err := e.Compare(reportWithPWA(allBadges), reportWithPWA(allBadges))
		require.NoError(t, err)
		assert.Equal(t, map[comparison.Facet]int{
			comparison.FacetFastAndReliable: 1,
			comparison.FacetInstallable:     1,
			comparison.FacetOptimized:       1,
		}, calls)
	})

	t.Run("no base skips base extraction", func(t *testing.T) {
		var extracted int
		e := comparison.NewEngine(
			diff.ScoreLabeler{},
			comparison.BadgeStatusExtractorFunc(func(r *comparison.Report) comparison.BadgeStatus {
				extracted++
				return allBadges
			}),
			diff.BadgeDiffer{},
		)

		items, err := e.Compare(reportWithPWA(allBadges), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, extracted)
		assert.False(t, items[0].HasDiff())
	})
}

func TestCompare_Ordering(t *testing.T) {
	engine := diff.NewEngine()
	others := []string{"performance", "accessibility", "best-practices", "seo"}

	for k := 0; k <= len(others); k++ {
		t.Run(fmt.Sprintf("pwa at index %d", k), func(t *testing.T) {
			var categories []comparison.Category
			for i, id := range others {
				if i == k {
					categories = append(categories, category(comparison.PWACategoryID, nil))
				}
				categories = append(categories, category(id, score(0.5)))
			}
			if k == len(others) {
				categories = append(categories, category(comparison.PWACategoryID, nil))
			}

			items, err := engine.Compare(comparison.NewReport(categories...), nil)
			require.NoError(t, err)
			assert.Equal(t, append(append([]string{}, others...), comparison.PWACategoryID), ids(items))
		})
	}

	t.Run("no pwa keeps source order", func(t *testing.T) {
		items, err := engine.Compare(comparison.NewReport(
			category("seo", nil),
			category("performance", nil),
		), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"seo", "performance"}, ids(items))
	})
}

func TestCompare_Contract(t *testing.T) {
	engine := diff.NewEngine()

	t.Run("nil compare report yields empty sequence", func(t *testing.T) {
		items, err := engine.Compare(nil, comparison.NewReport(category("seo", score(1))))
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("compare report without categories fails fast", func(t *testing.T) {
		items, err := engine.Compare(&comparison.Report{}, nil)
		assert.ErrorIs(t, err, comparison.ErrMalformedReport)
		assert.Nil(t, items)
	})

	t.Run("repeated calls are structurally identical", func(t *testing.T) {
		compare := reportWithPWA(comparison.BadgeStatus{Installable: true}, category("performance", score(0.91)), category("seo", score(0.4)))
		base := reportWithPWA(allBadges, category("performance", score(0.87)))

		first, err := engine.Compare(compare, base)
		require.NoError(t, err)
		second, err := engine.Compare(compare, base)
		require.NoError(t, err)

		if d := cmp.Diff(first, second); d != "" {
			t.Errorf("Compare is not idempotent (-first +second):\n%s", d)
		}
	})
}

func TestScoreDelta(t *testing.T) {
	tests := []struct {
		base, compare float64
		want          int
	}{
		{0.6, 0.9, 30},
		{0.9, 0.6, -30},
		{0.5, 0.5, 0},
		{0.5, 0.505, 1},
		{0.505, 0.5, -1},
		{0, 1, 100},
		{1, 0, -100},
		{0.123, 0.126, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, comparison.ScoreDelta(tt.base, tt.compare), "%v -> %v", tt.base, tt.compare)
	}
}

func TestDisplayOrder(t *testing.T) {
	assert.Empty(t, comparison.DisplayOrder(nil))
	assert.Equal(t, []string{"pwa"}, comparison.DisplayOrder([]string{"pwa"}))
	assert.Equal(t,
		[]string{"b", "a", "c", "pwa"},
		comparison.DisplayOrder([]string{"b", "pwa", "a", "c"}),
	)
}

func ids(items []comparison.CategoryViewModel) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.CategoryID
	}
	return out
}
