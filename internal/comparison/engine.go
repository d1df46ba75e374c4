package comparison

import (
	"math"
	"sort"
)

const pwaTitle = "PWA"

// Engine turns a compare report and an optional base report into ordered
// per-category view models. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	scoreDiffs ScoreDiffClassifier
	badges     BadgeStatusExtractor
	badgeDiffs BadgeDiffClassifier
}

// NewEngine creates an Engine from its classification collaborators.
func NewEngine(scoreDiffs ScoreDiffClassifier, badges BadgeStatusExtractor, badgeDiffs BadgeDiffClassifier) *Engine {
	if scoreDiffs == nil || badges == nil || badgeDiffs == nil {
		panic("comparison collaborators must not be nil")
	}
	return &Engine{
		scoreDiffs: scoreDiffs,
		badges:     badges,
		badgeDiffs: badgeDiffs,
	}
}

// Compare builds the view models for every category of compareReport. A nil
// baseReport means no comparison was requested; items then carry no diff.
func (e *Engine) Compare(compareReport, baseReport *Report) ([]CategoryViewModel, error) {
	if compareReport == nil {
		return []CategoryViewModel{}, nil
	}
	if err := compareReport.Validate(); err != nil {
		return nil, err
	}

	ids := DisplayOrder(compareReport.CategoryIDs())
	items := make([]CategoryViewModel, 0, len(ids))
	for _, id := range ids {
		if id == PWACategoryID {
			items = append(items, e.pwaItem(compareReport, baseReport))
			continue
		}
		category, _ := compareReport.Category(id)
		items = append(items, e.standardItem(id, category, baseReport))
	}
	return items, nil
}

func (e *Engine) standardItem(id string, category Category, baseReport *Report) CategoryViewModel {
	item := CategoryViewModel{
		Kind:       KindStandard,
		CategoryID: id,
		Title:      category.Title,
		Score:      category.Score,
	}

	baseCategory, ok := baseReport.Category(id)
	if !ok || baseCategory.Score == nil || category.Score == nil {
		return item
	}

	diff := ScoreDiff{
		AuditID:      "",
		Type:         DiffTypeScore,
		BaseValue:    baseCategory.Score,
		CompareValue: category.Score,
	}
	delta := ScoreDelta(*baseCategory.Score, *category.Score)

	item.Diff = &diff
	item.Label = e.scoreDiffs.ClassifyScoreDiff(diff)
	item.Delta = &delta
	return item
}

func (e *Engine) pwaItem(compareReport, baseReport *Report) CategoryViewModel {
	status := e.badges.ExtractBadgeStatus(compareReport)
	item := CategoryViewModel{
		Kind:       KindPWA,
		CategoryID: PWACategoryID,
		Title:      pwaTitle,
		Status:     &status,
	}
	if baseReport == nil {
		return item
	}

	baseStatus := e.badges.ExtractBadgeStatus(baseReport)
	bundle := make(BadgeDiffBundle, len(Facets))
	for _, facet := range Facets {
		label := e.badgeDiffs.ClassifyBadgeDiff(baseStatus, status, facet)
		if label != LabelNeutral {
			bundle[facet] = label
		}
	}
	item.DiffBundle = bundle
	item.AllNeutral = len(bundle) == 0
	return item
}

// ScoreDelta is the signed percentage-point change between two [0,1] scores,
// rounded half away from zero.
func ScoreDelta(base, compare float64) int {
	return int(math.Round(100 * (compare - base)))
}

// DisplayOrder sorts category ids by (isPWA, original index): the PWA
// category moves to the end and all others keep their relative order.
func DisplayOrder(ids []string) []string {
	type key struct {
		id    string
		isPWA bool
		index int
	}
	keys := make([]key, len(ids))
	for i, id := range ids {
		keys[i] = key{id: id, isPWA: id == PWACategoryID, index: i}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].isPWA != keys[j].isPWA {
			return !keys[i].isPWA
		}
		return keys[i].index < keys[j].index
	})

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.id
	}
	return out
}
