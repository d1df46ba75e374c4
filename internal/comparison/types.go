package comparison

import "encoding/json"

// PWACategoryID is the category rendered as badges instead of a numeric score.
const PWACategoryID = "pwa"

// DiffLabel is the qualitative classification of a diff.
type DiffLabel string

const (
	LabelImprovement DiffLabel = "improvement"
	LabelRegression  DiffLabel = "regression"
	LabelNeutral     DiffLabel = "neutral"
)

// DiffType identifies what a ScoreDiff compares. Only category scores are compared here.
type DiffType string

const DiffTypeScore DiffType = "score"

// ScoreDiff is one comparable delta between a base and a compare value.
type ScoreDiff struct {
	AuditID      string   `json:"auditId"`
	Type         DiffType `json:"type"`
	BaseValue    *float64 `json:"baseValue"`
	CompareValue *float64 `json:"compareValue"`
}

// Facet names one of the three PWA badge checks.
type Facet string

const (
	FacetFastAndReliable Facet = "fastAndReliable"
	FacetInstallable     Facet = "installable"
	FacetOptimized       Facet = "optimized"
)

// Facets lists the badge facets in display order.
var Facets = []Facet{FacetFastAndReliable, FacetInstallable, FacetOptimized}

// BadgeStatus is the composite PWA badge state of a single report.
type BadgeStatus struct {
	FastAndReliable bool `json:"fastAndReliable"`
	Installable     bool `json:"installable"`
	Optimized       bool `json:"optimized"`
}

// Get returns the value of a single facet.
func (s BadgeStatus) Get(f Facet) bool {
	switch f {
	case FacetFastAndReliable:
		return s.FastAndReliable
	case FacetInstallable:
		return s.Installable
	case FacetOptimized:
		return s.Optimized
	}
	return false
}

// BadgeDiffBundle holds the non-neutral facet diffs between two badge statuses.
// An empty bundle means every facet was neutral.
type BadgeDiffBundle map[Facet]DiffLabel

// ItemKind tags which half of the CategoryViewModel union is populated.
type ItemKind string

const (
	KindStandard ItemKind = "standard"
	KindPWA      ItemKind = "pwa"
)

// CategoryViewModel is one rendered category. Standard items carry Score, Diff,
// Label and Delta; PWA items carry Status, DiffBundle and AllNeutral. Diff data
// is nil when no base is available.
type CategoryViewModel struct {
	Kind       ItemKind `json:"kind"`
	CategoryID string   `json:"categoryId"`
	Title      string   `json:"title"`

	Score *float64   `json:"score,omitempty"`
	Diff  *ScoreDiff `json:"diff,omitempty"`
	Label DiffLabel  `json:"label,omitempty"`
	Delta *int       `json:"delta,omitempty"`

	Status     *BadgeStatus    `json:"status,omitempty"`
	DiffBundle BadgeDiffBundle `json:"diffBundle"`
	AllNeutral bool            `json:"allNeutral,omitempty"`
}

// IsPWA reports whether the item is the badge-rendered PWA category.
func (v CategoryViewModel) IsPWA() bool {
	return v.Kind == KindPWA
}

// HasDiff reports whether a base comparison was available for the item.
func (v CategoryViewModel) HasDiff() bool {
	if v.IsPWA() {
		return v.DiffBundle != nil || v.AllNeutral
	}
	return v.Diff != nil
}

// MarshalJSON omits diffBundle on standard items. PWA items always carry it:
// null without a base, {} when every facet is neutral.
func (v CategoryViewModel) MarshalJSON() ([]byte, error) {
	type alias CategoryViewModel
	if v.IsPWA() {
		return json.Marshal(alias(v))
	}
	return json.Marshal(struct {
		alias
		DiffBundle BadgeDiffBundle `json:"diffBundle,omitempty"`
	}{alias: alias(v)})
}
