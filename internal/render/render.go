// Package render turns comparison view models into text for terminals and logs.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/godilite/lhci-compare/internal/comparison"
)

// BadgeDeltaPlaceholder is shown instead of per-facet badges when nothing changed.
const BadgeDeltaPlaceholder = "-"

var facetNames = map[comparison.Facet]string{
	comparison.FacetFastAndReliable: "fast-reliable",
	comparison.FacetInstallable:     "installable",
	comparison.FacetOptimized:       "optimized",
}

// FormatDelta prefixes non-negative deltas with "+"; negative ones keep their sign.
func FormatDelta(delta int) string {
	if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "+" + strconv.Itoa(delta)
}

// FormatScore renders a [0,1] score as a 0-100 integer, or "?" when absent.
func FormatScore(score *float64) string {
	if score == nil {
		return "?"
	}
	return strconv.Itoa(int(math.Round(*score * 100)))
}

// FormatBadges lists the earned facets of a badge status.
func FormatBadges(status *comparison.BadgeStatus) string {
	if status == nil {
		return ""
	}
	var earned []string
	for _, f := range comparison.Facets {
		if status.Get(f) {
			earned = append(earned, facetNames[f])
		}
	}
	if len(earned) == 0 {
		return "none"
	}
	return strings.Join(earned, ", ")
}

// FormatBadgeDelta renders the non-neutral facets of a PWA item, the
// placeholder when all were neutral, or "" when no base was compared.
func FormatBadgeDelta(item comparison.CategoryViewModel) string {
	if item.AllNeutral {
		return BadgeDeltaPlaceholder
	}
	if item.DiffBundle == nil {
		return ""
	}
	var parts []string
	for _, f := range comparison.Facets {
		label, ok := item.DiffBundle[f]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", facetSign(label), facetNames[f]))
	}
	return strings.Join(parts, ", ")
}

func facetSign(label comparison.DiffLabel) string {
	if label == comparison.LabelRegression {
		return "-"
	}
	return "+"
}

// Row is the text form of a single category.
type Row struct {
	Title string
	Score string
	Delta string
	Label string
}

// Rows converts view models to text rows, keeping their order.
func Rows(items []comparison.CategoryViewModel) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		if item.IsPWA() {
			rows = append(rows, Row{
				Title: item.Title,
				Score: FormatBadges(item.Status),
				Delta: FormatBadgeDelta(item),
			})
			continue
		}

		row := Row{Title: item.Title, Score: FormatScore(item.Score)}
		if item.Delta != nil {
			row.Delta = FormatDelta(*item.Delta)
			row.Label = string(item.Label)
		}
		rows = append(rows, row)
	}
	return rows
}

// Table writes the comparison as an ASCII table.
func Table(w io.Writer, items []comparison.CategoryViewModel) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Score", "Delta", "Change"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range Rows(items) {
		table.Append([]string{r.Title, r.Score, r.Delta, r.Label})
	}
	table.Render()
}
