package service

import "github.com/godilite/lhci-compare/internal/comparison"

type CompareRequest struct {
	CompareBuildID string
	BaseBuildID    string
	URL            string
}

// BuildComparison is the result of comparing two builds for one URL.
// BaseBuildID is empty when no base build could be used.
type BuildComparison struct {
	CompareBuildID string                         `json:"compareBuildId"`
	BaseBuildID    string                         `json:"baseBuildId,omitempty"`
	URL            string                         `json:"url"`
	Categories     []comparison.CategoryViewModel `json:"categories"`
}
