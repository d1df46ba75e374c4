package comparison

// ScoreDiffClassifier labels a numeric score diff.
type ScoreDiffClassifier interface {
	ClassifyScoreDiff(diff ScoreDiff) DiffLabel
}

// BadgeStatusExtractor computes the PWA badge status of a report.
type BadgeStatusExtractor interface {
	ExtractBadgeStatus(report *Report) BadgeStatus
}

// BadgeDiffClassifier labels the change of one badge facet between two statuses.
type BadgeDiffClassifier interface {
	ClassifyBadgeDiff(base, compare BadgeStatus, facet Facet) DiffLabel
}

type ScoreDiffClassifierFunc func(diff ScoreDiff) DiffLabel

func (f ScoreDiffClassifierFunc) ClassifyScoreDiff(diff ScoreDiff) DiffLabel {
	return f(diff)
}

type BadgeStatusExtractorFunc func(report *Report) BadgeStatus

func (f BadgeStatusExtractorFunc) ExtractBadgeStatus(report *Report) BadgeStatus {
	return f(report)
}

type BadgeDiffClassifierFunc func(base, compare BadgeStatus, facet Facet) DiffLabel

func (f BadgeDiffClassifierFunc) ClassifyBadgeDiff(base, compare BadgeStatus, facet Facet) DiffLabel {
	return f(base, compare, facet)
}
