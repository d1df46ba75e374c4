package comparison

import (
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrMalformedReport is returned when a required report lacks its categories mapping.
var ErrMalformedReport = errors.New("malformed report")

// Report is a single audit run. Categories keep the order in which they were
// declared in the source document.
type Report struct {
	RequestedURL      string                                 `json:"requestedUrl,omitempty"`
	FinalURL          string                                 `json:"finalUrl,omitempty"`
	LighthouseVersion string                                 `json:"lighthouseVersion,omitempty"`
	Categories        *orderedmap.OrderedMap[string, Category] `json:"categories"`
	Audits            map[string]Audit                       `json:"audits,omitempty"`
}

type Category struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Score     *float64   `json:"score"`
	AuditRefs []AuditRef `json:"auditRefs,omitempty"`
}

type AuditRef struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
	Group  string  `json:"group,omitempty"`
}

type Audit struct {
	ID    string   `json:"id"`
	Title string   `json:"title,omitempty"`
	Score *float64 `json:"score"`
}

// NewReport builds a report whose category order follows the arguments.
func NewReport(categories ...Category) *Report {
	m := orderedmap.New[string, Category](len(categories))
	for _, c := range categories {
		m.Set(c.ID, c)
	}
	return &Report{Categories: m, Audits: make(map[string]Audit)}
}

// ParseReport decodes a JSON report and validates that it carries categories.
func ParseReport(data []byte) (*Report, error) {
	r, err := DecodeReport(data)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// DecodeReport decodes a JSON report without requiring categories, as is
// acceptable for a base report.
func DecodeReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	return &r, nil
}

// Validate checks the caller contract of a compare report.
func (r *Report) Validate() error {
	if r.Categories == nil {
		return fmt.Errorf("%w: missing categories", ErrMalformedReport)
	}
	return nil
}

// Category looks up a category by id. A nil report or one without categories has none.
func (r *Report) Category(id string) (Category, bool) {
	if r == nil || r.Categories == nil {
		return Category{}, false
	}
	c, ok := r.Categories.Get(id)
	if ok && c.ID == "" {
		c.ID = id
	}
	return c, ok
}

// CategoryIDs returns the category ids in source order.
func (r *Report) CategoryIDs() []string {
	if r == nil || r.Categories == nil {
		return nil
	}
	ids := make([]string, 0, r.Categories.Len())
	for pair := r.Categories.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// AuditScore returns the score of an audit, or nil when absent or not scored.
func (r *Report) AuditScore(id string) *float64 {
	if r == nil {
		return nil
	}
	a, ok := r.Audits[id]
	if !ok {
		return nil
	}
	return a.Score
}
