package models

import "time"

// Build is one CI build of a project.
type Build struct {
	ID           string
	ProjectID    string
	Branch       string
	Hash         string
	AncestorHash string
	CreatedAt    time.Time
}

// Run is a single audit of one URL within a build. Report holds the raw JSON report.
type Run struct {
	ID             int64
	BuildID        string
	URL            string
	Representative bool
	Report         []byte
}
