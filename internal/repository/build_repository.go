package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/lhci-compare/internal/repository/models"
)

// ErrNotFound is returned when a requested build or run does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed-width UTC so created_at compares correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		branch TEXT NOT NULL,
		hash TEXT NOT NULL,
		ancestor_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_project_branch ON builds (project_id, branch, created_at);
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		url TEXT NOT NULL,
		representative INTEGER NOT NULL DEFAULT 0,
		lhr TEXT NOT NULL,
		FOREIGN KEY (build_id) REFERENCES builds(id)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_build_url ON runs (build_id, url);
`

type BuildRepository struct {
	db *sql.DB
}

func NewBuildRepository(db *sql.DB) *BuildRepository {
	return &BuildRepository{db: db}
}

// Migrate creates the builds and runs tables when they do not exist.
func (s *BuildRepository) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateBuild inserts a build.
func (s *BuildRepository) CreateBuild(ctx context.Context, b models.Build) error {
	const query = `
		INSERT INTO builds (id, project_id, branch, hash, ancestor_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.ProjectID, b.Branch, b.Hash, b.AncestorHash, b.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("exec CreateBuild: %w", err)
	}
	return nil
}

// CreateRun inserts a run and returns its id.
func (s *BuildRepository) CreateRun(ctx context.Context, r models.Run) (int64, error) {
	const query = `
		INSERT INTO runs (build_id, url, representative, lhr)
		VALUES (?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query, r.BuildID, r.URL, r.Representative, string(r.Report))
	if err != nil {
		return 0, fmt.Errorf("exec CreateRun: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateRun last insert id: %w", err)
	}
	return id, nil
}

// GetBuild fetches a build by id.
func (s *BuildRepository) GetBuild(ctx context.Context, id string) (models.Build, error) {
	const query = `
		SELECT id, project_id, branch, hash, ancestor_hash, created_at
		FROM builds
		WHERE id = ?
	`
	b, err := scanBuild(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Build{}, fmt.Errorf("query GetBuild: %w", err)
	}
	return b, nil
}

// FindAncestorBuild resolves the build a given build should be compared against:
// the base-branch build whose hash matches the ancestor hash, or else the
// latest base-branch build created before it.
func (s *BuildRepository) FindAncestorBuild(ctx context.Context, build models.Build, baseBranch string) (models.Build, error) {
	if build.AncestorHash != "" {
		const byHash = `
			SELECT id, project_id, branch, hash, ancestor_hash, created_at
			FROM builds
			WHERE project_id = ? AND branch = ? AND hash = ? AND id <> ?
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		`
		b, err := scanBuild(s.db.QueryRowContext(ctx, byHash, build.ProjectID, baseBranch, build.AncestorHash, build.ID))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return models.Build{}, fmt.Errorf("query FindAncestorBuild by hash: %w", err)
		}
	}

	const previous = `
		SELECT id, project_id, branch, hash, ancestor_hash, created_at
		FROM builds
		WHERE project_id = ? AND branch = ? AND created_at < ? AND id <> ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	b, err := scanBuild(s.db.QueryRowContext(ctx, previous,
		build.ProjectID, baseBranch, build.CreatedAt.UTC().Format(timeLayout), build.ID))
	if err != nil {
		return models.Build{}, fmt.Errorf("query FindAncestorBuild: %w", err)
	}
	return b, nil
}

// GetRepresentativeReport returns the run to compare for a build and URL.
// Representative runs win over others; an empty url picks the first URL alphabetically.
func (s *BuildRepository) GetRepresentativeReport(ctx context.Context, buildID, url string) (models.Run, error) {
	const query = `
		SELECT id, build_id, url, representative, lhr
		FROM runs
		WHERE build_id = ? AND (? = '' OR url = ?)
		ORDER BY representative DESC, url ASC, id ASC
		LIMIT 1
	`

	var r models.Run
	err := s.db.QueryRowContext(ctx, query, buildID, url, url).
		Scan(&r.ID, &r.BuildID, &r.URL, &r.Representative, &r.Report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Run{}, fmt.Errorf("query GetRepresentativeReport: %w", ErrNotFound)
		}
		return models.Run{}, fmt.Errorf("query GetRepresentativeReport: %w", err)
	}
	return r, nil
}

func scanBuild(row *sql.Row) (models.Build, error) {
	var (
		b         models.Build
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.ProjectID, &b.Branch, &b.Hash, &b.AncestorHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Build{}, ErrNotFound
		}
		return models.Build{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Build{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	b.CreatedAt = t
	return b, nil
}
