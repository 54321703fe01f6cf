//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package envstore persists per-application deployment environments in
// SQLite.
//
// An environment ties an application from the catalog to a named deployment
// target ("staging", "production"), an optional GitHub project slug for
// workflow-status polling, and a free-form JSON configuration document. The
// store never persists ownership snapshots; those live exclusively in the
// resolver's in-memory cache.
//
// The store opens a single-writer connection pool with WAL journaling, the
// recommended configuration for SQLite under a concurrent Go server, and
// applies its embedded goose migrations on open.
package envstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver registration
	"github.com/pkg/errors"

	"github.com/stackport/ownerengine/internal/logging"
)

var logger = logging.GetLogger("ownerengine.envstore")

const agent = "envstore"

// Environment is one named deployment target of an application.
type Environment struct {
	ID                int64           `json:"id"`
	Application       string          `json:"application"`
	Name              string          `json:"name"`
	GithubProjectSlug string          `json:"githubProjectSlug,omitempty"`
	Config            json.RawMessage `json:"config,omitempty"`
	GithubStatus      string          `json:"githubStatus,omitempty"`
	GithubStatusAt    *time.Time      `json:"githubStatusAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Store provides CRUD access to environment records.
//
// All methods are safe for concurrent use; writes serialize over a
// single-connection pool.
type Store struct {
	db *sql.DB
}

// buildDSN constructs a SQLite DSN with hardened parameters: WAL journal,
// busy timeout, NORMAL synchronous, foreign keys, and an immediate write
// transaction lock.
func buildDSN(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")

	return path + "?" + params.Encode()
}

// Open opens (creating if necessary) the environment store at the given
// SQLite file path and applies any pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", buildDSN(path))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// Single writer avoids SQLITE_BUSY races under concurrent requests.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Infof(agent, "Open", "environment store ready at %s", path)

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeConfig(config json.RawMessage) string {
	if len(config) == 0 {
		return "{}"
	}
	return string(config)
}

// Create inserts a new environment and fills in its assigned ID and
// timestamps. The (application, name) pair must be unique.
func (s *Store) Create(ctx context.Context, env *Environment) error {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO environments (application, name, github_project_slug, config, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		env.Application, env.Name, env.GithubProjectSlug, normalizeConfig(env.Config), now, now)
	if err != nil {
		return errors.Wrapf(err, "insert environment %s/%s", env.Application, env.Name)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "environment insert id")
	}

	env.ID = id
	env.CreatedAt = now
	env.UpdatedAt = now

	return nil
}

const selectColumns = `id, application, name, github_project_slug, config, github_status, github_status_at, created_at, updated_at`

func scanEnvironment(row interface{ Scan(...interface{}) error }) (*Environment, error) {
	var env Environment
	var config string
	var statusAt sql.NullTime

	err := row.Scan(&env.ID, &env.Application, &env.Name, &env.GithubProjectSlug,
		&config, &env.GithubStatus, &statusAt, &env.CreatedAt, &env.UpdatedAt)
	if err != nil {
		return nil, err
	}

	env.Config = json.RawMessage(config)
	if statusAt.Valid {
		t := statusAt.Time
		env.GithubStatusAt = &t
	}

	return &env, nil
}

// Get retrieves one environment by application and name. An environment
// that does not exist returns (nil, nil).
func (s *Store) Get(ctx context.Context, application, name string) (*Environment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM environments WHERE application = ? AND name = ?`,
		application, name)

	env, err := scanEnvironment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get environment %s/%s", application, name)
	}

	return env, nil
}

// List returns the environments for an application, or all environments when
// application is empty, ordered by application then name.
func (s *Store) List(ctx context.Context, application string) ([]Environment, error) {
	query := `SELECT ` + selectColumns + ` FROM environments`
	args := []interface{}{}
	if application != "" {
		query += ` WHERE application = ?`
		args = append(args, application)
	}
	query += ` ORDER BY application, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list environments")
	}
	defer func() { _ = rows.Close() }()

	environments := []Environment{}
	for rows.Next() {
		env, err := scanEnvironment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan environment")
		}
		environments = append(environments, *env)
	}

	return environments, rows.Err()
}

// ListIntegrated returns every environment that carries a GitHub project
// slug, the sweep set for the status poller.
func (s *Store) ListIntegrated(ctx context.Context) ([]Environment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM environments WHERE github_project_slug != '' ORDER BY application, name`)
	if err != nil {
		return nil, errors.Wrap(err, "list integrated environments")
	}
	defer func() { _ = rows.Close() }()

	environments := []Environment{}
	for rows.Next() {
		env, err := scanEnvironment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan environment")
		}
		environments = append(environments, *env)
	}

	return environments, rows.Err()
}

// Update rewrites the mutable fields of an environment identified by
// application and name. Returns (false, nil) when no such environment
// exists.
func (s *Store) Update(ctx context.Context, env *Environment) (bool, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE environments SET github_project_slug = ?, config = ?, updated_at = ?
		 WHERE application = ? AND name = ?`,
		env.GithubProjectSlug, normalizeConfig(env.Config), now, env.Application, env.Name)
	if err != nil {
		return false, errors.Wrapf(err, "update environment %s/%s", env.Application, env.Name)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "update environment rows")
	}

	env.UpdatedAt = now

	return affected > 0, nil
}

// Delete removes an environment. Returns (false, nil) when no such
// environment exists.
func (s *Store) Delete(ctx context.Context, application, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM environments WHERE application = ? AND name = ?`,
		application, name)
	if err != nil {
		return false, errors.Wrapf(err, "delete environment %s/%s", application, name)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete environment rows")
	}

	return affected > 0, nil
}

// RecordGithubStatus stamps the latest polled GitHub status on an
// environment.
func (s *Store) RecordGithubStatus(ctx context.Context, id int64, status string) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`UPDATE environments SET github_status = ?, github_status_at = ?, updated_at = ? WHERE id = ?`,
		status, now, now, id)
	if err != nil {
		return errors.Wrapf(err, "record github status for environment %d", id)
	}

	return nil
}
