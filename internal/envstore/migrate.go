//
//  Copyright © Stackport Inc. All rights reserved.
//

package envstore

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// runMigrations executes all pending goose migrations against the store.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "goose set dialect")
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "goose up")
	}

	return nil
}
