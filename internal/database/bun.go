package database

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bundebug"
)

// NewBunDB wraps an open Postgres connection with bun's query builder. In
// development every query is echoed with its timing; in production only
// failed queries are logged.
func NewBunDB(sqlDB *sql.DB, development bool) *bun.DB {
	db := bun.NewDB(sqlDB, pgdialect.New())
	if development {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	} else {
		db.AddQueryHook(bundebug.NewQueryHook())
	}
	return db
}
