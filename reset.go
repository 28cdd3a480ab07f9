package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// resetDestination drops every table in the destination database so the copy
// starts from a clean slate. Idempotent: an already-empty destination costs
// one enumeration query and nothing else. The caller has already suspended
// foreign-key checks on this connection for the whole writing phase, so drop
// order does not matter.
func resetDestination(ctx context.Context, db *sql.DB, dbName string) error {
	tables, err := listTables(ctx, db, dbName)
	if err != nil {
		return &ResetError{Err: fmt.Errorf("enumerate destination tables: %w", err)}
	}
	if len(tables) == 0 {
		log.Printf("  destination already empty")
		return nil
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+mysqlIdent(table)); err != nil {
			return &ResetError{Err: fmt.Errorf("drop %s: %w", table, err)}
		}
	}
	log.Printf("  dropped %d tables", len(tables))
	return nil
}
