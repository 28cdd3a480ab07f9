package main

import (
	"context"
	"database/sql"
	"strings"
)

// listTables returns the base tables of a database in a stable order.
// Views and other object types are excluded; no attempt is made to order by
// foreign-key dependency — the destination-writing phase runs with FK checks
// off, which makes any order safe to load.
func listTables(ctx context.Context, db *sql.DB, dbName string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`,
		dbName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// showCreateTable captures the authoritative creation statement for a table
// as the source server itself generates it. The statement is treated as an
// opaque string and replayed verbatim on the destination, never parsed.
func showCreateTable(ctx context.Context, db *sql.DB, table string) (string, error) {
	var name, ddl string
	err := db.QueryRowContext(ctx, "SHOW CREATE TABLE "+mysqlIdent(table)).Scan(&name, &ddl)
	if err != nil {
		return "", err
	}
	return ddl, nil
}

// mysqlIdent backtick-quotes an identifier, doubling embedded backticks.
func mysqlIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
