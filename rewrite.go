package main

import (
	"context"
	"database/sql"
	"fmt"
)

// domainColumn is the storefront-domain column by convention. The table name
// is configurable (it defaults to sales_channel_domain), the column is not.
const domainColumn = "url"

// rewriteDomain replaces every occurrence of oldDomain with newDomain in the
// storefront-domain column, touching only rows that currently contain
// oldDomain as a substring. Both domains come from operator config and are
// passed as query parameters, never spliced into the SQL. Zero matched rows
// is success; running the rewrite twice changes nothing the second time.
func rewriteDomain(ctx context.Context, db *sql.DB, table, oldDomain, newDomain string) (int64, error) {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = REPLACE(%s, ?, ?) WHERE INSTR(%s, ?) > 0",
		mysqlIdent(table), mysqlIdent(domainColumn), mysqlIdent(domainColumn), mysqlIdent(domainColumn),
	)

	res, err := db.ExecContext(ctx, query, oldDomain, newDomain, oldDomain)
	if err != nil {
		return 0, &RewriteError{Table: table, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &RewriteError{Table: table, Err: err}
	}
	return n, nil
}
