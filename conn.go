package main

import (
	"context"
	"database/sql"
)

// connections holds the three live connections a run uses: small
// introspective queries against the source, one streaming cursor over source
// rows, and all destination writes. Each is pinned to a single underlying
// connection so session state (FOREIGN_KEY_CHECKS) sticks for the whole run.
type connections struct {
	srcMeta   *sql.DB
	srcStream *sql.DB
	dstWrite  *sql.DB
}

// openConnections opens and pings all three connections. On any failure it
// closes whatever was already opened and returns a ConnectError; connection
// failures are fatal to the run, there is no retry.
func openConnections(ctx context.Context, source, destination Endpoint) (*connections, error) {
	c := &connections{}

	var err error
	if c.srcMeta, err = openEndpoint(ctx, source, "source metadata"); err != nil {
		return nil, err
	}
	if c.srcStream, err = openEndpoint(ctx, source, "source streaming read"); err != nil {
		c.Close()
		return nil, err
	}
	if c.dstWrite, err = openEndpoint(ctx, destination, "destination write"); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func openEndpoint(ctx context.Context, ep Endpoint, role string) (*sql.DB, error) {
	db, err := sql.Open("mysql", ep.DSN())
	if err != nil {
		return nil, &ConnectError{Role: role, Addr: ep.Addr(), Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectError{Role: role, Addr: ep.Addr(), Err: err}
	}
	return db, nil
}

// Close releases every open connection. Safe to call with partially opened
// state; runs unconditionally at the end of a run, success or failure.
func (c *connections) Close() {
	if c.srcMeta != nil {
		c.srcMeta.Close()
	}
	if c.srcStream != nil {
		c.srcStream.Close()
	}
	if c.dstWrite != nil {
		c.dstWrite.Close()
	}
}
