package main

import "fmt"

// Every error type below is fatal to the run: siteferry never retries,
// never skips a table, and never downgrades a failure to a warning. A
// half-migrated destination is worse than a clearly failed run.

// ConnectError reports a failed open or ping of one of the three
// connections (source metadata, source streaming read, destination write).
type ConnectError struct {
	Role string // "source metadata", "source streaming read", "destination write"
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s (%s): %v", e.Role, e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ResetError reports a failure to enumerate or drop destination tables, or
// to toggle foreign-key checks for the destination-writing phase.
type ResetError struct {
	Err error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset destination: %v", e.Err)
}

func (e *ResetError) Unwrap() error { return e.Err }

// TableCreateError reports that a table's creation statement could not be
// captured from the source or was rejected by the destination.
type TableCreateError struct {
	Table string
	Err   error
}

func (e *TableCreateError) Error() string {
	return fmt.Sprintf("create table %s: %v", e.Table, e.Err)
}

func (e *TableCreateError) Unwrap() error { return e.Err }

// CopyError reports a read or write failure while streaming a table's rows.
type CopyError struct {
	Table string
	Err   error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy table %s: %v", e.Table, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// RewriteError reports a failed post-migration domain rewrite.
type RewriteError struct {
	Table string
	Err   error
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("rewrite domain in %s: %v", e.Table, e.Err)
}

func (e *RewriteError) Unwrap() error { return e.Err }
