package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// defaultBatchSize bounds how many rows sit in memory between the streaming
// read side and the destination write side. Each batch is one multi-row
// insert committed in its own transaction, so this also bounds transaction
// size for arbitrarily large tables.
const defaultBatchSize = 1000

// replicateAll copies every table of the job from source to destination in
// order: capture the creation statement, replay it verbatim, then stream all
// rows across in batches. The first failure aborts the run; later tables are
// never attempted.
func replicateAll(ctx context.Context, conns *connections, job *ReplicationJob, batchSize int, bar *progressBar) error {
	// Terminate the status line on failure too, so the error does not print
	// onto it.
	defer bar.Done()

	total := len(job.Tables)
	for i, table := range job.Tables {
		bar.Update(i+1, total, table)

		if err := replicateTable(ctx, conns, table, batchSize, job); err != nil {
			return err
		}
	}
	return nil
}

func replicateTable(ctx context.Context, conns *connections, table string, batchSize int, job *ReplicationJob) error {
	ddl, err := showCreateTable(ctx, conns.srcMeta, table)
	if err != nil {
		return &TableCreateError{Table: table, Err: fmt.Errorf("capture creation statement: %w", err)}
	}

	// DDL commits implicitly on MySQL; the table exists before any row moves.
	if _, err := conns.dstWrite.ExecContext(ctx, ddl); err != nil {
		return &TableCreateError{Table: table, Err: err}
	}

	n, err := copyTableRows(ctx, conns.srcStream, conns.dstWrite, table, batchSize)
	if err != nil {
		return &CopyError{Table: table, Err: err}
	}
	job.RowCounts[table] = n
	log.Printf("  %s: %d rows", table, n)
	return nil
}

// copyTableRows streams every row of a table from src into dst. The read
// side is a forward-only cursor that never materializes the full result; the
// write side applies fixed-size batches, one transaction per batch. Values
// round-trip as raw bytes with no interpretation, so anything the source
// stores arrives unchanged.
func copyTableRows(ctx context.Context, src, dst *sql.DB, table string, batchSize int) (int64, error) {
	rows, err := src.QueryContext(ctx, "SELECT * FROM "+mysqlIdent(table))
	if err != nil {
		return 0, fmt.Errorf("open source cursor: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("read column names: %w", err)
	}
	if len(columns) == 0 {
		return 0, nil
	}

	raw := make([]sql.RawBytes, len(columns))
	scan := make([]any, len(columns))
	for i := range raw {
		scan[i] = &raw[i]
	}

	var total int64
	batch := make([][]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := insertBatch(ctx, dst, table, columns, batch)
		if err != nil {
			return err
		}
		if n != int64(len(batch)) {
			return fmt.Errorf("batch wrote %d of %d rows", n, len(batch))
		}
		total += n
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return total, fmt.Errorf("scan source row: %w", err)
		}

		// RawBytes aliases the driver buffer and is invalid after the next
		// Next call, so each value is copied out. nil stays nil (NULL); an
		// empty non-NULL value must come out as a non-nil empty slice, or
		// the driver would bind it as NULL on the write side.
		values := make([]any, len(columns))
		for i, rb := range raw {
			if rb == nil {
				continue
			}
			c := make([]byte, len(rb))
			copy(c, rb)
			values[i] = c
		}

		batch = append(batch, values)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return total, fmt.Errorf("read source rows: %w", err)
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// insertBatch applies one batch as a single parameterized multi-row insert,
// committed in its own transaction.
func insertBatch(ctx context.Context, dst *sql.DB, table string, columns []string, batch [][]any) (int64, error) {
	query := buildInsert(table, columns, len(batch))

	args := make([]any, 0, len(batch)*len(columns))
	for _, row := range batch {
		args = append(args, row...)
	}

	tx, err := dst.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return n, nil
}

// buildInsert renders INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?), ...
func buildInsert(table string, columns []string, rowCount int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(mysqlIdent(table))
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(mysqlIdent(col))
	}
	b.WriteString(") VALUES ")

	placeholders := "(?" + strings.Repeat(", ?", len(columns)-1) + ")"
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
	}
	return b.String()
}
