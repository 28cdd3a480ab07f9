package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const maxStderrBytes = 4096

// runDumpPipe is the alternative migration path: mysqldump on the source
// piped straight into a mysql client on the destination. It fills the same
// contract as the software path (destination already reset, first error is
// fatal) but delegates all replication semantics to the external tools.
func runDumpPipe(ctx context.Context, source, destination Endpoint) error {
	dump := exec.CommandContext(ctx, "mysqldump",
		"--single-transaction",
		"--routines",
		"--triggers",
		"--host", source.Host,
		"--port", strconv.Itoa(source.Port),
		"--user", source.User,
		"--password="+source.Password,
		source.Database,
	)
	load := exec.CommandContext(ctx, "mysql",
		"--host", destination.Host,
		"--port", strconv.Itoa(destination.Port),
		"--user", destination.User,
		"--password="+destination.Password,
		destination.Database,
	)

	pipe, err := dump.StdoutPipe()
	if err != nil {
		return fmt.Errorf("dump pipe: %w", err)
	}
	load.Stdin = pipe

	var dumpErr, loadErr bytes.Buffer
	dump.Stderr = &dumpErr
	load.Stderr = &loadErr

	if err := load.Start(); err != nil {
		return fmt.Errorf("start mysql: %w", err)
	}
	if err := dump.Start(); err != nil {
		load.Process.Kill()
		load.Wait()
		return fmt.Errorf("start mysqldump: %w", err)
	}

	// Waiting on dump first closes the pipe, which ends the load side.
	if err := dump.Wait(); err != nil {
		load.Wait()
		return fmt.Errorf("mysqldump: %w%s", err, stderrTail(&dumpErr))
	}
	if err := load.Wait(); err != nil {
		return fmt.Errorf("mysql load: %w%s", err, stderrTail(&loadErr))
	}
	return nil
}

func stderrTail(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return ""
	}
	if len(s) > maxStderrBytes {
		s = s[len(s)-maxStderrBytes:]
	}
	return "\nstderr: " + s
}
