package main

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 30

// progressBar renders a single evolving status line: a fixed-width
// proportional bar, the table fraction, and the current table name. Each
// update overwrites the previous line. Progress is purely observational —
// write errors are swallowed and can never fail the run.
type progressBar struct {
	out      io.Writer
	width    int
	lastLen  int
	rendered bool
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out, width: progressWidth}
}

func (p *progressBar) Update(current, total int, label string) {
	if total <= 0 {
		return
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}

	filled := p.width * current / total
	line := fmt.Sprintf("[%s%s] %d/%d %s",
		strings.Repeat("#", filled),
		strings.Repeat(".", p.width-filled),
		current, total, label,
	)

	// Pad with spaces so a shorter line fully overwrites a longer one.
	pad := ""
	if n := p.lastLen - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	p.lastLen = len(line)
	p.rendered = true

	fmt.Fprint(p.out, "\r"+line+pad)
}

// Done terminates the status line so subsequent output starts fresh.
func (p *progressBar) Done() {
	if !p.rendered {
		return
	}
	fmt.Fprintln(p.out)
	p.lastLen = 0
	p.rendered = false
}
