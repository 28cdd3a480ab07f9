package main

// ReplicationJob carries the state of one migration run: where the data comes
// from, where it goes, and what has been copied so far. A job is not
// resumable; a failed run is restarted from the destination reset.
type ReplicationJob struct {
	Source      Endpoint
	Destination Endpoint
	Tables      []string
	RowCounts   map[string]int64
}

func newReplicationJob(source, destination Endpoint, tables []string) *ReplicationJob {
	return &ReplicationJob{
		Source:      source,
		Destination: destination,
		Tables:      tables,
		RowCounts:   make(map[string]int64, len(tables)),
	}
}

// TotalRows sums the per-table row counts copied so far.
func (j *ReplicationJob) TotalRows() int64 {
	var total int64
	for _, n := range j.RowCounts {
		total += n
	}
	return total
}

// SourceObjects lists schema objects the table copy does not cover.
// They are reported so the operator can migrate them manually.
type SourceObjects struct {
	Views    []string
	Routines []string // "FUNCTION name" / "PROCEDURE name"
	Triggers []string
}

func (o *SourceObjects) Empty() bool {
	return len(o.Views) == 0 && len(o.Routines) == 0 && len(o.Triggers) == 0
}
