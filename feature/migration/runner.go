package migration

import "regexp"

// Result summarizes one migration pass. OK, Skip and Err count processed
// units (players or stashes); Message carries a run-level failure such as a
// missing directory, in which case the counts are zero.
type Result struct {
	OK      int
	Skip    int
	Err     int
	Message string
}

// Failed reports whether the run aborted before processing anything.
func (r Result) Failed() bool {
	return r.Message != ""
}

var uuidName = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
