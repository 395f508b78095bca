package experience

import "fmt"

// UnparseableDateError reports a work history date that could not be read.
// It is logged and the job counts as zero duration.
type UnparseableDateError struct {
	JobIndex int
	Field    string
	Value    string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable %s %q for job %d", e.Field, e.Value, e.JobIndex)
}
