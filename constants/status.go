package constants

// JobStatus is the canonical status for a parse job.
type JobStatus string

// Stable values (store these exact strings).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // accepted, waiting for a worker
	JobStatusRunning   JobStatus = "RUNNING"   // pipeline in progress
	JobStatusCompleted JobStatus = "COMPLETED" // terminal success, result stored
	JobStatusBlocked   JobStatus = "BLOCKED"   // terminal: safety screener rejected the document
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)

// Terminal reports whether s is a terminal status.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusBlocked, JobStatusFailed:
		return true
	}
	return false
}
