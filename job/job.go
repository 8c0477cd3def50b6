/* ippd - a library for building IPP printer servers
 *
 * Job: a single print job's state and attributes
 */

package job

import (
	"sync"
	"time"

	"github.com/openprint-go/ippd/ipp"
)

// State mirrors the job-state keyword values of RFC 8011.
type State int32

const (
	StatePending    State = 3
	StateProcessing State = 5
	StateCanceled   State = 7
	StateAborted    State = 8
	StateCompleted  State = 9
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StateCanceled:
		return "canceled"
	case StateAborted:
		return "aborted"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s is one of the states a job never leaves
// once reached.
func (s State) IsTerminal() bool {
	return s == StateCanceled || s == StateAborted || s == StateCompleted
}

// Job is one print job tracked by a Registry. SetState and
// AppendDocument write its fields under the Job's own lock, so a reader
// that may run alongside another request goes through Snapshot (or
// ToAttributes) rather than reading the fields directly.
type Job struct {
	mu sync.Mutex

	ID           int
	URI          string
	Name         string
	Originator   string
	Format       string
	State        State
	StateReasons []string
	CreatedAt    time.Time

	// Attrs holds the job's operation/job attributes as supplied at
	// Create-Job or Print-Job time, so Get-Job-Attributes can echo
	// them back without the service re-deriving them.
	Attrs ipp.Attributes

	// Document accumulates bytes delivered via Print-Job or
	// Send-Document. Nil until the first bytes arrive.
	Document []byte
}

// Snapshot returns a shallow copy of the job's mutable fields, safe to
// read after the lock is released.
func (j *Job) Snapshot() Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	copy := *j
	copy.mu = sync.Mutex{}
	return copy
}

// SetState transitions the job to state, recording reasons. A job
// already in a terminal state keeps it, and the call is a no-op. Other
// transitions are not checked; callers are responsible for only
// requesting legal ones.
func (j *Job) SetState(state State, reasons ...string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.State.IsTerminal() {
		return
	}
	j.State = state
	j.StateReasons = reasons
}

// AppendDocument appends data to the job's accumulated document bytes.
func (j *Job) AppendDocument(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Document = append(j.Document, data...)
}

// ToAttributes projects the job into the job-attributes group of a
// Get-Job-Attributes or Get-Jobs response.
func (j *Job) ToAttributes() ipp.Attributes {
	j.mu.Lock()
	defer j.mu.Unlock()

	var attrs ipp.Attributes
	attrs.Add(ipp.MakeAttr("job-id", ipp.TagInteger, ipp.Integer(j.ID)))
	attrs.Add(ipp.MakeAttr("job-uri", ipp.TagURI, ipp.String(j.URI)))
	attrs.Add(ipp.MakeAttr("job-state", ipp.TagEnum, ipp.Integer(j.State)))

	reasons := j.StateReasons
	if len(reasons) == 0 {
		reasons = []string{"none"}
	}
	values := make(ipp.Values, len(reasons))
	for i, r := range reasons {
		values[i] = struct {
			T ipp.Tag
			V ipp.Value
		}{ipp.TagKeyword, ipp.String(r)}
	}
	attrs.Add(ipp.MakeAttribute("job-state-reasons", values))

	if j.Name != "" {
		attrs.Add(ipp.MakeAttr("job-name", ipp.TagName, ipp.String(j.Name)))
	}
	if j.Originator != "" {
		attrs.Add(ipp.MakeAttr("job-originating-user-name", ipp.TagName, ipp.String(j.Originator)))
	}
	attrs.Add(ipp.MakeAttr("job-printer-up-time", ipp.TagInteger, ipp.Integer(int32(time.Since(j.CreatedAt).Seconds()))))

	return attrs
}
