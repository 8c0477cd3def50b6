/* ippd - a library for building IPP printer servers
 *
 * Registry: in-memory job storage with TTL eviction of terminal jobs
 */

package job

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultRetention is how long a job stays queryable after reaching a
// terminal state.
const DefaultRetention = 5 * time.Minute

// Registry tracks every job a server currently knows about, assigning
// monotonically increasing job ids starting at 1, and evicting jobs
// that have sat in a terminal state for longer than its retention
// period.
type Registry struct {
	nextID int64

	mu   sync.RWMutex
	jobs map[int]*Job

	retention time.Duration
	cache     *cache.Cache
}

// NewRegistry creates an empty Registry. retention of zero means
// DefaultRetention.
func NewRegistry(retention time.Duration) *Registry {
	if retention <= 0 {
		retention = DefaultRetention
	}

	r := &Registry{
		jobs:      make(map[int]*Job),
		retention: retention,
		cache:     cache.New(retention, retention/2),
	}

	r.cache.OnEvicted(func(key string, _ interface{}) {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err == nil {
			r.mu.Lock()
			delete(r.jobs, id)
			r.mu.Unlock()
		}
	})

	return r
}

// Create allocates a new Job with the next available id and registers
// it in the pending state.
func (r *Registry) Create(uri string) *Job {
	id := int(atomic.AddInt64(&r.nextID, 1))
	j := &Job{
		ID:        id,
		URI:       fmt.Sprintf("%s/%d", uri, id),
		State:     StatePending,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.jobs[id] = j
	r.mu.Unlock()

	return j
}

// Get looks up a job by id.
func (r *Registry) Get(id int) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}

// All returns every job currently tracked, in ascending id order.
func (r *Registry) All() []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	for i := 1; i < len(out); i++ {
		for k := i; k > 0 && out[k-1].ID > out[k].ID; k-- {
			out[k-1], out[k] = out[k], out[k-1]
		}
	}
	return out
}

// MarkTerminal transitions the job to a terminal state and schedules
// it for eviction after the registry's retention period. A job already
// in a terminal state keeps it (see Job.SetState).
func (r *Registry) MarkTerminal(id int, state State, reasons ...string) {
	r.mu.RLock()
	j, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return
	}

	j.SetState(state, reasons...)
	r.cache.Set(fmt.Sprintf("%d", id), struct{}{}, r.retention)
}

// Count returns the number of jobs currently tracked, regardless of
// state. This includes jobs that reached a terminal state but are
// still inside the registry's retention window — callers that want
// queued-job-count semantics should use PendingCount instead.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// PendingCount returns the number of tracked jobs that have not yet
// reached a terminal state — the queued-job-count semantics of
// RFC 8011, as opposed to Count's "every job this registry still
// remembers."
func (r *Registry) PendingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, j := range r.jobs {
		if !j.Snapshot().State.IsTerminal() {
			n++
		}
	}
	return n
}
