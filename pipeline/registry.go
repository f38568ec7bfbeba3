package pipeline

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Snapshot is an immutable view of a Registry.
//
// A compression call takes one snapshot up front and uses it for the whole
// search, so concurrent mutations never expose a half-written registry.
type Snapshot struct {
	pipelines []Pipeline
	version   uint64
}

// Len returns the number of pipelines in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.pipelines)
}

// At returns the pipeline at index i.
func (s *Snapshot) At(i int) Pipeline {
	return s.pipelines[i]
}

// All returns a copy of the pipelines in registry order.
func (s *Snapshot) All() []Pipeline {
	return slices.Clone(s.pipelines)
}

// Version increases by one with every mutation of the registry.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Registry is the ordered, duplicate-free set of pipelines the compressor
// searches.
//
// Readers load the current snapshot with a single atomic load and never
// block. Writers serialize on a mutex, copy the current pipelines, and
// publish a new snapshot.
type Registry struct {
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	defaults []Pipeline
}

// NewRegistry creates a registry holding defaults. Reset restores the same
// pipelines.
func NewRegistry(defaults ...Pipeline) *Registry {
	r := &Registry{defaults: dedup(defaults)}
	r.current.Store(&Snapshot{pipelines: slices.Clone(r.defaults)})

	return r
}

// Snapshot returns the current registry contents.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Len returns the current number of pipelines.
func (r *Registry) Len() int {
	return r.current.Load().Len()
}

// Add appends p unless an identical pipeline is already registered.
//
// Returns whether p was appended. Fails with errs.ErrEmptyPipeline for the
// zero Pipeline and errs.ErrRegistryFull when the registry holds
// format.MaxPipelines entries.
func (r *Registry) Add(p Pipeline) (bool, error) {
	if p.IsEmpty() {
		return false, errs.ErrEmptyPipeline
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current.Load()
	if slices.Contains(cur.pipelines, p) {
		return false, nil
	}
	if len(cur.pipelines) >= format.MaxPipelines {
		return false, errs.ErrRegistryFull
	}

	next := make([]Pipeline, len(cur.pipelines), len(cur.pipelines)+1)
	copy(next, cur.pipelines)
	r.publish(cur, append(next, p))

	return true, nil
}

// Replace clears the registry and adds ps in order, dropping duplicates.
// The registry is left unchanged when any pipeline is invalid.
func (r *Registry) Replace(ps ...Pipeline) error {
	if len(ps) == 0 {
		return errs.ErrEmptyPipeline
	}
	for _, p := range ps {
		if p.IsEmpty() {
			return errs.ErrEmptyPipeline
		}
	}
	next := dedup(ps)
	if len(next) > format.MaxPipelines {
		return errs.ErrRegistryFull
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish(r.current.Load(), next)

	return nil
}

// Reset restores the pipelines the registry was created with.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish(r.current.Load(), slices.Clone(r.defaults))
}

// publish must be called with mu held.
func (r *Registry) publish(cur *Snapshot, pipelines []Pipeline) {
	r.current.Store(&Snapshot{pipelines: pipelines, version: cur.version + 1})
}

func dedup(ps []Pipeline) []Pipeline {
	out := make([]Pipeline, 0, len(ps))
	for _, p := range ps {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}

	return out
}
