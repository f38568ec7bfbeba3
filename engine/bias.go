package engine

// BiasState is the per-worker memory of the adaptive search: which pipeline
// won last time and how small its result was.
//
// A BiasState must only be used by one goroutine at a time. It is padded to a
// cache line so that neighbouring slots of a BiasArena never share one.
type BiasState struct {
	// BestIndex is the registry index of the last winning pipeline.
	BestIndex uint8
	// SkipCounter is decremented on every call; when it wraps through zero
	// the search starts one pipeline after BestIndex.
	SkipCounter uint8
	// AcceptedSize is the last winning size plus one eighth. Results below it
	// end the search early.
	AcceptedSize uint16

	_ [60]byte
}

// Reset forgets everything learned so far.
func (b *BiasState) Reset() {
	*b = BiasState{}
}

// BiasArena is a fixed set of bias slots indexed by worker id.
type BiasArena struct {
	slots []BiasState
}

// NewBiasArena creates an arena with one slot per worker.
func NewBiasArena(workers int) *BiasArena {
	return &BiasArena{slots: make([]BiasState, max(workers, 1))}
}

// Len returns the number of slots.
func (a *BiasArena) Len() int {
	return len(a.slots)
}

// Slot returns the bias state of worker i. The worker owns the slot
// exclusively; the arena performs no locking.
func (a *BiasArena) Slot(i int) *BiasState {
	return &a.slots[i]
}
