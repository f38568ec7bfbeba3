package engine

// Worker bundles the per-worker state of an Engine: a scratch buffer and a
// bias state. A Worker is not safe for concurrent use; create one per
// goroutine or hand them out through a pool.
type Worker struct {
	engine  *Engine
	scratch []byte
	bias    *BiasState
}

// NewWorker creates a worker with its own scratch buffer. When bias is nil
// the worker allocates a private BiasState; otherwise it uses the given slot,
// typically one from a BiasArena.
func (e *Engine) NewWorker(bias *BiasState) *Worker {
	if bias == nil {
		bias = &BiasState{}
	}

	return &Worker{
		engine:  e,
		scratch: make([]byte, e.ScratchSize()),
		bias:    bias,
	}
}

// Compress compresses src and appends the block to dst.
func (w *Worker) Compress(dst, src []byte) ([]byte, error) {
	return w.engine.Compress(dst, src, w.scratch, w.bias)
}

// Decompress decodes block and appends the original data to dst.
func (w *Worker) Decompress(dst, block []byte) ([]byte, error) {
	return w.engine.Decompress(dst, block, w.scratch)
}

// Bias returns the bias state of the worker.
func (w *Worker) Bias() *BiasState {
	return w.bias
}

// Engine returns the engine the worker belongs to.
func (w *Worker) Engine() *Engine {
	return w.engine
}
