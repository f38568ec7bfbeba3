package pool

import (
	"sync"

	"github.com/arloliu/zbewalgo/engine"
)

// WorkerPool hands out engine workers to goroutines that do not keep one of
// their own. Every pooled worker carries its own bias state, so the search
// order a goroutine sees depends on which worker it happens to get.
type WorkerPool struct {
	engine *engine.Engine
	pool   sync.Pool
}

// NewWorkerPool creates a pool of workers for e.
func NewWorkerPool(e *engine.Engine) *WorkerPool {
	p := &WorkerPool{engine: e}
	p.pool.New = func() any {
		return e.NewWorker(nil)
	}

	return p
}

// Engine returns the engine the pooled workers belong to.
func (p *WorkerPool) Engine() *engine.Engine {
	return p.engine
}

// Get returns a worker owned by the caller until Put.
func (p *WorkerPool) Get() *engine.Worker {
	w, _ := p.pool.Get().(*engine.Worker)
	return w
}

// Put returns w to the pool. Workers of other engines are dropped.
func (p *WorkerPool) Put(w *engine.Worker) {
	if w == nil || w.Engine() != p.engine {
		return
	}
	p.pool.Put(w)
}

// Do runs fn with a pooled worker.
func (p *WorkerPool) Do(fn func(w *engine.Worker) error) error {
	w := p.Get()
	defer p.Put(w)

	return fn(w)
}
