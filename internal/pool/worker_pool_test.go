package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/engine"
)

func TestWorkerPool(t *testing.T) {
	e, err := engine.New()
	require.NoError(t, err)
	p := NewWorkerPool(e)
	require.Same(t, e, p.Engine())

	w := p.Get()
	require.NotNil(t, w)
	require.Same(t, e, w.Engine())
	p.Put(w)

	other, err := engine.New()
	require.NoError(t, err)
	p.Put(other.NewWorker(nil))
	p.Put(nil)

	page := bytes.Repeat([]byte("slot 17 "), 512)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Do(func(w *engine.Worker) error {
				assert.Same(t, e, w.Engine())
				block, err := w.Compress(nil, page)
				if err != nil {
					return err
				}
				out, err := w.Decompress(nil, block)
				if err != nil {
					return err
				}
				assert.Equal(t, page, out)

				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
