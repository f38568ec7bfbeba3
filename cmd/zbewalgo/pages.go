package main

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/format"
)

// splitPages cuts data into format.MaxInputSize pages; the last one may be
// shorter.
func splitPages(data []byte) [][]byte {
	return slices.Collect(slices.Chunk(data, format.MaxInputSize))
}

// forEachPage runs fn for every page index on n workers. Worker i handles
// pages i, i+n, i+2n and so on, using its own engine worker and bias slot.
func forEachPage(ctx context.Context, eng *engine.Engine, workers, pages int, fn func(w *engine.Worker, i int) error) error {
	workers = max(1, min(workers, pages))
	arena := engine.NewBiasArena(workers)

	g, ctx := errgroup.WithContext(ctx)
	for wi := range workers {
		w := eng.NewWorker(arena.Slot(wi))
		g.Go(func() error {
			for i := wi; i < pages; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(w, i); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return g.Wait()
}
