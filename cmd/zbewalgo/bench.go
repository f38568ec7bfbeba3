package main

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arloliu/zbewalgo/baseline"
	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
)

const (
	minLatency = time.Nanosecond
	maxLatency = 10 * time.Millisecond
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
}

// recordLatency clamps d into the trackable range so slow outliers land in
// the top bucket instead of being dropped.
func recordLatency(h *hdrhistogram.Histogram, d time.Duration) {
	d = min(max(d, minLatency), maxLatency)
	if err := h.RecordValue(d.Nanoseconds()); err != nil {
		panic(err)
	}
}

// verifyPage reports a round-trip mismatch of page i.
func verifyPage(codec string, i int, got, want []byte) error {
	if !bytes.Equal(got, want) {
		return errors.Newf("%s: page %d does not round-trip (%d bytes, want %d)", codec, i, len(got), len(want))
	}

	return nil
}

// benchResult is one row of the bench table.
type benchResult struct {
	name       string
	original   int64
	stored     int64
	failed     int
	compress   *hdrhistogram.Histogram
	decompress *hdrhistogram.Histogram
}

func newBenchResult(name string) *benchResult {
	return &benchResult{name: name, compress: newHistogram(), decompress: newHistogram()}
}

func (r *benchResult) row() []string {
	ratio := 0.0
	if r.original > 0 {
		ratio = float64(r.stored) / float64(r.original)
	}

	return []string{
		r.name,
		fmt.Sprintf("%.3f", ratio),
		fmt.Sprintf("%d", r.failed),
		time.Duration(r.compress.ValueAtQuantile(50)).String(),
		time.Duration(r.compress.ValueAtQuantile(99)).String(),
		time.Duration(r.decompress.ValueAtQuantile(50)).String(),
		time.Duration(r.decompress.ValueAtQuantile(99)).String(),
	}
}

func newBenchCmd(a *app) *cobra.Command {
	var (
		baselines []string
		rounds    int
	)

	cmd := &cobra.Command{
		Use:   "bench <file>",
		Short: "compare the engine with general-purpose codecs",
		Long: `Bench compresses every page of <file> with the adaptive engine and with each
baseline codec and reports compression ratio, failed pages and latency
percentiles, followed by the pipelines that won.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			types := make([]baseline.Type, 0, len(baselines))
			for _, name := range baselines {
				t, err := baseline.ParseType(name)
				if err != nil {
					return err
				}
				types = append(types, t)
			}

			return a.bench(cmd.OutOrStdout(), splitPages(data), types, max(rounds, 1))
		},
	}
	cmd.Flags().StringSliceVar(&baselines, "baselines", []string{"lz4", "s2", "zstd"}, "baseline codecs to compare against")
	cmd.Flags().IntVar(&rounds, "rounds", 1, "passes over the file")

	return cmd
}

func (a *app) bench(out io.Writer, pages [][]byte, types []baseline.Type, rounds int) error {
	results := []*benchResult{}
	wins := map[string]int{}

	engineResult, err := a.benchEngine(pages, rounds, wins)
	if err != nil {
		return err
	}
	results = append(results, engineResult)

	for _, t := range types {
		c, err := baseline.New(t)
		if err != nil {
			return err
		}
		r, err := benchBaseline(c, pages, rounds)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	tbl := tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"Codec", "Ratio", "Raw pages", "Comp p50", "Comp p99", "Decomp p50", "Decomp p99"})
	for _, r := range results {
		tbl.Append(r.row())
	}
	tbl.Render()

	type win struct {
		pipeline string
		count    int
	}
	ranked := make([]win, 0, len(wins))
	for p, n := range wins {
		ranked = append(ranked, win{p, n})
	}
	slices.SortFunc(ranked, func(x, y win) int {
		if c := cmp.Compare(y.count, x.count); c != 0 {
			return c
		}

		return strings.Compare(x.pipeline, y.pipeline)
	})

	tbl = tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"Pipeline", "Pages"})
	for _, w := range ranked {
		tbl.Append([]string{w.pipeline, fmt.Sprintf("%d", w.count)})
	}
	tbl.Render()

	return nil
}

func (a *app) benchEngine(pages [][]byte, rounds int, wins map[string]int) (*benchResult, error) {
	r := newBenchResult("zbewalgo")
	w := a.eng.NewWorker(nil)
	var (
		block, page []byte
		err         error
	)

	for round := range rounds {
		for i, src := range pages {
			start := time.Now()
			block, err = w.Compress(block[:0], src)
			recordLatency(r.compress, time.Since(start))

			if round == 0 {
				r.original += int64(len(src))
			}
			if errors.Is(err, errs.ErrNotCompressible) {
				if round == 0 {
					r.failed++
					r.stored += int64(len(src))
				}
				continue
			}
			if err != nil {
				return nil, err
			}

			start = time.Now()
			page, err = w.Decompress(page[:0], block)
			recordLatency(r.decompress, time.Since(start))
			if err != nil {
				return nil, err
			}
			if err := verifyPage(r.name, i, page, src); err != nil {
				return nil, err
			}

			if round == 0 {
				r.stored += int64(len(block))
				p, err := engine.BlockPipeline(block)
				if err != nil {
					return nil, err
				}
				wins[p.String()]++
			}
		}
	}

	return r, nil
}

func benchBaseline(c baseline.Codec, pages [][]byte, rounds int) (*benchResult, error) {
	r := newBenchResult(c.Type().String())
	var buf, page []byte

	for round := range rounds {
		for i, src := range pages {
			start := time.Now()
			out, err := c.Compress(buf[:0], src)
			recordLatency(r.compress, time.Since(start))
			if err != nil {
				return nil, err
			}
			buf = out

			start = time.Now()
			page, err = c.Decompress(page[:0], out, len(src))
			recordLatency(r.decompress, time.Since(start))
			if err != nil {
				return nil, err
			}
			if err := verifyPage(r.name, i, page, src); err != nil {
				return nil, err
			}

			if round == 0 {
				r.original += int64(len(src))
				if len(out) >= len(src) {
					r.failed++
					r.stored += int64(len(src))
				} else {
					r.stored += int64(len(out))
				}
			}
		}
	}

	return r, nil
}
