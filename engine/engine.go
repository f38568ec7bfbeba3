package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/arloliu/zbewalgo/codec"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/options"
	"github.com/arloliu/zbewalgo/pipeline"
)

// Engine is the adaptive compressor.
//
// An Engine owns the pipeline registry and the tunables. It keeps no
// per-call state: scratch memory and bias state are supplied by the caller,
// typically through a Worker. All methods are safe for concurrent use.
type Engine struct {
	table       *codec.Table
	registry    *pipeline.Registry
	tun         tunables
	scratchSize int
	logger      *zap.Logger
	observer    Observer
}

// New creates an Engine.
//
// Without options the engine uses the builtin algorithm table, the default
// pipelines and the default tunables.
//
// Returns an error if an option is invalid or an initial pipeline does not
// parse.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	defaults, err := pipeline.Defaults(cfg.table)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		table:       cfg.table,
		registry:    pipeline.NewRegistry(defaults...),
		scratchSize: cfg.table.ScratchSize(),
		logger:      cfg.logger,
		observer:    cfg.observer,
	}
	e.tun.set(TunableMaxOutputSize, cfg.maxOutput)
	e.tun.set(TunableEarlyAbortSize, cfg.earlyAbort)
	e.tun.set(TunableBWTMaxAlphabet, cfg.bwtAlphabet)

	if cfg.pipelines != nil {
		if err := e.SetPipelines(cfg.pipelines...); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ScratchSize returns the size of the scratch buffer Compress and Decompress
// require: the largest codec workspace plus three stage buffers.
func (e *Engine) ScratchSize() int {
	return e.scratchSize
}

// Table returns the algorithm table of the engine.
func (e *Engine) Table() *codec.Table {
	return e.table
}

// Tunable returns the current value of t.
func (e *Engine) Tunable(t Tunable) int {
	return e.tun.get(t)
}

// SetTunable updates t. Calls already in progress keep the old value.
func (e *Engine) SetTunable(t Tunable, v int) error {
	if err := t.Validate(v); err != nil {
		e.logger.Warn("rejected tunable update", zap.Stringer("tunable", t), zap.Int("value", v))
		return err
	}
	old := e.tun.get(t)
	e.tun.set(t, v)
	e.logger.Info("tunable updated", zap.Stringer("tunable", t), zap.Int("old", old), zap.Int("new", v))

	return nil
}

func (e *Engine) limits() codec.Limits {
	return codec.Limits{
		MaxOutputSize:  e.tun.get(TunableMaxOutputSize),
		BWTMaxAlphabet: e.tun.get(TunableBWTMaxAlphabet),
	}
}

// Compress compresses src and appends the block to dst.
//
// The search starts at the pipeline recorded in bias, wraps around the
// registry once and keeps the smallest output seen after any stage, so a
// prefix of a pipeline can win. It stops early once the best payload is
// smaller than max(bias.AcceptedSize, early_abort_size).
//
// Parameters:
//   - dst: buffer the block is appended to; may be nil
//   - src: data to compress, at most format.MaxInputSize bytes
//   - scratch: at least ScratchSize bytes, owned by the caller for the call
//   - bias: the caller's bias state, updated on success
//
// Returns:
//   - []byte: dst with the block appended
//   - error: errs.ErrInputTooLarge, errs.ErrScratchTooSmall or
//     errs.ErrNotCompressible; codec failures are never returned
func (e *Engine) Compress(dst, src, scratch []byte, bias *BiasState) ([]byte, error) {
	if len(src) > format.MaxInputSize {
		return dst, errors.Wrapf(errs.ErrInputTooLarge, "%d bytes, at most %d", len(src), format.MaxInputSize)
	}
	if len(scratch) < e.scratchSize {
		return dst, errors.Wrapf(errs.ErrScratchTooSmall, "%d bytes, need %d", len(scratch), e.scratchSize)
	}

	snap := e.registry.Snapshot()
	stats := CompressStats{Index: -1, InputSize: len(src)}
	if len(src) == 0 || snap.Len() == 0 {
		e.observer.ObserveCompress(stats)
		return dst, errs.ErrNotCompressible
	}

	lim := e.limits()
	earlyAbort := e.tun.get(TunableEarlyAbortSize)

	ws := e.table.WorkspaceSize()
	wrk := scratch[:ws]
	best := scratch[ws : ws+format.StageBufferSize]
	cur := scratch[ws+format.StageBufferSize : ws+2*format.StageBufferSize]
	next := scratch[ws+2*format.StageBufferSize : ws+3*format.StageBufferSize]

	// only results strictly smaller than the input are worth keeping
	bestSize := len(src)
	var bestPipe pipeline.Pipeline

	count := snap.Len()
	from := int(bias.BestIndex)
	if bias.SkipCounter == 0 {
		from++
	}
	bias.SkipCounter--
	to := count
	threshold := max(int(bias.AcceptedSize), earlyAbort)
	wrapped := false

search:
	for {
		for i := from; i < to; i++ {
			stats.Tried++
			p := snap.At(i)
			in := src
			for j := range p.Len() {
				alg, ok := e.table.Get(p.ID(j))
				if !ok {
					break
				}
				n, err := alg.Compress(next, in, wrk, lim)
				if err != nil {
					break
				}
				in = next[:n]
				cur, next = next, cur
				if n < bestSize {
					bestSize = n
					bestPipe = p.Prefix(j + 1)
					stats.Index = i
					best, cur = cur, best
				}
			}

			if stats.Index >= 0 && bestSize < threshold {
				stats.EarlyAbort = i+1 < to || (!wrapped && from > 0)
				break search
			}
		}
		if wrapped || from == 0 {
			break
		}
		wrapped = true
		to = min(from, count)
		from = 0
	}

	if stats.Index < 0 || bestSize > lim.MaxOutputSize {
		stats.Index = -1
		e.observer.ObserveCompress(stats)
		return dst, errs.ErrNotCompressible
	}

	bias.BestIndex = uint8(stats.Index)
	bias.AcceptedSize = uint16(min(bestSize+bestSize>>3, 1<<16-1))

	stats.Pipeline = bestPipe
	stats.OutputSize = bestSize
	stats.Compressed = true
	e.observer.ObserveCompress(stats)

	dst = appendHeader(dst, bestPipe)
	return append(dst, best[:bestSize]...), nil
}

// Decompress decodes block and appends the original data to dst.
//
// The pipeline is read from the block header and replayed in reverse; the
// registry is never consulted, so blocks stay decodable after any registry
// change.
//
// Returns errs.ErrUnknownAlgorithmID when the header names an id outside the
// algorithm table and errs.ErrCorruptBlock when the block or one of its
// stages is malformed.
func (e *Engine) Decompress(dst, block, scratch []byte) ([]byte, error) {
	if len(scratch) < e.scratchSize {
		return dst, errors.Wrapf(errs.ErrScratchTooSmall, "%d bytes, need %d", len(scratch), e.scratchSize)
	}
	p, payload, err := parseHeader(block, e.table)
	if err != nil {
		e.observer.ObserveDecompress(p, 0, err)
		return dst, err
	}

	ws := e.table.WorkspaceSize()
	wrk := scratch[:ws]
	bufA := scratch[ws : ws+format.StageBufferSize]
	bufB := scratch[ws+format.StageBufferSize : ws+2*format.StageBufferSize]

	in := payload
	for j := p.Len() - 1; j > 0; j-- {
		alg, _ := e.table.Get(p.ID(j))
		n, err := alg.Decompress(bufA, in, wrk)
		if err != nil {
			err = errors.Wrapf(err, "stage %d (%s)", j, alg.Name())
			e.observer.ObserveDecompress(p, 0, err)
			return dst, err
		}
		in = bufA[:n]
		bufA, bufB = bufB, bufA
	}

	alg, _ := e.table.Get(p.ID(0))
	base := len(dst)
	dst = slices.Grow(dst, format.MaxInputSize)
	n, err := alg.Decompress(dst[base:base+format.MaxInputSize], in, wrk)
	if err != nil {
		err = errors.Wrapf(err, "stage 0 (%s)", alg.Name())
		e.observer.ObserveDecompress(p, 0, err)
		return dst[:base], err
	}
	e.observer.ObserveDecompress(p, n, nil)

	return dst[:base+n], nil
}

// AddPipeline parses spec and appends it to the registry. Adding a pipeline
// that is already registered succeeds without effect.
func (e *Engine) AddPipeline(spec string) error {
	p, err := pipeline.Parse(spec, e.table)
	if err != nil {
		e.logger.Warn("rejected pipeline", zap.String("spec", spec), zap.Error(err))
		return err
	}

	added, err := e.registry.Add(p)
	if err != nil {
		e.logger.Warn("rejected pipeline", zap.String("spec", spec), zap.Error(err))
		return err
	}
	if added {
		e.logger.Info("pipeline added", zap.Stringer("pipeline", p), zap.Int("count", e.registry.Len()))
	} else {
		e.logger.Info("duplicate pipeline ignored", zap.Stringer("pipeline", p))
	}

	return nil
}

// SetPipelines replaces the registry with the pipelines in specs. Nothing
// changes unless every spec parses.
func (e *Engine) SetPipelines(specs ...string) error {
	ps := make([]pipeline.Pipeline, 0, len(specs))
	for _, spec := range specs {
		p, err := pipeline.Parse(spec, e.table)
		if err != nil {
			e.logger.Warn("rejected pipeline", zap.String("spec", spec), zap.Error(err))
			return err
		}
		ps = append(ps, p)
	}
	if err := e.registry.Replace(ps...); err != nil {
		e.logger.Warn("rejected pipeline set", zap.Strings("specs", specs), zap.Error(err))
		return err
	}
	e.logger.Info("pipelines replaced", zap.Int("count", e.registry.Len()))

	return nil
}

// ResetPipelines restores the default pipelines.
func (e *Engine) ResetPipelines() {
	e.registry.Reset()
	e.logger.Info("pipelines reset", zap.Int("count", e.registry.Len()))
}

// Pipelines returns the registered pipelines in search order.
func (e *Engine) Pipelines() []pipeline.Pipeline {
	return e.registry.Snapshot().All()
}

// DescribePipelines renders the registry as
//
//	combinations={
//		combination[0]=bwt-mtf-rle
//	}
func (e *Engine) DescribePipelines() string {
	var sb strings.Builder
	sb.WriteString("combinations={\n")
	for i, p := range e.Pipelines() {
		fmt.Fprintf(&sb, "\tcombination[%d]=%s\n", i, e.describe(p))
	}
	sb.WriteString("}\n")

	return sb.String()
}

func (e *Engine) describe(p pipeline.Pipeline) string {
	names := make([]string, p.Len())
	for i := range names {
		if alg, ok := e.table.Get(p.ID(i)); ok {
			names[i] = alg.Name()
		} else {
			names[i] = p.ID(i).String()
		}
	}

	return strings.Join(names, "-")
}

// Exec runs one administrative command:
//
//	add <spec>   append a pipeline
//	set <spec>   replace all pipelines with one
//	reset        restore the default pipelines
//
// Returns errs.ErrUnknownCommand for anything else.
func (e *Engine) Exec(cmd string) error {
	cmd = strings.TrimSpace(cmd)
	switch {
	case strings.HasPrefix(cmd, "add "):
		return e.AddPipeline(cmd[len("add "):])
	case strings.HasPrefix(cmd, "set "):
		return e.SetPipelines(cmd[len("set "):])
	case cmd == "reset":
		e.ResetPipelines()
		return nil
	default:
		e.logger.Warn("unknown command", zap.String("command", cmd))
		return errors.Wrapf(errs.ErrUnknownCommand, "%q", cmd)
	}
}
