// Package buildpipeline turns program documents into .ll files.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ywhdzrb/Cavvy-sub000/internal/backend/llvm"
	"github.com/ywhdzrb/Cavvy-sub000/internal/driver"
	"github.com/ywhdzrb/Cavvy-sub000/internal/observ"
	"github.com/ywhdzrb/Cavvy-sub000/internal/trace"
	"github.com/ywhdzrb/Cavvy-sub000/internal/version"
)

// EmitRequest configures one emit run.
type EmitRequest struct {
	Inputs []string
	OutDir string
	// BaseDir shortens input paths in progress events.
	BaseDir string
	Options llvm.Options
	Load    driver.LoadOptions
	// Cache is optional; nil disables caching.
	Cache *driver.DiskCache
	// Jobs bounds parallel documents; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Timer    *observ.Timer
	// Stdout receives the IR instead of a file. Only valid for one input.
	Stdout io.Writer
}

// Output is the outcome for one input.
type Output struct {
	Input   string
	Display string
	// Path is the written .ll file; empty when writing to Stdout or on error.
	Path    string
	Cached  bool
	Err     error
	Timings Timings
}

// EmitResult lists the outputs in input order.
type EmitResult struct {
	Outputs []Output
}

// Failed counts outputs that ended in an error.
func (r EmitResult) Failed() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Emit runs load, generate and write for every input. A failing document
// does not stop the others; the returned error joins all failures. Nothing
// is written for a document whose generation failed.
func Emit(ctx context.Context, req *EmitRequest) (EmitResult, error) {
	var result EmitResult
	if req == nil || len(req.Inputs) == 0 {
		return result, errors.New("no input documents")
	}
	if req.Stdout != nil && len(req.Inputs) > 1 {
		return result, fmt.Errorf("cannot print %d documents to stdout", len(req.Inputs))
	}
	paths, err := outputPaths(req.OutDir, req.Inputs)
	if err != nil {
		return result, err
	}
	names := DisplayNames(req.Inputs, req.BaseDir)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "emit", trace.SpanFromContext(ctx))
	span.WithExtra("inputs", strconv.Itoa(len(req.Inputs)))
	defer span.End("")

	result.Outputs = make([]Output, len(req.Inputs))
	for i, in := range req.Inputs {
		result.Outputs[i] = Output{Input: in, Display: names[i]}
		notify(req.Progress, Event{File: names[i], Stage: StageLoad, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Inputs)))
	for i := range req.Inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := &result.Outputs[i]
			e := &emitJob{req: req, tracer: tracer, parent: span.ID(), out: out}
			out.Err = e.run(gctx, paths[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	var errs []error
	for _, o := range result.Outputs {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Display, o.Err))
		}
	}
	if len(errs) > 0 {
		span.WithExtra("failed", strconv.Itoa(len(errs)))
	}
	return result, errors.Join(errs...)
}

type emitJob struct {
	req    *EmitRequest
	tracer trace.Tracer
	parent uint64
	out    *Output
}

func (e *emitJob) run(ctx context.Context, path string) error {
	span := trace.Begin(e.tracer, trace.ScopeDriver, "document", e.parent)
	span.WithExtra("file", e.out.Display)
	defer span.End("")

	var doc *driver.Document
	err := e.stage(StageLoad, func() (Status, error) {
		var err error
		doc, err = driver.LoadFile(e.out.Input, e.req.Load)
		return StatusDone, err
	})
	if err != nil {
		return err
	}

	var ir string
	err = e.stage(StageGenerate, func() (Status, error) {
		opts := e.req.Options
		opts.Tracer = e.tracer
		opts.ParentSpan = span.ID()
		key := driver.CacheKey(doc.Data, cacheOptions(opts, e.req.Load)...)
		if cached, ok, err := e.req.Cache.Get(key); err == nil && ok {
			ir = cached
			e.out.Cached = true
			return StatusCached, nil
		}
		var genErr error
		if ir, genErr = llvm.EmitProgram(doc.Program, nil, opts); genErr != nil {
			return StatusError, genErr
		}
		if err := e.req.Cache.Put(key, ir); err != nil {
			trace.Point(e.tracer, trace.ScopeDriver, "cache-put-failed", err.Error(), span.ID())
		}
		return StatusDone, nil
	})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.stage(StageWrite, func() (Status, error) {
		if e.req.Stdout != nil {
			_, err := io.WriteString(e.req.Stdout, ir)
			return StatusDone, err
		}
		if err := writeFileAtomic(path, ir); err != nil {
			return StatusError, err
		}
		e.out.Path = path
		return StatusDone, nil
	})
}

// stage times fn, records it and reports its start and end.
func (e *emitJob) stage(stage Stage, fn func() (Status, error)) error {
	file := e.out.Display
	notify(e.req.Progress, Event{File: file, Stage: stage, Status: StatusWorking})
	var idx int
	if e.req.Timer != nil {
		idx = e.req.Timer.Begin(string(stage) + " " + file)
	}
	start := time.Now()
	status, err := fn()
	elapsed := time.Since(start)
	if err != nil {
		status = StatusError
	}
	if e.req.Timer != nil {
		note := string(status)
		if err != nil {
			note = err.Error()
		}
		e.req.Timer.End(idx, note)
	}
	e.out.Timings.Set(stage, elapsed)
	notify(e.req.Progress, Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	return err
}

func notify(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// cacheOptions lists everything besides the document that shapes the IR.
func cacheOptions(opts llvm.Options, load driver.LoadOptions) []string {
	triple := opts.TargetTriple
	if triple == "" {
		triple = llvm.DefaultTriple
	}
	return []string{
		version.Version,
		triple,
		strconv.Itoa(opts.ConsoleCodePage),
		opts.EntryClass,
		strconv.FormatBool(load.NormalizeStrings),
	}
}

// writeFileAtomic replaces path with data so readers never observe a
// partially written module.
func writeFileAtomic(path, data string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".cavvy-*.ll")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.WriteString(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
