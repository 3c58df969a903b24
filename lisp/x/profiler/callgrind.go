// Copyright © 2026 The sexp authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// A profiler implementation that builds Callgrind files.  The resulting
// files can be opened in KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer     io.Writer
	closer     io.Closer
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	current    *callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a new Callgrind profiler.  An output must be
// set with SetFile or SetWriter before it is enabled.
func NewCallgrindProfiler(runtime *lisp.Runtime, opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.runtime = runtime
	p.applyConfigs(opts...)
	return p
}

// Represents something that got called
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	file        string
	line        int
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: sexp %s (Go %s)\n", lisp.Version, runtime.Version())
	w.print("cmd: Eval\npart: 1\npositions: line\n\n")
	w.print("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.current = nil
	p.Unlock()
	p.pushCallRef("ENTRYPOINT", &token.Location{File: "-", Path: "-"})
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

// SetFile creates filename and directs profile output to it.
func (p *callgrindProfiler) SetFile(filename string) error {
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	if err := p.SetWriter(f); err != nil {
		f.Close()
		return err
	}
	p.closer = f
	return nil
}

// SetWriter directs profile output to w.
func (p *callgrindProfiler) SetWriter(w io.Writer) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.writer = w
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	ref := p.popCallRef()
	if p.writeErr != nil {
		return p.writeErr
	}
	// Generate entrypoint
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeChildren(w, ref, 0)
	w.print("\n")
	duration := time.Since(p.startTime)
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", duration.Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func (p *callgrindProfiler) Start(fun *lisp.LVal, src *token.Location) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.pushCallRef(prettyLabel, src)
	return func() {
		p.end(prettyLabel, src)
	}
}

func (p *callgrindProfiler) pushCallRef(name string, loc *token.Location) {
	p.Lock()
	defer p.Unlock()
	ref := &callRef{name: name, prev: p.current}
	if loc != nil {
		ref.file = loc.File
		ref.line = loc.Line
	}
	if ref.prev != nil {
		ref.prev.children = append(ref.prev.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
}

// popCallRef must be called with p locked.
func (p *callgrindProfiler) popCallRef() *callRef {
	ref := p.current
	if ref == nil {
		panic("callgrind profiler call stack underflow")
	}
	p.current = ref.prev
	return ref
}

func (p *callgrindProfiler) end(name string, loc *token.Location) {
	p.Lock()
	defer p.Unlock()
	ref := p.popCallRef()
	if p.writeErr != nil {
		return
	}
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	// Write what function we've been observing and where to find it
	if loc != nil {
		w.printf("fl=%s\n", p.getRef(loc.File))
	}
	w.printf("fn=%s\n", p.getRef(name))
	w.printf("%d %d %d\n", ref.line, ref.duration, memory)
	p.writeChildren(w, ref, memory)
	w.print("\n")
	p.writeErr = w.err
}

func (p *callgrindProfiler) writeChildren(w *errWriter, ref *callRef, memory uint64) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, memory)
	}
}
