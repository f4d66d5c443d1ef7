// Package executor provides the worker pool that fires macro-data-flow
// graphs: a fixed set of workers drains a shared FIFO job queue, firing
// ready nodes and routing their output tokens to successors until each
// run's exit node completes the caller's future.
package executor

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mdflow/mdflow/internal/core/graph"
	"github.com/mdflow/mdflow/internal/core/token"
	imetrics "github.com/mdflow/mdflow/internal/infrastructure/metrics"
)

// handler owns one run: the live graph instance and the caller's future.
type handler struct {
	id       uuid.UUID
	instance *graph.Instance
	future   *Future
	done     atomic.Bool
}

// complete resolves the run at most once and reports whether this call won.
func (h *handler) complete(tokens []*token.Token, err error) bool {
	if !h.done.CompareAndSwap(false, true) {
		return false
	}
	h.future.complete(tokens, err)
	return true
}

// job pairs a run with the node to fire next.
type job struct {
	handler *handler
	node    int
}

// Config holds executor configuration.
type Config struct {
	// Workers is the pool size. Defaults to runtime.NumCPU when <= 0.
	Workers int
	// Logger receives debug-level firing events. Nil disables logging.
	Logger *slog.Logger
}

// Executor owns a fixed-size worker pool and a shared FIFO job queue
// guarded by a mutex and condition variable. Concurrent runs share nothing
// mutable beyond the queue itself.
type Executor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []job
	stop     bool
	handlers map[uuid.UUID]*handler

	workers int
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// New creates an executor and starts its workers.
func New(cfg Config) *Executor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	e := &Executor{
		handlers: make(map[uuid.UUID]*handler),
		workers:  workers,
		logger:   cfg.Logger,
	}
	e.cond = sync.NewCond(&e.mu)
	imetrics.SetPoolWorkers(workers)

	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

// Workers returns the pool size.
func (e *Executor) Workers() int { return e.workers }

// Run executes one instance of the graph with the given entry inputs. The
// template is validated first (a no-op when already validated), cloned into
// a live instance, and its entry node is enqueued. The returned future
// resolves with the exit node's output tokens. Callers sharing one template
// across goroutines must validate it before the first concurrent Run.
func (e *Executor) Run(g *graph.Graph, args ...any) (*Future, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	instance, err := g.NewInstance()
	if err != nil {
		return nil, err
	}
	if err := instance.BindInputs(args...); err != nil {
		return nil, err
	}

	h := &handler{id: uuid.New(), instance: instance, future: newFuture()}

	// The entry node has no predecessors; its counter is never consulted.
	instance.Claim(g.EntryID())

	e.mu.Lock()
	if e.stop {
		e.mu.Unlock()
		return nil, ErrExecutorClosed
	}
	e.handlers[h.id] = h
	e.queue = append(e.queue, job{handler: h, node: g.EntryID()})
	e.mu.Unlock()
	e.cond.Signal()

	imetrics.IncRunsStarted()
	imetrics.AddJobsQueued(1)
	if e.logger != nil {
		e.logger.Debug("run started", "run", h.id, "entry", g.EntryID())
	}
	return h.future, nil
}

// Close stops the pool. Queued jobs are drained first, then any run still
// pending is completed with ErrExecutorClosed so no future is abandoned.
// Close is idempotent.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.stop {
		e.mu.Unlock()
		return
	}
	e.stop = true
	e.mu.Unlock()
	e.cond.Broadcast()
	e.wg.Wait()

	e.mu.Lock()
	pending := make([]*handler, 0, len(e.handlers))
	for _, h := range e.handlers {
		pending = append(pending, h)
	}
	e.handlers = make(map[uuid.UUID]*handler)
	e.mu.Unlock()

	for _, h := range pending {
		if h.complete(nil, ErrExecutorClosed) {
			imetrics.IncRunsFailed()
		}
	}
}

// worker is the scheduling loop run by every pool goroutine.
func (e *Executor) worker() {
	defer e.wg.Done()

	for {
		e.mu.Lock()
		for !e.stop && len(e.queue) == 0 {
			e.cond.Wait()
		}
		if e.stop && len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		j := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.fire(j)
	}
}

// fire executes one job outside the queue lock.
func (e *Executor) fire(j job) {
	h := j.handler
	if h.done.Load() {
		// The run already failed; drop its leftover jobs.
		return
	}

	out, err := h.instance.Fire(j.node)
	imetrics.IncNodesFired()
	if e.logger != nil {
		e.logger.Debug("node fired", "run", h.id, "node", j.node)
	}
	if err != nil {
		e.finish(h, nil, fmt.Errorf("run %s: %w", h.id, err))
		return
	}

	if h.instance.IsExit(j.node) {
		e.finish(h, out, nil)
		return
	}

	// Deliver every output token, then offer each distinct successor: the
	// arrival counter reaching zero and winning the firing latch together
	// grant the right to enqueue, exactly once per node and run.
	h.instance.Deliver(j.node, out)

	var ready []job
	for _, succ := range h.instance.Successors(j.node) {
		if h.instance.Offer(succ) {
			ready = append(ready, job{handler: h, node: succ})
		}
	}
	if len(ready) == 0 {
		return
	}

	e.mu.Lock()
	e.queue = append(e.queue, ready...)
	e.mu.Unlock()
	for range ready {
		e.cond.Signal()
	}
	imetrics.AddJobsQueued(len(ready))
}

// finish resolves a run and forgets its handler.
func (e *Executor) finish(h *handler, tokens []*token.Token, err error) {
	if !h.complete(tokens, err) {
		return
	}

	e.mu.Lock()
	delete(e.handlers, h.id)
	e.mu.Unlock()

	if err != nil {
		imetrics.IncRunsFailed()
		if e.logger != nil {
			e.logger.Debug("run failed", "run", h.id, "error", err)
		}
		return
	}
	imetrics.IncRunsCompleted()
	if e.logger != nil {
		e.logger.Debug("run completed", "run", h.id)
	}
}
