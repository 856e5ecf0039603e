// Package graph provides a message-driven execution runtime for directed
// stage graphs. Stages process one message at a time, edges route emitted
// messages point-to-point or fan-out, and a run terminates when a stage
// produces the terminal result or all in-flight messages have drained.
package graph

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Handler processes a single message delivered to a stage. Messages to
// forward and the terminal result are registered on the Outbox; the runtime
// routes them after the handler returns.
type Handler func(ctx context.Context, msg any, out *Outbox) error

// Condition gates an edge. A nil Condition matches every message.
type Condition func(msg any) bool

// Config holds graph construction parameters.
type Config struct {
	Name     string
	Observer Observer
}

type edge struct {
	to   *node
	cond Condition
}

type node struct {
	name    string
	handler Handler
	edges   []edge

	// serializes handler invocations so stage state never races
	mu sync.Mutex
}

// Graph is a directed graph of named stages. Build it with AddStage, AddEdge,
// and SetEntryPoint, then drive it with Execute. A Graph is safe for
// sequential reuse; concurrent overlapping runs should each build their own.
type Graph struct {
	name     string
	observer Observer
	nodes    map[string]*node
	entry    *node
}

// New creates an empty Graph. A nil observer is replaced with a no-op.
func New(cfg Config) *Graph {
	observer := cfg.Observer
	if observer == nil {
		observer = NoopObserver()
	}
	return &Graph{
		name:     cfg.Name,
		observer: observer,
		nodes:    make(map[string]*node),
	}
}

// AddStage registers a named stage.
func (g *Graph) AddStage(name string, handler Handler) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownStage)
	}
	if handler == nil {
		return fmt.Errorf("stage %s: nil handler", name)
	}
	if _, ok := g.nodes[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStage, name)
	}
	g.nodes[name] = &node{name: name, handler: handler}
	return nil
}

// AddEdge connects two stages. Registering multiple edges from the same
// source forms a fan-out: every matching target receives the message. The
// condition may be nil to match unconditionally.
func (g *Graph) AddEdge(from, to string, cond Condition) error {
	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, to)
	}
	src.edges = append(src.edges, edge{to: dst, cond: cond})
	return nil
}

// SetEntryPoint marks the stage that receives the run input.
func (g *Graph) SetEntryPoint(name string) error {
	n, ok := g.nodes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}
	g.entry = n
	return nil
}

// Execute delivers input to the entry stage and drives the graph until a
// terminal result is produced or no messages remain in flight. Independent
// fan-out branches run concurrently; each stage serializes its own
// invocations. A stage error fails the run. A run that drains without a
// terminal result returns ErrNoResult.
func (g *Graph) Execute(ctx context.Context, input any) (any, error) {
	if g.entry == nil {
		return nil, fmt.Errorf("graph %s: %w", g.name, ErrNoEntryPoint)
	}

	run := &execution{graph: g}
	run.group, run.ctx = errgroup.WithContext(ctx)

	run.deliver(g.entry, input)

	if err := run.group.Wait(); err != nil {
		return nil, fmt.Errorf("graph %s: %w", g.name, err)
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	if !run.finished {
		return nil, fmt.Errorf("graph %s: %w", g.name, ErrNoResult)
	}
	return run.result, nil
}

// execution tracks the in-flight state of a single run.
type execution struct {
	graph *Graph
	group *errgroup.Group
	ctx   context.Context

	mu       sync.Mutex
	finished bool
	result   any
}

func (e *execution) deliver(n *node, msg any) {
	e.graph.observer(Event{Graph: e.graph.name, Stage: n.name, Kind: EventDelivered})

	e.group.Go(func() error {
		if err := e.ctx.Err(); err != nil {
			return err
		}

		out := &Outbox{}

		n.mu.Lock()
		err := n.handler(e.ctx, msg, out)
		n.mu.Unlock()

		if err != nil {
			e.graph.observer(Event{Graph: e.graph.name, Stage: n.name, Kind: EventFailed, Err: err})
			return fmt.Errorf("stage %s: %w", n.name, err)
		}

		if out.done {
			if err := e.finish(out.result); err != nil {
				return fmt.Errorf("stage %s: %w", n.name, err)
			}
			e.graph.observer(Event{Graph: e.graph.name, Stage: n.name, Kind: EventResult})
		}

		for _, sent := range out.sent {
			e.route(n, sent)
		}

		e.graph.observer(Event{Graph: e.graph.name, Stage: n.name, Kind: EventProcessed})
		return nil
	})
}

// route forwards a message along every edge whose condition matches. All
// matching targets receive the same value; messages are treated as immutable.
func (e *execution) route(from *node, msg any) {
	routed := false
	for _, ed := range from.edges {
		if ed.cond != nil && !ed.cond(msg) {
			continue
		}
		e.deliver(ed.to, msg)
		routed = true
	}
	if !routed {
		e.graph.observer(Event{Graph: e.graph.name, Stage: from.name, Kind: EventDropped})
	}
}

func (e *execution) finish(result any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finished {
		return ErrMultipleResults
	}
	e.finished = true
	e.result = result
	return nil
}
