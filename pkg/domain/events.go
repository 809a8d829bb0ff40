package domain

import (
	"context"
	"time"
)

// Source tells where a resolved record came from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
	SourceAbsent  Source = "absent"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Seed      string    `json:"seed,omitempty"`
}

// ResolveEvent reports the outcome of one record resolution.
type ResolveEvent struct {
	EventBase
	Kind   Kind   `json:"kind"`
	Hash   string `json:"hash"`
	Source Source `json:"source"`
}

// ExpandEvent reports one address-level expansion step.
type ExpandEvent struct {
	EventBase
	Iteration    int    `json:"iteration"`
	Address      string `json:"address"`
	FrontierSize int    `json:"frontier_size"`
	EdgesAdded   int    `json:"edges_added"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional.
type LifecycleHooks struct {
	OnResolve func(context.Context, *ResolveEvent)
	OnExpand  func(context.Context, *ExpandEvent)
}

// EmitResolve invokes OnResolve if set.
func (h LifecycleHooks) EmitResolve(ctx context.Context, ev *ResolveEvent) {
	if h.OnResolve != nil {
		h.OnResolve(ctx, ev)
	}
}

// EmitExpand invokes OnExpand if set.
func (h LifecycleHooks) EmitExpand(ctx context.Context, ev *ExpandEvent) {
	if h.OnExpand != nil {
		h.OnExpand(ctx, ev)
	}
}
