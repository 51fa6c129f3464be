// Package testutil holds in-memory stand-ins for the outbound ports.
package testutil

import (
	"context"
	"sync"

	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/internal/domain/media"
)

type Broadcast struct {
	Event   string
	Payload any
}

type Broadcaster struct {
	mu     sync.Mutex
	events []Broadcast
}

func (b *Broadcaster) Broadcast(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Broadcast{Event: event, Payload: payload})
}

func (b *Broadcaster) Events() []Broadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Broadcast(nil), b.events...)
}

func (b *Broadcaster) Names() []string {
	var out []string
	for _, e := range b.Events() {
		out = append(out, e.Event)
	}
	return out
}

type RelayCall struct {
	Op      string
	AssetID string
}

// Relay records calls and fails every call whose asset id is in FailFor.
type Relay struct {
	mu      sync.Mutex
	calls   []RelayCall
	FailFor map[string]error
}

func (r *Relay) record(op string, a asset.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := a.Common().ID
	r.calls = append(r.calls, RelayCall{Op: op, AssetID: id})
	if err, ok := r.FailFor[id]; ok {
		return err
	}
	if err, ok := r.FailFor["*"]; ok {
		return err
	}
	return nil
}

func (r *Relay) Apply(_ context.Context, a asset.Asset) error  { return r.record("apply", a) }
func (r *Relay) Remove(_ context.Context, a asset.Asset) error { return r.record("remove", a) }

func (r *Relay) Calls() []RelayCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RelayCall(nil), r.calls...)
}

type Publisher struct {
	mu     sync.Mutex
	canvas []canvas.Event
	media  []media.StoredEvent
}

func (p *Publisher) PublishCanvasEvent(_ context.Context, ev canvas.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canvas = append(p.canvas, ev)
	return nil
}

func (p *Publisher) PublishMediaEvent(_ context.Context, ev media.StoredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.media = append(p.media, ev)
	return nil
}

func (p *Publisher) CanvasEvents() []canvas.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]canvas.Event(nil), p.canvas...)
}

func (p *Publisher) MediaEvents() []media.StoredEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]media.StoredEvent(nil), p.media...)
}
