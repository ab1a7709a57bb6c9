package events

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Callback receives a dispatched event. evt is the package-specific
// payload the owner (Session or Viewport) chose to pass to Dispatch —
// this package never inspects it.
type Callback func(kind Kind, evt any)

// PanicHandler is invoked when a Callback panics, with the recovered
// value and a captured stack trace. The default handler is a no-op;
// callers that want panics surfaced (logged, turned into an error)
// install one via WithPanicHandler.
type PanicHandler func(kind Kind, recovered any, stack []byte)

type subscriber struct {
	id   uint64
	mask Kind
	cb   Callback
}

// Dispatcher holds an insertion-ordered set of mask-filtered
// subscribers and delivers events to them synchronously, recovering
// from any subscriber panic so one bad callback cannot take down the
// session (the Executor.Execute pattern, without the timing/Result
// bookkeeping that pattern's async use case needed).
type Dispatcher struct {
	mu           sync.Mutex
	subs         []*subscriber
	nextID       uint64
	dispatching  bool
	panicHandler PanicHandler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPanicHandler installs a handler invoked whenever a subscriber
// callback panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(d *Dispatcher) { d.panicHandler = h }
}

// New creates an empty Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{panicHandler: func(Kind, any, []byte) {}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers cb for delivery of any event matching mask,
// returning an id usable with Unsubscribe. Subscribers are delivered
// in the order they were added.
func (d *Dispatcher) Subscribe(mask Kind, cb Callback) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, &subscriber{id: id, mask: mask, cb: cb})
	return id
}

// Unsubscribe removes a previously registered subscriber.
func (d *Dispatcher) Unsubscribe(id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return nil
		}
	}
	return ErrUnknownSubscriber
}

// Dispatch delivers evt to every subscriber whose mask matches kind,
// in subscription order. Each callback is invoked with panic recovery;
// a panicking subscriber does not prevent delivery to the rest.
//
// Dispatch returns ErrReentrant if called while a Dispatch on this
// same Dispatcher is already in progress (a subscriber callback that
// triggers a new mutation reaches here through the owning Session,
// which checks IsDispatching before accepting any edit verb).
func (d *Dispatcher) Dispatch(kind Kind, evt any) error {
	d.mu.Lock()
	if d.dispatching {
		d.mu.Unlock()
		return ErrReentrant
	}
	d.dispatching = true
	subs := make([]*subscriber, len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.dispatching = false
		d.mu.Unlock()
	}()

	for _, s := range subs {
		if !s.mask.Matches(kind) {
			continue
		}
		d.invoke(s, kind, evt)
	}
	return nil
}

func (d *Dispatcher) invoke(s *subscriber, kind Kind, evt any) {
	defer func() {
		if r := recover(); r != nil {
			d.panicHandler(kind, r, debug.Stack())
		}
	}()
	s.cb(kind, evt)
}

// IsDispatching reports whether a Dispatch call is currently iterating
// subscribers on this Dispatcher.
func (d *Dispatcher) IsDispatching() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dispatching
}

// NumSubscribers returns the current subscriber count, for tests and
// diagnostics.
func (d *Dispatcher) NumSubscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

func (k Kind) String() string {
	switch k {
	case Create:
		return "Create"
	case Edit:
		return "Edit"
	case Undo:
		return "Undo"
	case Redo:
		return "Redo"
	case Clear:
		return "Clear"
	case Transform:
		return "Transform"
	case CreateViewport:
		return "CreateViewport"
	case Save:
		return "Save"
	case Destroy:
		return "Destroy"
	case ViewportCreate:
		return "ViewportCreate"
	case ViewportEdit:
		return "ViewportEdit"
	case ViewportUpdated:
		return "ViewportUpdated"
	case ViewportTransformStart:
		return "ViewportTransformStart"
	case ViewportTransformEnd:
		return "ViewportTransformEnd"
	case ViewportDestroy:
		return "ViewportDestroy"
	default:
		return fmt.Sprintf("Kind(%#x)", uint32(k))
	}
}
