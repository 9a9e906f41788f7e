package hub

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	pdebug "github.com/lestrrat-go/pdebug"
)

// NewPayload creates a new Payload with the given data and batch flag.
func NewPayload[T any](data T, batch bool) *Payload[T] {
	return &Payload[T]{
		data:  data,
		batch: batch,
	}
}

// Batch returns true if this payload is part of a batch operation.
func (p *Payload[T]) Batch() bool {
	return p.batch
}

// Data returns the underlying data.
func (p *Payload[T]) Data() T {
	return p.data
}

// Done marks the request as done. If the payload was sent
// asynchronously it's a no op. Otherwise it releases the sender
// waiting for the task to complete.
func (p *Payload[T]) Done() {
	if p.done == nil {
		return
	}
	select {
	case p.done <- struct{}{}:
	default:
	}
}

// New creates a new Hub struct
func New(bufsiz int) *Hub {
	return &Hub{
		taskCh:    make(chan *Payload[Task], bufsiz),
		errWriter: os.Stderr,
	}
}

type operationNameKey struct{}
type batchPayloadKey struct{}
type tickKey struct{}

// Batch allows you to synchronously send messages during the
// scope of f() being executed.
func (h *Hub) Batch(ctx context.Context, f func(ctx context.Context), shouldLock bool) {
	if pdebug.Enabled {
		g := pdebug.Marker("Batch (shouldLock=%t)", shouldLock)
		defer g.End()
	}

	if shouldLock {
		// lock during this operation
		h.mutex.Lock()
		defer h.mutex.Unlock()
	}

	f(context.WithValue(ctx, batchPayloadKey{}, true))
}

func isBatchCtx(ctx context.Context) bool {
	var isBatchMode bool
	v := ctx.Value(batchPayloadKey{})
	if vv, ok := v.(bool); ok {
		isBatchMode = vv
	}
	return isBatchMode
}

func tickFrom(ctx context.Context) *tick {
	tk, _ := ctx.Value(tickKey{}).(*tick)
	return tk
}

// OnLoop reports whether ctx belongs to a task running on the UI context.
func OnLoop(ctx context.Context) bool {
	return tickFrom(ctx) != nil
}

type detachedCtx struct {
	context.Context
}

func (c detachedCtx) Value(key any) any {
	switch key.(type) {
	case tickKey, batchPayloadKey:
		return nil
	}
	return c.Context.Value(key)
}

// Detach returns a context with the values and cancellation of ctx that
// is no longer tied to the task ctx belongs to. Work that outlives the
// current task, such as timers, must post through a detached context.
func Detach(ctx context.Context) context.Context {
	return detachedCtx{ctx}
}

// send is the low-level generic utility for sending typed payloads.
// In batch mode it does not return until the receiver called Done,
// or ctx is canceled.
func send[T any](ctx context.Context, ch chan *Payload[T], r *Payload[T]) error {
	isBatchMode := isBatchCtx(ctx)
	if pdebug.Enabled {
		g := pdebug.Marker("hub.send (name=%s, isBatchMode=%t)", ctx.Value(operationNameKey{}), isBatchMode)
		defer g.End()
	}

	if isBatchMode {
		r.done = make(chan struct{}, 1)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- r:
	}

	if !isBatchMode {
		return nil
	}

	if pdebug.Enabled {
		pdebug.Printf("request is part of batch operation. waiting")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return nil
	}
}

// Post schedules t on the UI context. Called from a task already
// running on the UI context, t is queued behind the current task and
// runs once it returns (the "end of tick"). Otherwise t is sent to the
// loop; inside Batch the call waits until t has been executed.
func (h *Hub) Post(ctx context.Context, t Task) error {
	if tk := tickFrom(ctx); tk != nil {
		tk.deferred = append(tk.deferred, t)
		return nil
	}
	return send(context.WithValue(ctx, operationNameKey{}, "post task"), h.taskCh, NewPayload(t, isBatchCtx(ctx)))
}

// Do runs t on the UI context and waits for it, including everything
// t deferred to the end of its tick. Called on the UI context, t runs
// immediately.
func (h *Hub) Do(ctx context.Context, t Task) error {
	if OnLoop(ctx) {
		t(ctx)
		return nil
	}
	return send(
		context.WithValue(context.WithValue(ctx, operationNameKey{}, "do task"), batchPayloadKey{}, true),
		h.taskCh,
		NewPayload(t, true),
	)
}

// Loop executes tasks until ctx is canceled.
func (h *Hub) Loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-h.taskCh:
			h.run(ctx, p)
		}
	}
}

func (h *Hub) run(ctx context.Context, p *Payload[Task]) {
	defer p.Done()
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(h.errWriter, "wordjump: panic in UI task: %v\n%s", r, debug.Stack())
		}
	}()

	tk := &tick{}
	tctx := context.WithValue(ctx, tickKey{}, tk)
	p.Data()(tctx)
	for len(tk.deferred) > 0 {
		t := tk.deferred[0]
		tk.deferred = tk.deferred[1:]
		t(tctx)
	}
}
