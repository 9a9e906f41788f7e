package wordjump

import (
	"context"
	"time"

	"github.com/peco/wordjump/hub"
)

func newDebouncer(ctx context.Context, h *hub.Hub, delay time.Duration, fn hub.Task) *debouncer {
	return &debouncer{
		ctx:   ctx,
		hub:   h,
		fn:    fn,
		delay: delay,
	}
}

// Restart (re)arms the timer. Only the firing of the most recent
// Restart reaches fn; older timers that already expired find their
// generation outdated once they get to run on the UI context.
//
// Restart, Stop and SetDelay must be called on the UI context.
func (d *debouncer) Restart() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = true

	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		_ = d.hub.Post(d.ctx, func(ctx context.Context) {
			if gen != d.gen || !d.pending {
				return
			}
			d.pending = false
			d.fn(ctx)
		})
	})
}

// Stop cancels any pending firing.
func (d *debouncer) Stop() {
	d.gen++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether the timer is armed and has not fired yet.
func (d *debouncer) Pending() bool {
	return d.pending
}

// SetDelay changes the delay used by subsequent calls to Restart.
func (d *debouncer) SetDelay(delay time.Duration) {
	d.delay = delay
}
