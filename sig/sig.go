// Package sig forwards OS signals to a handler until the handler asks
// to stop or the context is canceled.
package sig

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ReceivedHandler handles one signal. Returning false ends Loop.
type ReceivedHandler interface {
	Handle(os.Signal) bool
}

type ReceivedHandlerFunc func(os.Signal) bool

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(sig os.Signal) bool {
	return s(sig)
}

type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal
}

// New creates a new signal handler that forwards the specified signals (default: SIGTERM, SIGINT, SIGHUP) to h.
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
	}
}

// Loop forwards signals to the handler until it returns false or ctx
// is canceled. cancel is called when Loop returns.
func (h *Handler) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer signal.Stop(h.sigCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-h.sigCh:
			if !h.onSignalReceived.Handle(sig) {
				return nil
			}
		}
	}
}

// Terminating reports whether sig asks the process to end.
func Terminating(sig os.Signal) bool {
	switch sig {
	case syscall.SIGTERM, syscall.SIGINT:
		return true
	}
	return false
}
