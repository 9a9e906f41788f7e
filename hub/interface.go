package hub

import (
	"context"
	"io"
	"sync"
)

// Task is a unit of work executed on the UI context.
type Task func(context.Context)

// Hub serializes every state-mutating operation of the editor onto a
// single logical UI context. Tasks are executed one at a time, in the
// order they were received; a task may defer follow-up work to the end
// of its own tick through Post.
type Hub struct {
	mutex     sync.Mutex
	taskCh    chan *Payload[Task]
	errWriter io.Writer
}

// Payload is a wrapper around the actual request value that needs
// to be passed. It contains an optional channel field which can
// be filled to force synchronous communication between the
// sender and receiver
type Payload[T any] struct {
	data  T
	batch bool
	done  chan struct{}
}

// tick collects the tasks deferred by the task currently executing.
type tick struct {
	deferred []Task
}
