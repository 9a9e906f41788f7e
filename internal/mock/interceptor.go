// Package mock provides test doubles for the host editor.
package mock

import "sync"

// Interceptor records the calls made on a test double, by name.
type Interceptor struct {
	m      sync.Mutex
	Events map[string][][]any
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		Events: make(map[string][][]any),
	}
}

func (i *Interceptor) Reset() {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events = make(map[string][][]any)
}

func (i *Interceptor) Record(name string, args ...any) {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events[name] = append(i.Events[name], args)
}

// Calls returns the arguments of every recorded call of name.
func (i *Interceptor) Calls(name string) [][]any {
	i.m.Lock()
	defer i.m.Unlock()

	out := make([][]any, len(i.Events[name]))
	copy(out, i.Events[name])
	return out
}

// Count returns how often name was called.
func (i *Interceptor) Count(name string) int {
	i.m.Lock()
	defer i.m.Unlock()

	return len(i.Events[name])
}
