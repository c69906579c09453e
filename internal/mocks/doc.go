// Package mocks provides function-field test doubles for the repository and service interfaces.
// Every mock records the names of the methods it receives in Calls and falls back to returning
// Err when no behavior function is set.
package mocks

import "sync"

type callRecorder struct {
	mu    sync.Mutex
	Calls []string
}

func (r *callRecorder) record(name string) {
	r.mu.Lock()
	r.Calls = append(r.Calls, name)
	r.mu.Unlock()
}

// CallCount returns how many times method was invoked
func (r *callRecorder) CallCount(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Calls {
		if c == method {
			n++
		}
	}
	return n
}
