package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/rulemake/internal/rule"
)

// Recorder collects action invocations in the order they happen.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Action returns an action that records "name" when invoked without
// arguments and "name(a,b)" when invoked with arguments.
func (r *Recorder) Action(name string) rule.Action {
	return rule.ActionFunc(func(_ context.Context, args ...string) error {
		r.record(name, args)
		return nil
	})
}

// Failing returns an action that records its invocation and returns err.
func (r *Recorder) Failing(name string, err error) rule.Action {
	return rule.ActionFunc(func(_ context.Context, args ...string) error {
		r.record(name, args)
		return err
	})
}

func (r *Recorder) record(name string, args []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(args) == 0 {
		r.calls = append(r.calls, name)
		return
	}
	r.calls = append(r.calls, fmt.Sprintf("%s(%s)", name, strings.Join(args, ",")))
}

// Calls returns a copy of the recorded invocations.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count reports how many times the exact call string was recorded.
func (r *Recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}
