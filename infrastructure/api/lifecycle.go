package api

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// errSuperseded is the cancellation cause recorded when a newer request
// with the same id replaces an outstanding one.
var errSuperseded = errors.New("request superseded by a newer call with the same id")

type inflight struct {
	cancel context.CancelCauseFunc
}

// lifecycleManager guarantees at most one outstanding request per logical
// request id and supports cooperative cancellation by id prefix. It holds
// no global state; every Client owns its own instance.
type lifecycleManager struct {
	mu       sync.Mutex
	inflight map[string]*inflight
}

func newLifecycleManager() *lifecycleManager {
	return &lifecycleManager{inflight: make(map[string]*inflight)}
}

// Begin cancels any outstanding request registered under id, then registers
// a fresh cancellable context derived from parent. The returned handle must
// be passed back to Complete when the request finishes, whatever the
// outcome.
func (m *lifecycleManager) Begin(parent context.Context, id string) (context.Context, *inflight) {
	ctx, cancel := context.WithCancelCause(parent)
	e := &inflight{cancel: cancel}

	m.mu.Lock()
	if prev, ok := m.inflight[id]; ok {
		prev.cancel(errSuperseded)
	}
	m.inflight[id] = e
	m.mu.Unlock()

	return ctx, e
}

// Complete releases the bookkeeping entry. The entry is only removed while
// it still belongs to this request; a superseding Begin owns the slot now.
func (m *lifecycleManager) Complete(id string, e *inflight) {
	m.mu.Lock()
	if cur, ok := m.inflight[id]; ok && cur == e {
		delete(m.inflight, id)
	}
	m.mu.Unlock()

	// Release the context's resources; cancelling an already finished
	// request is a no-op for its caller.
	e.cancel(nil)
}

// CancelAll cancels every outstanding request, or only those whose id
// starts with prefix when prefix is non-empty. Used on teardown.
func (m *lifecycleManager) CancelAll(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.inflight {
		if prefix != "" && !strings.HasPrefix(id, prefix) {
			continue
		}
		e.cancel(context.Canceled)
		delete(m.inflight, id)
	}
}

// Outstanding counts registered in-flight requests.
func (m *lifecycleManager) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inflight)
}
