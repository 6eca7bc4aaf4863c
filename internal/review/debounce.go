// internal/review/debounce.go
//
// Status flips are cheap, repeated clicks; writing every one of them
// would hammer the backend for no reason. The save gate coalesces them
// with a trailing-edge debounce: each Schedule restarts the window with
// the latest snapshot, and only the final snapshot of a burst goes out.
// Deliberate actions (edits, comment saves and deletes) bypass the gate
// entirely.

package review

import (
	"sync"
	"time"

	"github.com/yourusername/guidelens/internal/api"
)

// DefaultDebounceWindow is the idle time after which a burst of status
// updates is finally persisted.
const DefaultDebounceWindow = 1000 * time.Millisecond

// saveGate owns the one debounce timer of a controller.
type saveGate struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	pending api.PushRequest
	write   func(api.PushRequest)
	stopped bool
}

func newSaveGate(window time.Duration, write func(api.PushRequest)) *saveGate {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &saveGate{window: window, write: write}
}

// Schedule restarts the debounce window with a fresh snapshot. Earlier
// snapshots waiting in the gate are replaced, never sent.
func (g *saveGate) Schedule(snapshot api.PushRequest) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	g.pending = snapshot
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.window, g.fire)
}

// FlushImmediate writes a snapshot now, without touching any pending
// timer. A burst of status flips still lands on its own schedule.
func (g *saveGate) FlushImmediate(snapshot api.PushRequest) {
	g.mu.Lock()
	stopped := g.stopped
	g.mu.Unlock()
	if stopped {
		return
	}
	g.write(snapshot)
}

// Stop cancels any pending write and refuses further ones. Called on
// controller teardown so a stale record is never written against the
// next guideline selection.
func (g *saveGate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *saveGate) fire() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	snapshot := g.pending
	g.timer = nil
	g.mu.Unlock()
	g.write(snapshot)
}
