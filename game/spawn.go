package game

import (
	"cmp"
	"slices"
	"sync"

	"github.com/pthm-cable/blips/blip"
)

// spawnEvent is a child produced by the blip at origin during one tick.
type spawnEvent struct {
	origin int
	child  blip.Blip
}

// spawnQueue collects spawn events from decision workers.
type spawnQueue struct {
	mu     sync.Mutex
	events []spawnEvent
}

// push records a child. Safe for concurrent use.
func (q *spawnQueue) push(origin int, child *blip.Blip) {
	q.mu.Lock()
	q.events = append(q.events, spawnEvent{origin: origin, child: *child})
	q.mu.Unlock()
}

// drain returns the collected events sorted by origin handle and empties
// the queue. The returned slice is reused by the next tick. Each origin
// spawns at most once per tick, so the order is total.
func (q *spawnQueue) drain() []spawnEvent {
	q.mu.Lock()
	events := q.events
	q.events = q.events[:0]
	q.mu.Unlock()

	slices.SortFunc(events, func(a, b spawnEvent) int {
		return cmp.Compare(a.origin, b.origin)
	})
	return events
}
