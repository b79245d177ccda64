package sqlite

import "sync"

// guard is a writer-preferring readers/writer lock built from one mutex and
// one condition variable.
//
// An exclusive holder keeps mu locked for its whole critical section. That
// alone serialises writers and keeps new readers out, since a reader cannot
// even increment readers until mu is free. Readers admitted before a writer
// arrived are drained by the writer waiting for readers to reach zero.
//
// A bypassed guard does nothing; it is used when the caller guarantees a
// single goroutine (stream mode).
type guard struct {
	mu        sync.Mutex
	cond      *sync.Cond
	readers   int
	exclusive int
	bypass    bool
}

func (g *guard) init(bypass bool) {
	g.cond = sync.NewCond(&g.mu)
	g.bypass = bypass
}

func (g *guard) acquireRead() {
	if g.bypass {
		return
	}
	g.mu.Lock()
	for g.exclusive > 0 {
		g.cond.Wait()
	}
	g.readers++
	g.mu.Unlock()
}

func (g *guard) releaseRead() {
	if g.bypass {
		return
	}
	g.mu.Lock()
	g.readers--
	g.cond.Broadcast()
	g.mu.Unlock()
}

// acquireExclusive returns with mu held; releaseExclusive unlocks it.
func (g *guard) acquireExclusive() {
	if g.bypass {
		return
	}
	g.mu.Lock()
	g.exclusive++
	for g.readers > 0 {
		g.cond.Wait()
	}
}

func (g *guard) releaseExclusive() {
	if g.bypass {
		return
	}
	g.exclusive--
	g.cond.Broadcast()
	g.mu.Unlock()
}
