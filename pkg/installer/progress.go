package installer

import "sync"

// Progress carries phase and item counters from the install worker to a
// display goroutine. The worker writes, the display reads; both go through
// the mutex. All methods are safe on a nil receiver so callers without a
// display can pass nil.
type Progress struct {
	mu    sync.Mutex
	phase string
	done  int
	total int
}

// StartPhase resets the counters for a new phase.
func (p *Progress) StartPhase(name string, total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = name
	p.done = 0
	p.total = total
}

// Advance marks one item of the current phase complete.
func (p *Progress) Advance() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
}

// AddTotal grows the current phase by n items. Folder entries expand into
// an unknown number of files, so totals are discovered as the phase runs.
func (p *Progress) AddTotal(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total += n
}

// Snapshot returns the current phase name and counters.
func (p *Progress) Snapshot() (phase string, done, total int) {
	if p == nil {
		return "", 0, 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase, p.done, p.total
}
