package theme

import (
	"context"
	"sync"
)

// Task is a styling request running in the background.
type Task struct {
	done    chan struct{}
	styling *Styling
	err     error
}

// Done is closed once the task has a result.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Abandoning the wait
// does not cancel the task; cancel the context passed to Applier.Go for that.
func (t *Task) Wait(ctx context.Context) (*Styling, error) {
	select {
	case <-t.done:
		return t.styling, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Token marks a request's position in its target's sequence.
type Token struct {
	target string
	n      uint64
}

// Sequencer decides which of several overlapping requests for the same
// target is allowed to apply its result. The zero value is ready to use.
type Sequencer struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
}

// Begin issues a token for target. Requests without a target are never
// superseded.
func (s *Sequencer) Begin(target string) Token {
	if target == "" {
		return Token{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		s.latest = make(map[string]uint64)
	}
	s.next++
	s.latest[target] = s.next
	return Token{target: target, n: s.next}
}

// Finish reports whether tok is still the newest token for its target and
// releases the target when it is.
func (s *Sequencer) Finish(tok Token) bool {
	if tok.target == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[tok.target] != tok.n {
		return false
	}
	delete(s.latest, tok.target)
	return true
}

// Pending reports how many targets have an unfinished newest request.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest)
}
