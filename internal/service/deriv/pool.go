package deriv

import "context"

// Pool bounds concurrent websocket sessions. Each fetch holds one slot for
// the lifetime of its session; slot waits respect the caller's context, so
// a deadline reached while queued surfaces before any dial happens. The
// session itself carries the same deadline on its connection, so a timed
// out task closes its socket and returns the slot instead of lingering.
type Pool struct {
	slots chan struct{}
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Acquire blocks until a slot is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) Release() {
	<-p.slots
}

// InFlight reports the number of slots currently held.
func (p *Pool) InFlight() int {
	return len(p.slots)
}
