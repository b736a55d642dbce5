package zipt

import "sync/atomic"

// relayBufferSize is the capacity of the delta channel. Sends never block even when the buffer
// is full; an overflowing delta is carried into a later send instead of being dropped.
const relayBufferSize = 1024

// Relay aggregates byte-count deltas from one or more copy operations into a running total that
// a presentation layer can poll without ever blocking the I/O worker.
//
// The relay exclusively owns the running total: producers only send deltas via Add, and the
// single drain goroutine started by NewRelay is the only writer. Progress is best-effort by
// contract, so Add never fails and never applies backpressure; a send that cannot complete
// immediately is folded into the next one so the total stays exact.
//
// Each job owns its relay for exactly the job's lifetime: the pipeline calls Close when it
// returns, and consumers learn about termination from Done.
type Relay struct {
	ch    chan int64
	done  chan struct{}
	total atomic.Int64
	max   atomic.Int64
	carry atomic.Int64
}

// NewRelay returns a relay whose drain goroutine is already running.
func NewRelay() *Relay {
	r := &Relay{
		ch:   make(chan int64, relayBufferSize),
		done: make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		for n := range r.ch {
			r.total.Add(n)
		}
	}()

	return r
}

// Add reports n more bytes processed. It never blocks: when the channel is full, the delta is
// carried over into a later send. Safe to call on a nil relay.
func (r *Relay) Add(n int64) {
	if r == nil || n <= 0 {
		return
	}

	n += r.carry.Swap(0)
	select {
	case r.ch <- n:
	default:
		r.carry.Add(n)
	}
}

// SetMax records the total number of bytes the job expects to process, once sizing is done.
func (r *Relay) SetMax(n int64) {
	if r != nil {
		r.max.Store(n)
	}
}

// Max returns the expected total number of bytes, 0 while sizing has not completed. It never
// blocks.
func (r *Relay) Max() int64 {
	if r == nil {
		return 0
	}

	return r.max.Load()
}

// Current returns the running total of processed bytes. It never blocks, so a UI thread can
// poll it freely.
func (r *Relay) Current() int64 {
	if r == nil {
		return 0
	}

	return r.total.Load()
}

// Done is closed once Close has been called and every delta has been folded into the total.
func (r *Relay) Done() <-chan struct{} {
	if r == nil {
		return nil
	}

	return r.done
}

// Close marks the producer side finished. Any carried deltas are flushed first so Current
// converges to the exact total before Done closes. The owning pipeline calls Close exactly once
// when the job terminates, successfully or not.
func (r *Relay) Close() {
	if r == nil {
		return
	}

	if n := r.carry.Swap(0); n > 0 {
		// producers are quiescent by now so this blocking send drains promptly.
		r.ch <- n
	}

	close(r.ch)
}

// Wait blocks until the relay has fully drained after Close.
func (r *Relay) Wait() {
	if r != nil {
		<-r.done
	}
}
