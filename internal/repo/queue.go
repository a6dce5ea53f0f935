package repo

import "sync"

// job is a unit of work run by a pool worker.
type job func()

// jobQueue is a thread-safe FIFO queue of jobs.
//
// The queue is unbounded so that submitting never blocks the caller; the
// worker count bounds how many jobs run at once.
//
// The queue uses a channel for signaling so workers can sleep until work
// arrives or the queue is closed.
type jobQueue struct {
	mu     sync.Mutex
	jobs   []job
	closed bool
	signal chan struct{} // Signals job availability (buffered, size 1)
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		jobs:   make([]job, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a job to the back of the queue.
// Returns false if the queue is closed.
func (q *jobQueue) Enqueue(j job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.jobs = append(q.jobs, j)

	// Non-blocking: a buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front job without blocking.
// done is true once the queue is closed and drained.
func (q *jobQueue) TryDequeue() (j job, ok bool, done bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return nil, false, q.closed
	}

	j = q.jobs[0]

	// Nil out the slot so the closure can be collected
	q.jobs[0] = nil
	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
		// Pass the wakeup on so another idle worker picks up the rest
		if !q.closed {
			select {
			case q.signal <- struct{}{}:
			default:
			}
		}
	}

	return j, true, false
}

// Wait returns a channel that signals when jobs may be available.
// The channel is closed when the queue is closed.
func (q *jobQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued jobs.
func (q *jobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close stops accepting jobs and wakes every waiting worker.
// Jobs already queued are still handed out.
func (q *jobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
