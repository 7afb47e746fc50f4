// Package msgq provides the FIFO message queues that sit between the pipe
// I/O goroutines and application code.
package msgq

import (
    "context"
    "errors"
    "sync"
)

var (
    // ErrFull is returned by Push when a bounded queue is at its limit.
    ErrFull = errors.New("msgq: queue full")
    // ErrClosed is returned once the queue was closed and, for Pop, drained.
    ErrClosed = errors.New("msgq: queue closed")
)

// Queue is a mutex-guarded FIFO of byte messages. Waiters park on signal
// channels instead of polling, so an idle consumer costs nothing.
type Queue struct {
    mu     sync.Mutex
    items  [][]byte
    head   int
    limit  int // 0 = unbounded
    closed bool

    // avail and space hold at most one pending wakeup each.
    avail chan struct{}
    space chan struct{}
    done  chan struct{}
}

// New returns a queue holding at most limit messages; limit <= 0 means unbounded.
func New(limit int) *Queue {
    if limit < 0 { limit = 0 }
    return &Queue{
        limit: limit,
        avail: make(chan struct{}, 1),
        space: make(chan struct{}, 1),
        done:  make(chan struct{}),
    }
}

func notify(ch chan struct{}) {
    select {
    case ch <- struct{}{}:
    default:
    }
}

func (q *Queue) lenLocked() int { return len(q.items) - q.head }

// Push appends b without blocking.
func (q *Queue) Push(b []byte) error {
    q.mu.Lock()
    if q.closed {
        q.mu.Unlock()
        return ErrClosed
    }
    if q.limit > 0 && q.lenLocked() >= q.limit {
        q.mu.Unlock()
        return ErrFull
    }
    q.items = append(q.items, b)
    q.mu.Unlock()
    notify(q.avail)
    return nil
}

// PushWait appends b, waiting for room in a bounded queue until ctx is done
// or the queue is closed.
func (q *Queue) PushWait(ctx context.Context, b []byte) error {
    for {
        err := q.Push(b)
        if !errors.Is(err, ErrFull) {
            return err
        }
        select {
        case <-q.space:
        case <-q.done:
            return ErrClosed
        case <-ctx.Done():
            return ctx.Err()
        }
    }
}

// TryPop removes and returns the oldest message, if any.
func (q *Queue) TryPop() ([]byte, bool) {
    q.mu.Lock()
    if q.lenLocked() == 0 {
        q.mu.Unlock()
        return nil, false
    }
    b := q.items[q.head]
    q.items[q.head] = nil
    q.head++
    // compact once the consumed prefix dominates the backing array
    if q.head > 32 && q.head*2 >= len(q.items) {
        n := copy(q.items, q.items[q.head:])
        clear(q.items[n:])
        q.items = q.items[:n]
        q.head = 0
    }
    left := q.lenLocked()
    q.mu.Unlock()
    if left > 0 {
        // pass the wakeup on to another parked consumer
        notify(q.avail)
    }
    notify(q.space)
    return b, true
}

// Pop removes the oldest message, parking until one is pushed, ctx is done,
// or the queue is closed and empty.
func (q *Queue) Pop(ctx context.Context) ([]byte, error) {
    for {
        if b, ok := q.TryPop(); ok {
            return b, nil
        }
        select {
        case <-q.avail:
        case <-q.done:
            if b, ok := q.TryPop(); ok {
                return b, nil
            }
            return nil, ErrClosed
        case <-ctx.Done():
            return nil, ctx.Err()
        }
    }
}

// Len reports the number of queued messages.
func (q *Queue) Len() int {
    q.mu.Lock()
    defer q.mu.Unlock()
    return q.lenLocked()
}

// Close rejects further pushes and wakes every waiter. Queued messages can
// still be popped. Close is idempotent.
func (q *Queue) Close() {
    q.mu.Lock()
    defer q.mu.Unlock()
    if q.closed { return }
    q.closed = true
    close(q.done)
}
