package sweep

import (
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-attackpath/pkg/logging"
)

// Pool manages a fixed set of worker goroutines
type Pool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewPool creates a worker pool with the specified number of workers.
// A count below one is clamped to one.
func NewPool(workers int) (*Pool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &Pool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}

	pool.start()
	return pool, nil
}

// start initializes the worker goroutines
func (p *Pool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker processes tasks from the queue
func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.taskQueue {
		// Recover from panics in tasks to prevent worker crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Warn("sweep worker panic recovered", logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the pool.
// Returns false if the pool is closed, true if the task was submitted.
func (p *Pool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Check if pool is closed while holding read lock
	if p.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	p.taskQueue <- task
	return true
}

// Close shuts down the pool and waits for in-flight tasks to finish.
// Closing more than once is safe.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.taskQueue)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
