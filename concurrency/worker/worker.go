package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrPoolStopped = errors.New("worker pool is stopped")
	ErrTaskTimeout = errors.New("task timed out")
)

// Config represents pool configuration
type Config struct {
	MaxWorkers  int           // maximum number of workers
	QueueSize   int           // task queue size
	TaskTimeout time.Duration // timeout for single task, 0 disables it
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxWorkers:  8,
		QueueSize:   256,
		TaskTimeout: 30 * time.Second,
	}
}

// Validate validates configuration
func (cfg *Config) Validate() error {
	if cfg.MaxWorkers < 1 {
		return errors.New("max workers must be greater than 0")
	}
	if cfg.QueueSize < 1 {
		return errors.New("queue size must be greater than 0")
	}
	if cfg.TaskTimeout < 0 {
		return errors.New("task timeout must be greater than or equal to 0")
	}
	return nil
}

// Task is a unit of work run on a pool worker.
type Task func(ctx context.Context) error

type job struct {
	task Task
	done chan error
}

// Metrics tracks pool's operational metrics
type Metrics struct {
	ActiveWorkers  atomic.Int64
	PendingTasks   atomic.Int64
	CompletedTasks atomic.Int64
	FailedTasks    atomic.Int64
	ProcessingTime atomic.Int64 // nanoseconds
}

// Pool runs CPU bound work, such as password hashing, on a fixed set of
// goroutines so a burst of requests cannot spawn unbounded work.
type Pool struct {
	maxWorkers  int
	queueSize   int
	taskTimeout time.Duration

	mu      sync.RWMutex
	stopped bool
	tasks   chan *job
	wg      sync.WaitGroup

	metrics *Metrics
}

// NewPool creates a new worker pool
//
// Usage:
//
//	pool := worker.NewPool(&worker.Config{MaxWorkers: 4, QueueSize: 64})
//	pool.Start()
//	defer pool.Stop(context.Background())
//
//	err := pool.Do(ctx, func(ctx context.Context) error {
//	    hash, err = bcrypt.GenerateFromPassword(pw, 12)
//	    return err
//	})
func NewPool(cfg *Config) *Pool {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Pool{
		maxWorkers:  cfg.MaxWorkers,
		queueSize:   cfg.QueueSize,
		taskTimeout: cfg.TaskTimeout,
		tasks:       make(chan *job, cfg.QueueSize),
		metrics:     &Metrics{},
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop closes the queue and waits for queued tasks to drain or ctx to end.
func (p *Pool) Stop(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Submit enqueues a task without waiting for it. It fails fast with
// ErrQueueFull when the queue has no room.
func (p *Pool) Submit(task Task) error {
	return p.enqueue(context.Background(), &job{task: task, done: make(chan error, 1)}, false)
}

// Do enqueues a task and blocks until it finishes or ctx is done.
func (p *Pool) Do(ctx context.Context, task Task) error {
	j := &job{task: task, done: make(chan error, 1)}
	if err := p.enqueue(ctx, j, true); err != nil {
		return err
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) enqueue(ctx context.Context, j *job, wait bool) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	if wait {
		select {
		case p.tasks <- j:
		case <-ctx.Done():
			return ctx.Err()
		}
	} else {
		select {
		case p.tasks <- j:
		default:
			return ErrQueueFull
		}
	}

	p.metrics.PendingTasks.Add(1)
	return nil
}

// worker represents a worker goroutine
func (p *Pool) worker() {
	defer p.wg.Done()

	for j := range p.tasks {
		p.process(j)
	}
}

// process runs a single job and reports its result on j.done
func (p *Pool) process(j *job) {
	start := time.Now()
	p.metrics.ActiveWorkers.Add(1)
	p.metrics.PendingTasks.Add(-1)

	ctx := context.Background()
	var cancel context.CancelFunc = func() {}
	if p.taskTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
	}

	doneCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				doneCh <- fmt.Errorf("task panicked: %v", r)
			}
		}()
		doneCh <- j.task(ctx)
	}()

	var err error
	select {
	case err = <-doneCh:
	case <-ctx.Done():
		err = ErrTaskTimeout
	}
	cancel()

	p.metrics.ActiveWorkers.Add(-1)
	p.metrics.ProcessingTime.Add(time.Since(start).Nanoseconds())
	if err != nil {
		p.metrics.FailedTasks.Add(1)
	} else {
		p.metrics.CompletedTasks.Add(1)
	}

	j.done <- err
}

// GetMetrics returns the current metrics
func (p *Pool) GetMetrics() map[string]int64 {
	return map[string]int64{
		"active_workers":  p.metrics.ActiveWorkers.Load(),
		"pending_tasks":   p.metrics.PendingTasks.Load(),
		"completed_tasks": p.metrics.CompletedTasks.Load(),
		"failed_tasks":    p.metrics.FailedTasks.Load(),
		"processing_time": p.metrics.ProcessingTime.Load(),
	}
}

// IsBusy returns whether the pool is busy
func (p *Pool) IsBusy() bool {
	return p.metrics.ActiveWorkers.Load() >= int64(p.maxWorkers) ||
		p.metrics.PendingTasks.Load() >= int64(p.queueSize)
}
