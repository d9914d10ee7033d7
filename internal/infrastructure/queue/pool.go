package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketdesk/portfolio-api/internal/api/metrics"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

const channelBuffer = 256

var ErrPoolStopped = errors.New("hash pool stopped")

type job struct {
	ctx  context.Context
	run  func(ctx context.Context)
	done chan struct{}
	// err is set before done closes when the job was skipped.
	err error
}

// HashPool runs password hashing and verification on a fixed set of worker
// goroutines so that request goroutines only wait on a channel while the
// memory-hard work happens elsewhere. It implements ports.PasswordHasher by
// delegating to the wrapped hasher.
type HashPool struct {
	inner   ports.PasswordHasher
	workers int
	jobs    chan *job
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewHashPool(inner ports.PasswordHasher, numWorkers int, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		inner:   inner,
		workers: numWorkers,
		jobs:    make(chan *job, channelBuffer),
		log:     log,
	}
}

// Start launches the workers. They run until Stop is called, so requests
// still in flight during shutdown can finish their hashing.
func (p *HashPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
	p.log.Debug().Int("workers", p.workers).Msg("hash pool started")
}

// Stop closes the queue and waits for queued jobs to finish.
func (p *HashPool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Hash runs the wrapped hasher on a worker.
func (p *HashPool) Hash(ctx context.Context, password, salt string) (string, error) {
	var (
		out string
		err error
	)
	start := time.Now()
	if subErr := p.submit(ctx, func(ctx context.Context) {
		out, err = p.inner.Hash(ctx, password, salt)
	}); subErr != nil {
		return "", subErr
	}
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	return out, err
}

// Verify runs the wrapped verifier on a worker.
func (p *HashPool) Verify(ctx context.Context, encodedHash, password, salt string) (bool, error) {
	var (
		ok  bool
		err error
	)
	start := time.Now()
	if subErr := p.submit(ctx, func(ctx context.Context) {
		ok, err = p.inner.Verify(ctx, encodedHash, password, salt)
	}); subErr != nil {
		return false, subErr
	}
	metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return ok, err
}

// submit enqueues fn and blocks until it has run or ctx is done. A nil
// error means fn ran to completion.
func (p *HashPool) submit(ctx context.Context, fn func(ctx context.Context)) error {
	j := &job{ctx: ctx, run: fn, done: make(chan struct{})}

	p.mu.RLock()
	if p.stopped {
		p.mu.RUnlock()
		return ErrPoolStopped
	}
	select {
	case p.jobs <- j:
		metrics.HashPoolQueueDepth.Set(float64(len(p.jobs)))
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}
	p.mu.RUnlock()

	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		// The worker will skip or finish the job on its own; fn only writes
		// to variables owned by the abandoned call.
		return ctx.Err()
	}
}

func (p *HashPool) runWorker(id int) {
	defer p.wg.Done()
	for j := range p.jobs {
		metrics.HashPoolQueueDepth.Set(float64(len(p.jobs)))
		if err := j.ctx.Err(); err != nil {
			p.log.Debug().Int("worker_id", id).Msg("skipping cancelled hash job")
			j.err = err
			close(j.done)
			continue
		}
		j.run(j.ctx)
		close(j.done)
	}
}
