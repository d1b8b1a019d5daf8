// ABOUTME: Fetch pool runs keyword ad fetches on a bounded set of worker goroutines
// ABOUTME: Results carry their input index so callers can restore input order

package workers

import (
	"context"
	"sync"
	"time"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
)

// FetchJob is one keyword to fetch
type FetchJob struct {
	Index    int
	Keyword  string
	Context  context.Context
	ResultCh chan<- FetchResult
}

// FetchResult is the outcome of one job. Err is set only when the keyword was
// never fetched (the run was cancelled first); fetch failures arrive as
// sentinel records from the fetcher.
type FetchResult struct {
	Index   int
	Keyword string
	Records []domain.AdRecord
	Err     error
}

// FetchPool manages a bounded set of fetch workers
type FetchPool struct {
	fetcher    interfaces.AdFetcher
	credential string
	asOf       time.Time
	jobQueue   chan *FetchJob
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
}

// PoolConfig holds configuration for the fetch pool
type PoolConfig struct {
	MaxWorkers int
	QueueSize  int
}

// defaults applied to zero PoolConfig fields
const (
	defaultMaxWorkers = 4
	defaultQueueSize  = 16
)

// NewFetchPool creates a pool that fetches with the given credential for the asOf day
func NewFetchPool(fetcher interfaces.AdFetcher, credential string, asOf time.Time, config PoolConfig) *FetchPool {
	ctx, cancel := context.WithCancel(context.Background())

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaultMaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaultQueueSize
	}

	return &FetchPool{
		fetcher:    fetcher,
		credential: credential,
		asOf:       asOf,
		jobQueue:   make(chan *FetchJob, config.QueueSize),
		maxWorkers: config.MaxWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the worker goroutines
func (p *FetchPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.ctx.Err() != nil {
		return ErrPoolStopped
	}

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.work()
	}

	p.running = true
	return nil
}

// Stop stops the workers and waits for them to exit. Queued jobs are dropped.
func (p *FetchPool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}

	p.cancel()
	p.wg.Wait()

	p.running = false
	return nil
}

// SubmitJob queues a job, blocking until there is room, ctx ends or the pool stops
func (p *FetchPool) SubmitJob(ctx context.Context, job *FetchJob) error {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		return ErrWorkerNotRunning
	}

	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// FetchAll fetches every keyword and returns the records grouped by input
// index. onResult, when set, is called from a single goroutine as each
// keyword completes. The pool is started and stopped around the call.
func (p *FetchPool) FetchAll(ctx context.Context, keywords []string, onResult func(FetchResult)) []FetchResult {
	results := make([]FetchResult, len(keywords))
	if len(keywords) == 0 {
		return results
	}

	if err := p.Start(); err != nil {
		for i, kw := range keywords {
			results[i] = FetchResult{Index: i, Keyword: kw, Err: err}
		}
		return results
	}
	defer p.Stop()

	resultCh := make(chan FetchResult, len(keywords))
	go func() {
		for i, kw := range keywords {
			job := &FetchJob{Index: i, Keyword: kw, Context: ctx, ResultCh: resultCh}
			if err := p.SubmitJob(ctx, job); err != nil {
				resultCh <- FetchResult{Index: i, Keyword: kw, Err: err}
			}
		}
	}()

	for range keywords {
		r := <-resultCh
		results[r.Index] = r
		if onResult != nil {
			onResult(r)
		}
	}
	return results
}

// work is the main loop for each worker
func (p *FetchPool) work() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			p.process(job)
		case <-p.ctx.Done():
			return
		}
	}
}

// process runs a single fetch job
func (p *FetchPool) process(job *FetchJob) {
	result := FetchResult{Index: job.Index, Keyword: job.Keyword}
	if err := job.Context.Err(); err != nil {
		result.Err = err
	} else {
		result.Records = p.fetcher.FetchAds(job.Context, job.Keyword, p.credential, p.asOf)
	}
	if job.ResultCh != nil {
		job.ResultCh <- result
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrPoolStopped      = &WorkerError{Message: "worker pool has been stopped"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
