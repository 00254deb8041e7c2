package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/autopeer-io/sentinel/internal/pkg/metrics"
	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
)

const (
	defaultWorkers         = 4
	defaultQueueSize       = 256
	defaultDispatchTimeout = 15 * time.Second
)

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of concurrent deliveries. Default: 4.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets how many alerts may wait for a worker. Default: 256.
// Zero hands alerts only to idle workers.
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) {
		if n >= 0 {
			p.queueSize = n
		}
	}
}

// WithDispatchTimeout bounds one delivery attempt. Default: 15s.
func WithDispatchTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

var _ core.AlertDispatcher = (*Pool)(nil)

// Pool delivers alerts on a fixed set of background workers, detached from
// the request that raised them. Submission never blocks: when the queue is
// full the alert is dropped and logged. Delivery is at most once.
type Pool struct {
	sink      core.AlertSink
	workers   int
	queueSize int
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan *model.AlertEvent
	wg     sync.WaitGroup
}

// NewPool starts the workers immediately.
func NewPool(sink core.AlertSink, opts ...PoolOption) *Pool {
	p := &Pool{
		sink:      sink,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		timeout:   defaultDispatchTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan *model.AlertEvent, p.queueSize)
	p.wg.Add(p.workers)
	for range p.workers {
		go p.work()
	}
	return p
}

// Dispatch submits the alert and logs when it cannot be accepted.
func (p *Pool) Dispatch(event *model.AlertEvent) {
	if err := p.Submit(event); err != nil {
		log.Error(err, "Dropping threat alert", "callSign", event.CallSign)
	}
}

// Submit enqueues the alert without blocking.
func (p *Pool) Submit(event *model.AlertEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		metrics.AlertsTotal.WithLabelValues("dropped").Inc()
		return ErrPoolClosed
	}

	select {
	case p.queue <- event:
		metrics.AlertQueueDepth.Set(float64(len(p.queue)))
		return nil
	default:
		metrics.AlertsTotal.WithLabelValues("dropped").Inc()
		return ErrPoolFull
	}
}

// Close stops accepting alerts and waits for queued ones to be delivered,
// or for ctx to expire.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Warn("Alert pool drain timed out", "pending", len(p.queue))
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for event := range p.queue {
		metrics.AlertQueueDepth.Set(float64(len(p.queue)))
		p.deliver(event)
	}
}

func (p *Pool) deliver(event *model.AlertEvent) {
	logger := log.WithValues("callSign", event.CallSign)
	defer func() {
		if r := recover(); r != nil {
			metrics.AlertsTotal.WithLabelValues("failed").Inc()
			logger.Warn("Alert sink panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.sink.Send(log.WithContext(ctx, logger), event); err != nil {
		metrics.AlertsTotal.WithLabelValues("failed").Inc()
		logger.Error(err, "Threat alert delivery failed")
		return
	}
	metrics.AlertsTotal.WithLabelValues("sent").Inc()
	logger.Info("Threat alert delivered")
}
