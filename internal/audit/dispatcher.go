package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/care-scheduler/internal/metrics"
)

const (
	queueSize       = 1000
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

type Event struct {
	ProviderID uint
	ActorID    *uint
	ActorRole  string
	Action     string
	Entity     string
	EntityID   *uint
	RequestID  string
	Metadata   any
}

// Sink persists one event.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink    Sink
	log     *zap.Logger
	metrics *metrics.Collector
	queue   chan Event
	done    chan struct{}

	// mu guards closed; senders hold it for reading so the queue is never
	// closed under them.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, log *zap.Logger, m *metrics.Collector) *Dispatcher {
	d := &Dispatcher{
		sink:    sink,
		log:     log,
		metrics: m,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.sink.Write(ctx, ev); err != nil {
			d.log.Error("failed to persist audit event",
				zap.String("action", ev.Action),
				zap.Uint("provider_id", ev.ProviderID),
				zap.Error(err),
			)
		} else {
			d.metrics.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}

// Dispatch never blocks. When the queue is full or the dispatcher has been
// shut down the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.AuditBufferDropped.Inc()
		d.log.Warn("audit dispatcher stopped, dropping event",
			zap.String("action", ev.Action),
			zap.String("entity", ev.Entity),
		)
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.metrics.AuditBufferDropped.Inc()
		d.log.Warn("audit queue full, dropping event",
			zap.String("action", ev.Action),
			zap.String("entity", ev.Entity),
		)
	}
}

// Shutdown drains the queue. Later calls to Dispatch drop their event and
// repeated calls to Shutdown only wait for the drain.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-time.After(shutdownTimeout):
		d.log.Warn("audit shutdown timed out; some events may be lost")
	}
}
