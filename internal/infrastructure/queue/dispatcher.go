package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

const (
	defaultWorkers        = 4
	channelBuffer         = 256
	defaultEnqueueTimeout = 100 * time.Millisecond
)

// AuditDispatcher hands audit records to a fixed set of workers so the
// request path never waits on the audit store. Records are sharded by user id,
// keeping each caller's records in decision order.
type AuditDispatcher struct {
	workers []chan domain.AuditRecord
	sink    access.Recorder
	log     zerolog.Logger
	onDrop  func()
	wait    time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers,
// each buffering up to buffer records. Non-positive values use the defaults.
func NewAuditDispatcher(numWorkers, buffer int, sink access.Recorder, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditRecord, numWorkers),
		sink:    sink,
		log:     log,
		wait:    defaultEnqueueTimeout,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditRecord, buffer)
	}
	return d
}

// OnDrop registers a hook run for every record discarded on a full queue.
func (d *AuditDispatcher) OnDrop(fn func()) {
	d.onDrop = fn
}

// EnqueueTimeout sets how long Record waits for room on a full queue before
// dropping. Zero drops immediately.
func (d *AuditDispatcher) EnqueueTimeout(wait time.Duration) {
	d.wait = wait
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close has drained their queue.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues rec. On a full queue it waits up to the enqueue timeout for
// room; after that, or once the dispatcher is closed, the record is dropped
// and reported. The caller's context is ignored so a cancelled request still
// gets its record.
func (d *AuditDispatcher) Record(_ context.Context, rec domain.AuditRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(rec, "dispatcher closed")
		return
	}

	ch := d.workers[d.shardIndex(rec.UserID)]
	select {
	case ch <- rec:
		return
	default:
	}
	if d.wait <= 0 {
		d.drop(rec, "queue full")
		return
	}

	timer := time.NewTimer(d.wait)
	defer timer.Stop()
	select {
	case ch <- rec:
	case <-timer.C:
		d.drop(rec, "queue full")
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *AuditDispatcher) drop(rec domain.AuditRecord, reason string) {
	d.log.Warn().
		Str("reason", reason).
		Str("user_id", rec.UserID).
		Str("resource", rec.Resource).
		Str("action", rec.Action).
		Msg("audit record dropped")
	if d.onDrop != nil {
		d.onDrop()
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	defer d.wg.Done()
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			d.log.Debug().Int("worker_id", id).Str("path", rec.Path).Msg("writing audit record")
			d.sink.Record(writeCtx, rec)
		}
	}
}
