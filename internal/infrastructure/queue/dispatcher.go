package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Piladin/ZTPAI/internal/api/metrics"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 256

	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusDuplicate = "duplicate"
)

// Options tunes a Dispatcher. Dedup and Log are optional.
type Options struct {
	Workers   int
	QueueSize int
	Dedup     ports.NotificationDedup
	Log       ports.NotificationLog
}

// Dispatcher delivers notifications out of band on a fixed set of workers.
// Notifications are sharded by recipient address, so one recipient's
// messages are delivered in the order they were enqueued.
type Dispatcher struct {
	mu      sync.RWMutex
	stopped bool
	workers []chan ports.Notification
	wg      sync.WaitGroup

	sender ports.NotificationSender
	dedup  ports.NotificationDedup
	store  ports.NotificationLog
	log    zerolog.Logger
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher. Non-positive sizes select the defaults.
func NewDispatcher(sender ports.NotificationSender, opts Options, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, opts.Workers),
		sender:  sender,
		dedup:   opts.Dedup,
		store:   opts.Log,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, opts.QueueSize)
	}
	return d
}

// Start launches all worker goroutines. Deliveries run under ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands n to the worker responsible for its address. It never blocks:
// when that worker's queue is full, or the dispatcher is stopped, n is
// dropped and logged.
func (d *Dispatcher) Enqueue(n ports.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(n, "dispatcher stopped")
		return
	}

	id := d.shardIndex(n.Address)
	select {
	case d.workers[id] <- n:
		metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(d.workers[id])))
	default:
		d.drop(n, "queue full")
	}
}

func (d *Dispatcher) drop(n ports.Notification, reason string) {
	metrics.NotificationsDroppedTotal.Inc()
	d.log.Warn().
		Str("to", n.Address).
		Str("subject", n.Subject).
		Str("reason", reason).
		Msg("notification dropped")
}

// Stop rejects further notifications and waits for queued ones to drain, or
// for ctx to end, whichever comes first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an address deterministically to a worker index.
func (d *Dispatcher) shardIndex(address string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(address))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	defer d.wg.Done()
	depth := metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for n := range ch {
		depth.Set(float64(len(ch)))
		if ctx.Err() != nil {
			d.drop(n, "shutting down")
			continue
		}
		d.process(ctx, id, n)
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, n ports.Notification) {
	start := time.Now()
	defer func() {
		metrics.NotificationDeliveryDuration.Observe(time.Since(start).Seconds())
	}()

	if d.dedup != nil {
		dup, err := d.dedup.IsDuplicate(ctx, n)
		if err != nil {
			// Redis trouble must not block delivery.
			d.log.Warn().Err(err).Str("to", n.Address).Msg("dedup check failed")
		}
		if dup {
			metrics.NotificationsProcessedTotal.WithLabelValues(StatusDuplicate).Inc()
			d.record(ctx, n, StatusDuplicate, nil)
			return
		}
	}

	if err := d.sender.Send(ctx, n); err != nil {
		metrics.NotificationsProcessedTotal.WithLabelValues(StatusFailed).Inc()
		d.log.Error().Err(err).
			Str("to", n.Address).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
		d.record(ctx, n, StatusFailed, err)
		return
	}

	metrics.NotificationsProcessedTotal.WithLabelValues(StatusSent).Inc()
	if d.dedup != nil {
		if err := d.dedup.Mark(ctx, n); err != nil {
			d.log.Warn().Err(err).Str("to", n.Address).Msg("dedup mark failed")
		}
	}
	d.record(ctx, n, StatusSent, nil)
}

func (d *Dispatcher) record(ctx context.Context, n ports.Notification, status string, cause error) {
	if d.store == nil {
		return
	}
	rec := ports.DeliveryRecord{
		Address:     n.Address,
		Subject:     n.Subject,
		Status:      status,
		ProcessedAt: time.Now().UTC(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := d.store.Record(ctx, rec); err != nil {
		d.log.Warn().Err(err).Str("to", n.Address).Msg("failed to record delivery")
	}
}
