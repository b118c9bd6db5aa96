package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

const (
	defaultWorkers     = 2
	defaultQueueSize   = 256
	defaultSendTimeout = 5 * time.Second
)

// Sender доставляет уведомление во внешний сервис
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Metrics счетчик доставки уведомлений
type Metrics interface {
	IncNotification(kind, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры очереди уведомлений
type Config struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher асинхронная очередь уведомлений с пулом воркеров.
// Enqueue никогда не блокирует вызывающего: при полной очереди уведомление отбрасывается.
type Dispatcher struct {
	sender      Sender
	metrics     Metrics
	logger      Logger
	workers     int
	sendTimeout time.Duration

	queue chan Notification
	wg    sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool

	dropped atomic.Int64
}

// NewDispatcher создает очередь уведомлений. metrics может быть nil.
func NewDispatcher(sender Sender, logger Logger, m Metrics, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if m == nil {
		m = (*metrics.Metrics)(nil)
	}

	return &Dispatcher{
		sender:      sender,
		metrics:     m,
		logger:      logger,
		workers:     cfg.Workers,
		sendTimeout: cfg.SendTimeout,
		queue:       make(chan Notification, cfg.QueueSize),
	}
}

// Start запускает воркеры. Повторный вызов ничего не делает.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	d.logger.Info("notify: dispatcher started with %d workers", d.workers)
}

// Stop перестает принимать уведомления и дожидается доставки уже поставленных в очередь
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if started {
		d.wg.Wait()
	}
	d.logger.Info("notify: dispatcher stopped, dropped=%d", d.dropped.Load())
}

// Enqueue ставит уведомление в очередь. Возвращает false, если уведомление отброшено.
func (d *Dispatcher) Enqueue(n Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(n, "dispatcher stopped")
		return false
	}

	select {
	case d.queue <- n:
		return true
	default:
		d.drop(n, "queue is full")
		return false
	}
}

// Dropped количество отброшенных уведомлений
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) drop(n Notification, reason string) {
	d.dropped.Add(1)
	d.metrics.IncNotification(string(n.Kind), metrics.DeliveryDropped)
	d.logger.Warn("notify: dropped %s for appointment id=%d: %s", n.Kind, n.AppointmentID, reason)
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for n := range d.queue {
		d.deliver(ctx, id, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.IncNotification(string(n.Kind), metrics.DeliveryFailed)
			d.logger.Error("notify: worker %d panic while sending %s: %v", workerID, n.Kind, r)
		}
	}()

	// Уведомления, принятые до остановки, доставляются даже после отмены ctx
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, n); err != nil {
		d.metrics.IncNotification(string(n.Kind), metrics.DeliveryFailed)
		d.logger.Error("notify: failed to send %s for appointment id=%d: %v", n.Kind, n.AppointmentID, err)
		return
	}

	d.metrics.IncNotification(string(n.Kind), metrics.DeliverySent)
}
