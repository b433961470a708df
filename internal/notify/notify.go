// Package notify delivers best-effort notifications off the request path.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventure/internal/lib/logger/sl"
	"eventure/internal/notify/email"
)

var (
	ErrQueueFull  = errors.New("notification queue is full")
	ErrNotRunning = errors.New("notification dispatcher is not running")
)

type Sender interface {
	Send(ctx context.Context, msg email.Message) error
}

type Config struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueSize:   256,
		Workers:     2,
		SendTimeout: 10 * time.Second,
	}
}

// Dispatcher queues emails and sends them from a small worker pool. Every
// message is attempted once; failures are logged and dropped.
type Dispatcher struct {
	log    *slog.Logger
	sender Sender
	cfg    Config
	queue  chan email.Message
	stopCh chan struct{}
	wg     sync.WaitGroup

	// lifecycle serializes Start and Stop; mu guards running for Notify.
	lifecycle sync.Mutex
	mu        sync.RWMutex
	running   bool
}

func NewDispatcher(log *slog.Logger, sender Sender, cfg Config) *Dispatcher {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}

	return &Dispatcher{
		log:    log.With(slog.String("component", "notify.dispatcher")),
		sender: sender,
		cfg:    cfg,
		queue:  make(chan email.Message, cfg.QueueSize),
	}
}

// Start launches the workers. A stopped dispatcher can be started again.
func (d *Dispatcher) Start() error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("notification dispatcher already running")
	}
	d.running = true
	d.stopCh = make(chan struct{})

	d.log.Info("starting notification dispatcher", slog.Int("workers", d.cfg.Workers))

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work(d.stopCh)
	}

	return nil
}

// Stop refuses new messages, sends whatever is still queued and waits for
// the workers to exit.
func (d *Dispatcher) Stop() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.log.Info("stopping notification dispatcher")
	close(d.stopCh)
	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}

// Notify enqueues msg without blocking.
func (d *Dispatcher) Notify(_ context.Context, msg email.Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrNotRunning
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) work(stopCh <-chan struct{}) {
	defer d.wg.Done()

	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-stopCh:
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(msg email.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	log := d.log.With(
		slog.String("to", msg.To),
		slog.String("template", msg.Template),
	)

	if err := d.sender.Send(ctx, msg); err != nil {
		log.Error("failed to send email", sl.Err(err))
		return
	}

	log.Info("email sent")
}
