package mail

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

type message struct {
	to      string
	subject string
	body    string
}

// Dispatcher fans outbound mail to a fixed set of workers, sharded by
// recipient so mails to the same address keep their order. It satisfies
// ports.Mailer: Send enqueues and returns, delivery happens on the workers
// with a single retry. Callers never fail a request because a mail bounced.
type Dispatcher struct {
	workers []chan message
	sender  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers wrapping
// the given sender. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan message, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues a mail for asynchronous delivery. Non-blocking up to
// channelBuffer capacity per worker.
func (d *Dispatcher) Send(_ context.Context, to, subject, htmlBody string) error {
	d.workers[d.shardIndex(to)] <- message{to: to, subject: subject, body: htmlBody}
	return nil
}

func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			err := d.sender.Send(ctx, msg.to, msg.subject, msg.body)
			if err != nil {
				// one retry, then give up; the triggering action already
				// succeeded and must not be rolled back
				err = d.sender.Send(ctx, msg.to, msg.subject, msg.body)
			}
			if err != nil {
				d.log.Error().Err(err).
					Str("to", msg.to).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}
