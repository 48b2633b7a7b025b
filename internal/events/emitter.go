package events

import (
	"log/slog"
	"sync/atomic"

	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// Raiser delivers one notification to the platform. snap is the snapshot
// the notification was computed against.
type Raiser interface {
	Raise(snap *tree.Snapshot, n Notification) error
}

// RaiserFunc adapts a function to Raiser.
type RaiserFunc func(snap *tree.Snapshot, n Notification) error

func (f RaiserFunc) Raise(snap *tree.Snapshot, n Notification) error { return f(snap, n) }

// Report summarizes one Emit call.
type Report struct {
	Sent   int     `yaml:"sent"             json:"sent"`
	Failed int     `yaml:"failed"           json:"failed"`
	Errors []error `yaml:"-"                json:"-"`
}

// Emitter delivers notifications in order. Delivery is best effort: a
// failed notification is logged and skipped, and never affects the tree.
type Emitter struct {
	raiser Raiser
	log    *slog.Logger
	sent   atomic.Uint64
	failed atomic.Uint64
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) { e.log = l }
}

// NewEmitter returns an emitter delivering through r.
func NewEmitter(r Raiser, opts ...Option) *Emitter {
	e := &Emitter{raiser: r, log: logger.L}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit delivers notes in order.
func (e *Emitter) Emit(snap *tree.Snapshot, notes []Notification) Report {
	var rep Report
	for _, n := range notes {
		if err := e.raise(snap, n); err != nil {
			derr := &DeliveryError{Notification: n, Err: err}
			rep.Failed++
			rep.Errors = append(rep.Errors, derr)
			e.failed.Add(1)
			e.log.Warn("notification delivery failed",
				"kind", n.Kind, "target", n.Target, "version", snap.Version(), "error", err)
			continue
		}
		rep.Sent++
		e.sent.Add(1)
	}
	return rep
}

func (e *Emitter) raise(snap *tree.Snapshot, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return e.raiser.Raise(snap, n)
}

// Totals returns the number of notifications delivered and failed so far.
func (e *Emitter) Totals() (sent, failed uint64) {
	return e.sent.Load(), e.failed.Load()
}

// Queue holds notifications computed under an update so they can be
// raised after the caller has released its own locks.
type Queue struct {
	emitter *Emitter
	snap    *tree.Snapshot
	notes   []Notification
}

// Queue prepares notes for later delivery.
func (e *Emitter) Queue(snap *tree.Snapshot, notes []Notification) *Queue {
	return &Queue{emitter: e, snap: snap, notes: notes}
}

// Notifications returns the queued notifications in delivery order.
func (q *Queue) Notifications() []Notification { return q.notes }

// Raise delivers the queued notifications.
func (q *Queue) Raise() Report {
	return q.emitter.Emit(q.snap, q.notes)
}
