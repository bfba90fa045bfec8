package sequencer

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Sink delivers one control message to the synthesis server. No reply is
// expected.
type Sink interface {
	Send(address string, args ...any) error
}

// Message is one recorded control message.
type Message struct {
	Address string
	Args    []any
	At      time.Duration
}

var errInjected = errors.New("injected send failure")

// Recorder keeps every message in memory, stamped with the clock time.
// When FailAt is positive, the FailAt-th send (counting from 1) and every
// send after it fail.
type Recorder struct {
	Clock  Clock
	FailAt int

	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Send(address string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAt > 0 && len(r.messages)+1 >= r.FailAt {
		return errInjected
	}

	var at time.Duration
	if r.Clock != nil {
		at = r.Clock.Now()
	}
	r.messages = append(r.messages, Message{
		Address: address,
		Args:    append([]any(nil), args...),
		At:      at,
	})
	return nil
}

// Messages returns a copy of what has been recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Addresses lists the recorded addresses in order.
func (r *Recorder) Addresses() []string {
	msgs := r.Messages()
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Address
	}
	return out
}

// LogSink writes every message to a structured logger instead of the
// network. Used for dry runs.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(address string, args ...any) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("send", "address", address, "args", args)
	return nil
}
