// Package mail delivers outgoing email. SMTPSender talks to a real relay,
// LogSender stands in when no relay is configured, and WithTimeout bounds
// any sender.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. Delivery failures wrap
// common.ErrMailDispatch.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type timeoutSender struct {
	next    Sender
	timeout time.Duration
}

// WithTimeout bounds every Send of next to d. On expiry Send returns an
// error matching both common.ErrMailTimeout and common.ErrMailDispatch;
// the underlying send keeps its context and is expected to give up on it.
// A non-positive d returns next unchanged.
func WithTimeout(next Sender, d time.Duration) Sender {
	if d <= 0 {
		return next
	}
	return &timeoutSender{next: next, timeout: d}
}

func (s *timeoutSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.next.Send(ctx, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %w after %v", common.ErrMailDispatch, common.ErrMailTimeout, s.timeout)
		}
		return fmt.Errorf("%w: %w", common.ErrMailDispatch, ctx.Err())
	}
}
