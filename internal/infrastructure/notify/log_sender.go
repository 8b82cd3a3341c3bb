// Package notify contains the delivery backends used by the notification
// dispatcher.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Piladin/ZTPAI/internal/core/ports"
)

// LogSender "delivers" a notification by writing it to the log after a fixed
// delay that stands in for a slow mail provider.
type LogSender struct {
	log   zerolog.Logger
	delay time.Duration
}

var _ ports.NotificationSender = (*LogSender)(nil)

func NewLogSender(log zerolog.Logger, delay time.Duration) *LogSender {
	return &LogSender{log: log, delay: delay}
}

func (s *LogSender) Send(ctx context.Context, n ports.Notification) error {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	s.log.Info().
		Str("to", n.Address).
		Str("subject", n.Subject).
		Str("message", n.Message).
		Msg("notification sent")
	return nil
}
