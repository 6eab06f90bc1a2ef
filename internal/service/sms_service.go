package service

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSMSSender implements ports.SMSSender by logging the message instead of
// delivering it. Stands in until a real SMS provider is wired up.
type LogSMSSender struct {
	sender string
	log    zerolog.Logger
}

// NewLogSMSSender creates a logging SMS sender.
func NewLogSMSSender(sender string, log zerolog.Logger) *LogSMSSender {
	return &LogSMSSender{sender: sender, log: log}
}

// Send logs the message.
func (s *LogSMSSender) Send(ctx context.Context, toNumber, message string) error {
	s.log.Info().
		Str("sender", s.sender).
		Str("to", toNumber).
		Str("message", message).
		Msg("sms (log provider)")
	return nil
}
