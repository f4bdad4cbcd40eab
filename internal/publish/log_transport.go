package publish

import (
	"context"

	"github.com/oshokin/robot-alarm/internal/logger"
)

// LogTransport writes publishes to the log. It is used when no broker is configured.
type LogTransport struct{}

// Publish logs the message and always succeeds.
func (LogTransport) Publish(ctx context.Context, msg Message) error {
	logger.InfoKV(ctx, "Publish",
		"topic", msg.Topic,
		"payload", string(msg.Payload),
		"qos", int(msg.QoS),
		"retained", msg.Retained,
		"dup", msg.Dup,
	)

	return nil
}
