package publish

import (
	"context"
	"strconv"
	"time"

	"github.com/oshokin/robot-alarm/internal/logger"
)

// Heartbeat periodically publishes a liveness message through a Gateway.
// It shares the gateway's lock with the dispatcher.
type Heartbeat struct {
	gateway  *Gateway
	topic    string
	interval time.Duration
}

// NewHeartbeat creates a heartbeat on the given topic.
func NewHeartbeat(gateway *Gateway, topic string, interval time.Duration) *Heartbeat {
	return &Heartbeat{
		gateway:  gateway,
		topic:    topic,
		interval: interval,
	}
}

// Run publishes every interval until ctx is cancelled. Failures are logged
// and the next tick tries again; a non-positive interval returns at once.
func (h *Heartbeat) Run(ctx context.Context) {
	if h.interval <= 0 {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var seq uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq++

			msg := Message{
				Topic:   h.topic,
				Payload: []byte(strconv.FormatUint(seq, 10)),
				QoS:     QoS0,
			}

			if err := h.gateway.Send(ctx, msg); err != nil {
				logger.WarnKV(ctx, "Heartbeat publish failed", "seq", seq, "error", err)
			}
		}
	}
}
