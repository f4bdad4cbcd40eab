package arming

import (
	"context"

	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/sequencer"
)

// Player is what the alarm loop needs from the actuator sequencer.
type Player interface {
	PlayTone(kind int)
	PlayIndicatorPattern(kind int)
	RunPath(kind int)
	Wait(h sequencer.Hold)
}

// RunAlarm is the triggered state. It waits the arming delay and then
// repeats tone, LED pattern and path until ctx is cancelled. No command can
// stop it; only process shutdown does, and the returned error is ctx.Err().
func RunAlarm(ctx context.Context, s State, p Player) error {
	logger.InfoKV(ctx, "Alarm about to go off",
		"alarm_kind", s.AlarmKind,
		"path_kind", s.PathKind,
		"led_kind", s.LEDKind,
		"duration_ticks", s.DurationTicks,
	)

	p.Wait(s.Delay())

	logger.Info(ctx, "Alarm going off")

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			logger.InfoKV(ctx, "Alarm loop stopped by shutdown", "rounds", round-1)

			return err
		}

		p.PlayTone(s.AlarmKind)
		p.PlayIndicatorPattern(s.LEDKind)
		p.RunPath(s.PathKind)

		logger.DebugKV(ctx, "Alarm round finished", "round", round)
	}
}
