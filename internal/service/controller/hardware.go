package controller

import (
	"context"
	"fmt"

	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/hardware"
	"github.com/oshokin/robot-alarm/internal/hardware/sim"
	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/sequencer"
)

// hardwareSet is the actuator side of the controller.
type hardwareSet struct {
	sequencer *sequencer.Sequencer
	indicator hardware.Indicator
}

// newHardware builds the simulated robot. The actuation log may run at its
// own level so bench runs can trace every step without debug noise elsewhere.
func newHardware(ctx context.Context, cfg *config.Config) (*hardwareSet, error) {
	log := logger.FromContext(ctx)

	if cfg.HardwareLogLevel != "" {
		level, ok := logger.ParseLogLevel(cfg.HardwareLogLevel)
		if !ok {
			return nil, fmt.Errorf("invalid hardware log level %q", cfg.HardwareLogLevel)
		}

		log = log.WithOptions(logger.WithLevel(level))
	}

	robot := sim.NewRobot(log)
	sensor := sim.NewSensor(cfg.Proximity.SensorReading())

	seq := sequencer.New(robot, sensor, cfg.TimeUnit, sequencer.WithGuard(sequencer.Guard{
		Scale:      cfg.Proximity.Scale,
		Threshold:  cfg.Proximity.Threshold,
		Correction: cfg.Proximity.Correction,
	}))

	return &hardwareSet{
		sequencer: seq,
		indicator: sim.NewIndicator(log),
	}, nil
}
