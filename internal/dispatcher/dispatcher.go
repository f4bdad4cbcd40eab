package dispatcher

import (
	"context"

	"github.com/oshokin/robot-alarm/internal/domain/arming"
	"github.com/oshokin/robot-alarm/internal/domain/command"
	"github.com/oshokin/robot-alarm/internal/hardware"
	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/mailbox"
	"github.com/oshokin/robot-alarm/internal/sequencer"
)

// Confirmation tunes played when a setter is accepted.
const (
	alarmConfirmTune = "c"
	pathConfirmTune  = "d"
	ledConfirmTune   = "e"
)

// blinkToggles is the number of indicator toggles of a fast blink.
const blinkToggles = 10

// Player is the part of the sequencer the dispatcher drives.
type Player interface {
	arming.Player
	Beep(tune string)
}

// Publisher sends the publish-request payload.
type Publisher interface {
	PublishGreeting(ctx context.Context) error
}

// Observer is told about every arming change. It runs on the dispatcher
// goroutine and must not block for long.
type Observer interface {
	Observe(ctx context.Context, state arming.State, phase arming.Phase)
}

// Dispatcher consumes the mailbox and routes each command.
type Dispatcher struct {
	mailbox   *mailbox.Mailbox
	player    Player
	indicator hardware.Indicator
	publisher Publisher
	observer  Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObserver registers an arming observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// New creates a dispatcher.
func New(
	mb *mailbox.Mailbox,
	player Player,
	indicator hardware.Indicator,
	publisher Publisher,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		mailbox:   mb,
		player:    player,
		indicator: indicator,
		publisher: publisher,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run processes messages in FIFO order until ctx is cancelled. Once the
// alarm triggers, Run stays in the alarm loop and stops reading the mailbox;
// it returns ctx.Err() in both cases.
func (d *Dispatcher) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "dispatcher")
	state := arming.NewState()

	logger.InfoKV(ctx, "Dispatcher waiting for commands", "mailbox_size", d.mailbox.Cap())

	for {
		msg, err := d.mailbox.Get(ctx)
		if err != nil {
			logger.Info(ctx, "Dispatcher stopped")

			return err
		}

		msgCtx := logger.WithKV(ctx, "message_id", msg.ID.String())

		var triggered bool

		state, triggered = d.handle(msgCtx, state, command.Decode(msg.Bytes()))

		d.mailbox.Free(msg)

		if triggered {
			return d.trigger(ctx, state)
		}
	}
}

// trigger enters the terminal alarm state. It does not return while ctx lives.
func (d *Dispatcher) trigger(ctx context.Context, state arming.State) error {
	d.observe(ctx, state, arming.PhaseTriggered)

	return arming.RunAlarm(logger.WithName(ctx, "alarm"), state, d.player)
}

// handle executes one command and returns the next arming state and whether it triggered.
func (d *Dispatcher) handle(ctx context.Context, state arming.State, cmd command.Command) (arming.State, bool) {
	switch cmd.Action {
	case command.ActionPublish:
		logger.InfoKV(ctx, "Publishing greeting", "action", cmd.Action)

		if err := d.publisher.PublishGreeting(ctx); err != nil {
			logger.ErrorKV(ctx, "Publish failed", "error", err)
		}

		return state, false
	case command.ActionLEDPulse:
		logger.InfoKV(ctx, "Indicator on for one time-unit", "action", cmd.Action)
		d.pulse()

		return state, false
	case command.ActionLEDBlink:
		logger.InfoKV(ctx, "Blinking indicator", "action", cmd.Action)
		d.blink()

		return state, false
	case command.ActionSetAlarm:
		state = state.WithAlarmKind(cmd.Value)
		d.confirm(ctx, cmd, alarmConfirmTune, state)

		return state, false
	case command.ActionSetPath:
		state = state.WithPathKind(cmd.Value)
		d.confirm(ctx, cmd, pathConfirmTune, state)

		return state, false
	case command.ActionSetLED:
		state = state.WithLEDKind(cmd.Value)
		d.confirm(ctx, cmd, ledConfirmTune, state)

		return state, false
	case command.ActionSetDuration:
		next, triggered := state.WithDuration(cmd.Value)
		logger.InfoKV(ctx, "Duration set", "action", cmd.Action, "value", cmd.Value, "triggered", triggered)

		if !triggered {
			d.observe(ctx, next, next.Phase())
		}

		return next, triggered
	case command.ActionIgnored:
		logger.WarnKV(ctx, "Ignoring unrecognized command", "tag", cmd.Tag)

		return state, false
	default:
		logger.WarnKV(ctx, "Ignoring unsupported action", "action", cmd.Action)

		return state, false
	}
}

// confirm beeps for an accepted setter and reports the new state.
func (d *Dispatcher) confirm(ctx context.Context, cmd command.Command, tune string, state arming.State) {
	d.player.Beep(tune)
	logger.InfoKV(ctx, "Arming value set", "action", cmd.Action, "value", cmd.Value, "phase", state.Phase())
	d.observe(ctx, state, state.Phase())
}

// pulse asserts the indicator for one time-unit.
func (d *Dispatcher) pulse() {
	d.indicator.Write(true)
	d.player.Wait(sequencer.HoldUnit)
	d.indicator.Write(false)
}

// blink toggles the indicator every tenth of a time-unit and clears it.
func (d *Dispatcher) blink() {
	for range blinkToggles {
		d.indicator.Write(!d.indicator.Read())
		d.player.Wait(sequencer.HoldTenth)
	}

	d.indicator.Write(false)
}

// observe forwards an arming change to the observer, if any.
func (d *Dispatcher) observe(ctx context.Context, state arming.State, phase arming.Phase) {
	if d.observer == nil {
		return
	}

	d.observer.Observe(ctx, state, phase)
}
