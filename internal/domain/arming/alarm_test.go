package arming

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/robot-alarm/internal/hardware/fake"
	"github.com/oshokin/robot-alarm/internal/sequencer"
)

// runUntilStops runs the alarm loop and cancels it after the given number of path stops.
func runUntilStops(t *testing.T, s State, stops int) []fake.Event {
	t.Helper()

	rec := fake.NewRecorder(0)
	seq := sequencer.New(rec, rec.Sensor(), time.Second, sequencer.WithClock(rec))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := 0

	rec.OnEvent(func(e fake.Event) {
		if e.Op == fake.OpStop {
			seen++
			if seen == stops {
				cancel()
			}
		}
	})

	err := RunAlarm(ctx, s, seq)
	require.ErrorIs(t, err, context.Canceled)

	return rec.Events()
}

// TestRunAlarm_Scenario checks LED 1, path 0, alarm 1, duration 5: a half
// unit delay, then tone 1, pattern 1 and path 0 repeating.
func TestRunAlarm_Scenario(t *testing.T) {
	t.Parallel()

	s := NewState().WithLEDKind(1).WithPathKind(0).WithAlarmKind(1)
	s, triggered := s.WithDuration(5)
	require.True(t, triggered)

	events := runUntilStops(t, s, 2)

	round := []fake.Event{
		{Op: fake.OpBuzzer, Tune: "a b c d e d c b"},
		{Op: fake.OpLEDs, Pattern: 10},
		{Op: fake.OpSleep, Duration: 100 * time.Millisecond},
		{Op: fake.OpLEDs, Pattern: 112},
		{Op: fake.OpSleep, Duration: 10 * time.Millisecond},
		{Op: fake.OpLEDs, Pattern: 124},
		{Op: fake.OpSleep, Duration: 10 * time.Millisecond},
		{Op: fake.OpForward, Speed: 0.5},
		{Op: fake.OpSleep, Duration: time.Second},
		{Op: fake.OpLeft, Speed: 1},
		{Op: fake.OpSleep, Duration: time.Second},
		{Op: fake.OpForward, Speed: 0.5},
		{Op: fake.OpSleep, Duration: time.Second},
		{Op: fake.OpStop},
	}

	want := []fake.Event{{Op: fake.OpSleep, Duration: 500 * time.Millisecond}}
	want = append(want, round...)
	want = append(want, round...)

	require.Equal(t, want, events)
}

// TestRunAlarm_NoProximityCheck verifies the loop runs the bare path, not the guarded one.
func TestRunAlarm_NoProximityCheck(t *testing.T) {
	t.Parallel()

	s := NewState().WithLEDKind(0).WithPathKind(1).WithAlarmKind(0)
	s, _ = s.WithDuration(1)

	events := runUntilStops(t, s, 3)

	for _, e := range events {
		require.NotEqual(t, fake.OpSense, e.Op)
	}

	require.Equal(t, fake.Event{Op: fake.OpBuzzer, Tune: "g32"}, events[1])
}

// TestRunAlarm_CancelledBeforeStart verifies shutdown during the arming delay stops the loop.
func TestRunAlarm_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	rec := fake.NewRecorder(0)
	seq := sequencer.New(rec, nil, time.Second, sequencer.WithClock(rec))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := NewState().WithAlarmKind(0).WithPathKind(0).WithLEDKind(0).WithDuration(2)

	err := RunAlarm(ctx, s, seq)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []fake.Event{{Op: fake.OpSleep, Duration: 200 * time.Millisecond}}, rec.Events())
}
