package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/robot-alarm/internal/domain/command"
)

// TestParseSetter verifies setter names map to their actions.
func TestParseSetter(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]command.Action{
		"alarm":    command.ActionSetAlarm,
		"PATH":     command.ActionSetPath,
		"led":      command.ActionSetLED,
		"duration": command.ActionSetDuration,
	} {
		got, err := parseSetter(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := parseSetter("speed")
	require.Error(t, err)
}
