package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing listen address.
	err := Validate(new(Config))
	require.Error(t, err)

	// Bad listen address.
	err = Validate(&Config{ListenAddress: "no-port"})
	require.Error(t, err)

	// Bad broker address.
	err = Validate(&Config{ListenAddress: ":50051", BrokerAddress: "bad:address"})
	require.Error(t, err)

	// Negative mailbox.
	err = Validate(&Config{ListenAddress: ":50051", MailboxSize: -1})
	require.Error(t, err)

	// Unknown log level.
	err = Validate(&Config{ListenAddress: ":50051", HardwareLogLevel: "chatty"})
	require.Error(t, err)
}

// TestValidate_Defaults ensures optional fields are filled.
func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{ListenAddress: "127.0.0.1:0"}
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultTopic, cfg.Topic)
	require.Equal(t, DefaultTopic+"/heartbeat", cfg.HeartbeatTopic)
	require.Equal(t, DefaultTimeUnit, cfg.TimeUnit)
	require.Equal(t, DefaultMailboxSize, cfg.MailboxSize)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultLockFilename, cfg.LockFile)
	require.Equal(t, DefaultStatusFilename, cfg.StatusFile)
	require.InDelta(t, DefaultProximityScale, cfg.Proximity.Scale, 0)
	require.InDelta(t, DefaultProximityThreshold, cfg.Proximity.Threshold, 0)
	require.InDelta(t, DefaultProximityCorrection, cfg.Proximity.Correction, 0)
	require.InDelta(t, DefaultProximityReading, cfg.Proximity.SensorReading(), 0)
	require.Zero(t, cfg.HeartbeatInterval)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ListenAddress:     "127.0.0.1:50051",
		BrokerAddress:     "127.0.0.1:50052",
		HeartbeatInterval: 3 * time.Second,
		TimeUnit:          100 * time.Millisecond,
		MailboxSize:       4,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, cfg.BrokerAddress, loaded.BrokerAddress)
	require.Equal(t, cfg.HeartbeatInterval, loaded.HeartbeatInterval)
	require.Equal(t, cfg.TimeUnit, loaded.TimeUnit)
	require.Equal(t, 4, loaded.MailboxSize)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_ParsesYAML verifies keys and nested proximity settings.
func TestLoad_ParsesYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := []byte(`listen_addr: ":7000"
topic: "lab/robot"
time_unit: 250ms
proximity:
  reading: 0.2
  threshold: 3
`)
	require.NoError(t, os.WriteFile(path, contents, DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.ListenAddress)
	require.Equal(t, "lab/robot", cfg.Topic)
	require.Equal(t, 250*time.Millisecond, cfg.TimeUnit)
	require.InDelta(t, 0.2, cfg.Proximity.SensorReading(), 1e-9)
	require.InDelta(t, 3.0, cfg.Proximity.Threshold, 1e-9)
	require.InDelta(t, DefaultProximityScale, cfg.Proximity.Scale, 0)
}

// TestLoad_ZeroReadingKept verifies an explicit zero reading is not replaced by the default.
func TestLoad_ZeroReadingKept(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := []byte(`listen_addr: ":7000"
proximity:
  reading: 0
`)
	require.NoError(t, os.WriteFile(path, contents, DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Proximity.Reading)
	require.Zero(t, cfg.Proximity.SensorReading())

	// Survives a save and reload.
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Zero(t, loaded.Proximity.SensorReading())

	require.InDelta(t, DefaultProximityReading, new(Proximity).SensorReading(), 0)
}
