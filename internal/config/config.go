package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/robot-alarm/internal/logger"
)

// Config holds the settings shared by the robot binaries.
type Config struct {
	// ListenAddress is the gRPC address the controller accepts commands on.
	ListenAddress string `yaml:"listen_addr"`
	// BrokerAddress is the gRPC publish sink. Empty means publishes are only logged.
	BrokerAddress string `yaml:"broker_addr"`
	// Topic is the fixed topic of publish-request messages.
	Topic string `yaml:"topic"`
	// HeartbeatTopic is the topic used by the heartbeat publisher.
	HeartbeatTopic string `yaml:"heartbeat_topic"`
	// HeartbeatInterval is the heartbeat period. Zero disables the heartbeat.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	// TimeUnit is the real duration of one sequencer time-unit.
	TimeUnit time.Duration `yaml:"time_unit"`
	// MailboxSize is the number of mailbox slots.
	MailboxSize int `yaml:"mailbox_size"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LockFile guards against two controllers driving the same robot.
	LockFile string `yaml:"lock_file"`
	// StatusFile is the path of the arming snapshot JSON.
	StatusFile string `yaml:"status_file"`
	// Proximity holds the motion guard constants.
	Proximity Proximity `yaml:"proximity"`
	// LogLevel is the zap level name for the process.
	LogLevel string `yaml:"log_level"`
	// HardwareLogLevel is the level of the simulated driver's actuation log.
	HardwareLogLevel string `yaml:"hardware_log_level"`
}

// Proximity configures the one-shot obstacle check after a path.
type Proximity struct {
	// Scale multiplies the raw sensor reading.
	Scale float64 `yaml:"scale"`
	// Threshold is compared against the scaled reading.
	Threshold float64 `yaml:"threshold"`
	// Correction is the magnitude of the extra left turn.
	Correction float64 `yaml:"correction"`
	// Reading is the constant value returned by the simulated sensor.
	// Nil means DefaultProximityReading; zero is a valid reading.
	Reading *float64 `yaml:"reading,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for robot settings.
	DefaultConfigFilename = "robot-settings.yaml"

	// DefaultStatusFilename is the default filename for the arming snapshot.
	DefaultStatusFilename = "robot-status.json"

	// DefaultLockFilename is the default single-instance lock file.
	DefaultLockFilename = "robot-controller.lock"

	// DefaultTopic is the topic publish-request messages are sent to.
	DefaultTopic = "anrg-pi4/robot"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTimeUnit is the default length of one time-unit.
	DefaultTimeUnit = time.Second

	// DefaultMailboxSize is the default number of mailbox slots.
	DefaultMailboxSize = 16

	// DefaultProximityScale is the default multiplier of the sensor reading.
	DefaultProximityScale = 5
	// DefaultProximityThreshold is the default obstacle threshold.
	DefaultProximityThreshold = 10
	// DefaultProximityCorrection is the default correction turn magnitude.
	DefaultProximityCorrection = 0.5
	// DefaultProximityReading is the default simulated sensor value.
	DefaultProximityReading = 1.0

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errListenAddressRequired is returned when the listen address is missing.
	errListenAddressRequired = errors.New("listen address must be provided")
	// errNegativeValue is returned for negative sizes and intervals.
	errNegativeValue = errors.New("value must not be negative")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for the optional ones.
//
//nolint:cyclop // A flat list of defaults reads better than helpers.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		return errListenAddressRequired
	}

	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.BrokerAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.BrokerAddress); err != nil {
			return fmt.Errorf("invalid broker address: %w", err)
		}
	}

	if cfg.MailboxSize < 0 {
		return fmt.Errorf("mailbox_size: %w", errNegativeValue)
	}

	if cfg.HeartbeatInterval < 0 {
		return fmt.Errorf("heartbeat_interval: %w", errNegativeValue)
	}

	for _, level := range []string{cfg.LogLevel, cfg.HardwareLogLevel} {
		if strings.TrimSpace(level) == "" {
			continue
		}

		if _, ok := logger.ParseLogLevel(level); !ok {
			return fmt.Errorf("invalid log level %q", level)
		}
	}

	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}

	if cfg.HeartbeatTopic == "" {
		cfg.HeartbeatTopic = cfg.Topic + "/heartbeat"
	}

	if cfg.TimeUnit <= 0 {
		cfg.TimeUnit = DefaultTimeUnit
	}

	if cfg.MailboxSize == 0 {
		cfg.MailboxSize = DefaultMailboxSize
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LockFile == "" {
		cfg.LockFile = DefaultLockFilename
	}

	if cfg.StatusFile == "" {
		cfg.StatusFile = DefaultStatusFilename
	}

	cfg.Proximity.applyDefaults()

	return nil
}

// applyDefaults fills zero-valued proximity constants.
func (p *Proximity) applyDefaults() {
	if p.Scale == 0 {
		p.Scale = DefaultProximityScale
	}

	if p.Threshold == 0 {
		p.Threshold = DefaultProximityThreshold
	}

	if p.Correction == 0 {
		p.Correction = DefaultProximityCorrection
	}

	if p.Reading == nil {
		reading := DefaultProximityReading
		p.Reading = &reading
	}
}

// SensorReading returns the simulated sensor value, or the default when unset.
func (p *Proximity) SensorReading() float64 {
	if p.Reading == nil {
		return DefaultProximityReading
	}

	return *p.Reading
}
