package status

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/domain/arming"
	"github.com/oshokin/robot-alarm/internal/logger"
)

// Snapshot is the arming state at a point in time.
type Snapshot struct {
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time
	// Phase is the arming phase.
	Phase arming.Phase
	// State holds the latched settings.
	State arming.State
}

// Repository defines persistence operations for arming snapshots.
type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Field names of the JSON document.
const (
	fieldTimestamp     = "timestamp"
	fieldPhase         = "phase"
	fieldAlarmKind     = "alarm_kind"
	fieldPathKind      = "path_kind"
	fieldLEDKind       = "led_kind"
	fieldDurationTicks = "duration_ticks"
)

var (
	// ErrNotFound is returned when no snapshot has been written yet.
	ErrNotFound = errors.New("status not found")
	// errMalformed is returned when the file does not hold a snapshot.
	errMalformed = errors.New("malformed status")
)

// FileRepository persists snapshots to a JSON file on disk.
// The document is a google.protobuf.Struct encoded with protojson, the
// same shape the gRPC status endpoint returns.
type FileRepository struct {
	// path is the filesystem location of the JSON file.
	path string
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the last snapshot from disk.
func (r *FileRepository) Load(_ context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read status file: %w", err)
	}

	var doc structpb.Struct
	if err = protojson.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode status file: %w", err)
	}

	return FromStruct(&doc)
}

// Save writes the snapshot to disk.
func (r *FileRepository) Save(_ context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := ToStruct(snapshot)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true}.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}

	return nil
}

// Observe saves the arming change. Failures are logged: a status file must
// never stall the dispatcher.
func (r *FileRepository) Observe(ctx context.Context, state arming.State, phase arming.Phase) {
	snapshot := &Snapshot{
		Timestamp: time.Now().UTC(),
		Phase:     phase,
		State:     state,
	}

	if err := r.Save(ctx, snapshot); err != nil {
		logger.ErrorKV(ctx, "Failed to persist arming status", "error", err)
	}
}

// ToStruct converts a snapshot into a protobuf Struct.
func ToStruct(snapshot *Snapshot) (*structpb.Struct, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("%w: snapshot is nil", errMalformed)
	}

	doc, err := structpb.NewStruct(map[string]any{
		fieldTimestamp:     snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
		fieldPhase:         snapshot.Phase.String(),
		fieldAlarmKind:     snapshot.State.AlarmKind,
		fieldPathKind:      snapshot.State.PathKind,
		fieldLEDKind:       snapshot.State.LEDKind,
		fieldDurationTicks: snapshot.State.DurationTicks,
	})
	if err != nil {
		return nil, fmt.Errorf("build status: %w", err)
	}

	return doc, nil
}

// FromStruct converts a protobuf Struct back into a snapshot.
func FromStruct(doc *structpb.Struct) (*Snapshot, error) {
	fields := doc.GetFields()

	phaseName := fields[fieldPhase].GetStringValue()

	phase, ok := arming.ParsePhase(phaseName)
	if !ok {
		return nil, fmt.Errorf("%w: phase %q", errMalformed, phaseName)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, fields[fieldTimestamp].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp: %w", errMalformed, err)
	}

	return &Snapshot{
		Timestamp: timestamp,
		Phase:     phase,
		State: arming.State{
			AlarmKind:     intField(fields, fieldAlarmKind),
			PathKind:      intField(fields, fieldPathKind),
			LEDKind:       intField(fields, fieldLEDKind),
			DurationTicks: intField(fields, fieldDurationTicks),
		},
	}, nil
}

// intField reads a numeric field, treating a missing one as unset.
func intField(fields map[string]*structpb.Value, name string) int {
	v, ok := fields[name]
	if !ok {
		return arming.Unset
	}

	return int(v.GetNumberValue())
}
