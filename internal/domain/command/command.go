package command

import "fmt"

// Action is the closed set of commands the dispatcher understands.
type Action int

// Actions. ActionIgnored covers every tag outside the set.
const (
	ActionIgnored Action = iota
	ActionPublish
	ActionLEDPulse
	ActionLEDBlink
	ActionSetAlarm
	ActionSetPath
	ActionSetLED
	ActionSetDuration
)

// Wire tags stored at TagOffset of a message.
const (
	TagPublish     byte = 0x00
	TagLEDPulse    byte = 0x01
	TagLEDBlink    byte = 0x02
	TagSetAlarm    byte = 'a'
	TagSetPath     byte = 'p'
	TagSetLED      byte = 'l'
	TagSetDuration byte = 't'
)

// Layout of a message content buffer.
const (
	// RouteOffset holds the producer's routing byte. The dispatcher ignores it.
	RouteOffset = 0
	// TagOffset holds the action tag.
	TagOffset = 1
	// ValueOffset holds the setter value.
	ValueOffset = 2
)

// RouteLED is the routing byte producers put in front of dispatcher commands.
const RouteLED byte = 'L'

// Command is a decoded message.
type Command struct {
	// Action is the decoded action.
	Action Action
	// Tag is the raw tag byte, kept for logging ignored commands.
	Tag byte
	// Value is the setter value; zero for other actions.
	Value int
}

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionPublish:
		return "publish"
	case ActionLEDPulse:
		return "led-on-pulse"
	case ActionLEDBlink:
		return "led-blink-fast"
	case ActionSetAlarm:
		return "set-alarm-kind"
	case ActionSetPath:
		return "set-path-kind"
	case ActionSetLED:
		return "set-led-kind"
	case ActionSetDuration:
		return "set-duration"
	case ActionIgnored:
		return "ignored"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// IsSetter reports whether the action updates the arming state.
func (a Action) IsSetter() bool {
	switch a {
	case ActionSetAlarm, ActionSetPath, ActionSetLED, ActionSetDuration:
		return true
	default:
		return false
	}
}

// Decode reads the action tag and, for setters, the value byte.
// Short buffers and unknown tags decode to ActionIgnored.
func Decode(content []byte) Command {
	if len(content) <= TagOffset {
		return Command{Action: ActionIgnored}
	}

	tag := content[TagOffset]
	cmd := Command{
		Action: actionOf(tag),
		Tag:    tag,
	}

	if !cmd.Action.IsSetter() {
		return cmd
	}

	if len(content) <= ValueOffset {
		return Command{Action: ActionIgnored, Tag: tag}
	}

	cmd.Value = int(content[ValueOffset])

	return cmd
}

// Encode builds the content buffer for an action. Value is used by setters only.
func Encode(action Action, value byte) ([]byte, error) {
	tag, ok := tagOf(action)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEncodable, action)
	}

	if action.IsSetter() {
		return []byte{RouteLED, tag, value}, nil
	}

	return []byte{RouteLED, tag}, nil
}

// actionOf maps a wire tag to its action.
func actionOf(tag byte) Action {
	switch tag {
	case TagPublish:
		return ActionPublish
	case TagLEDPulse:
		return ActionLEDPulse
	case TagLEDBlink:
		return ActionLEDBlink
	case TagSetAlarm:
		return ActionSetAlarm
	case TagSetPath:
		return ActionSetPath
	case TagSetLED:
		return ActionSetLED
	case TagSetDuration:
		return ActionSetDuration
	default:
		return ActionIgnored
	}
}

// tagOf maps an action to its wire tag.
func tagOf(action Action) (byte, bool) {
	switch action {
	case ActionPublish:
		return TagPublish, true
	case ActionLEDPulse:
		return TagLEDPulse, true
	case ActionLEDBlink:
		return TagLEDBlink, true
	case ActionSetAlarm:
		return TagSetAlarm, true
	case ActionSetPath:
		return TagSetPath, true
	case ActionSetLED:
		return TagSetLED, true
	case ActionSetDuration:
		return TagSetDuration, true
	case ActionIgnored:
		return 0, false
	default:
		return 0, false
	}
}
