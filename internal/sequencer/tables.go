package sequencer

// Kinds select one of the compiled-in sequences.
const (
	KindNormal    = 0
	KindAlternate = 1
)

// Move is a motion primitive.
type Move int

// Motion primitives.
const (
	MoveForward Move = iota
	MoveBackward
	MoveLeft
	MoveRight
)

// String returns the primitive name.
func (m Move) String() string {
	switch m {
	case MoveForward:
		return "forward"
	case MoveBackward:
		return "backward"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return "unknown"
	}
}

// frame is one LED bar pattern and how long it stays lit.
type frame struct {
	pattern int
	hold    Hold
}

// motion is one motion primitive and how long it runs before the next one.
type motion struct {
	move  Move
	speed float64
	hold  Hold
}

//nolint:gochecknoglobals // Compiled-in actuator profiles.
var (
	tones = map[int]string{
		KindNormal:    "g32",
		KindAlternate: "a b c d e d c b",
	}

	indicatorPatterns = map[int][]frame{
		KindNormal: {
			{pattern: 2, hold: HoldTenth},
			{pattern: 4, hold: HoldTenth},
			{pattern: 8, hold: HoldTenth},
			{pattern: 16, hold: HoldTenth},
			{pattern: 32, hold: HoldTenth},
			{pattern: 64, hold: HoldTenth},
			{pattern: 128, hold: HoldTenth},
			{pattern: 256, hold: HoldTenth},
		},
		KindAlternate: {
			{pattern: 10, hold: HoldTenth},
			{pattern: 112, hold: HoldHundredth},
			{pattern: 124, hold: HoldHundredth},
		},
	}

	paths = map[int][]motion{
		KindNormal: {
			{move: MoveForward, speed: 0.5, hold: HoldUnit},
			{move: MoveLeft, speed: 1, hold: HoldUnit},
			{move: MoveForward, speed: 0.5, hold: HoldUnit},
		},
		KindAlternate: {
			{move: MoveForward, speed: 3, hold: HoldUnit},
			{move: MoveForward, speed: 3, hold: Units(2)},
			{move: MoveLeft, speed: 3.6, hold: 1400},
			{move: MoveRight, speed: 2.4, hold: 1500},
			{move: MoveLeft, speed: 1.3, hold: 2300},
			{move: MoveBackward, speed: 1.5, hold: 2700},
		},
	}
)
