package geo

import "math"

type TurnKind int

const (
	TURN_STRAIGHT TurnKind = iota
	TURN_RIGHT
	TURN_LEFT
	TURN_U_TURN
)

const (
	DEFAULT_STRAIGHT_MULTIPLIER = 1.0
	DEFAULT_RIGHT_MULTIPLIER    = 0.5
	DEFAULT_LEFT_MULTIPLIER     = 2.0
	DEFAULT_U_TURN_MULTIPLIER   = 3.0

	DEFAULT_STRAIGHT_THRESHOLD_DEG = 10.0
	DEFAULT_U_TURN_THRESHOLD_DEG   = 150.0
)

// TurnCostOptions holds the turn-cost multipliers and the angle thresholds
// that separate straight from turning and turning from a U-turn.
type TurnCostOptions struct {
	StraightMultiplier float64
	RightMultiplier    float64
	LeftMultiplier     float64
	UTurnMultiplier    float64

	StraightThresholdDeg float64
	UTurnThresholdDeg    float64
}

func DefaultTurnCostOptions() TurnCostOptions {
	return TurnCostOptions{
		StraightMultiplier:   DEFAULT_STRAIGHT_MULTIPLIER,
		RightMultiplier:      DEFAULT_RIGHT_MULTIPLIER,
		LeftMultiplier:       DEFAULT_LEFT_MULTIPLIER,
		UTurnMultiplier:      DEFAULT_U_TURN_MULTIPLIER,
		StraightThresholdDeg: DEFAULT_STRAIGHT_THRESHOLD_DEG,
		UTurnThresholdDeg:    DEFAULT_U_TURN_THRESHOLD_DEG,
	}
}

// ClassifyTurn buckets a signed turn angle. The U-turn bucket is exclusive:
// an angle beyond the U-turn threshold never also counts as left/right.
func ClassifyTurn(angle float64, opts TurnCostOptions) TurnKind {
	absAngle := math.Abs(angle)
	if absAngle > opts.UTurnThresholdDeg {
		return TURN_U_TURN
	}
	if absAngle < opts.StraightThresholdDeg {
		return TURN_STRAIGHT
	}
	if angle > 0 {
		return TURN_RIGHT
	}
	return TURN_LEFT
}

// TurnCostMultiplier returns the non-negative multiplier applied to an edge
// length when scoring the turn onto that edge.
func TurnCostMultiplier(angle float64, opts TurnCostOptions) float64 {
	switch ClassifyTurn(angle, opts) {
	case TURN_U_TURN:
		return opts.UTurnMultiplier
	case TURN_RIGHT:
		return opts.RightMultiplier
	case TURN_LEFT:
		return opts.LeftMultiplier
	default:
		return opts.StraightMultiplier
	}
}
