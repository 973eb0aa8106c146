package routegen

import (
	"fmt"

	"trashroute/pkg/geo"
)

const (
	DEFAULT_AVERAGE_SPEED_KMH = 30.0

	// NO_START_NODE means no caller-supplied start node; openstreetmap node
	// ids are positive.
	NO_START_NODE = int64(-1)
)

// Config holds every knob of the route generation pipeline. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	AllowedHighways       map[string]struct{}
	ExcludedHighways      map[string]struct{}
	ExcludedServiceValues map[string]struct{}
	ExcludedAccessValues  map[string]struct{}

	// IgnoreOneway must be true: every segment is traversed in both
	// directions so the right-side arm passes both curbs, and that
	// deliberately violates oneway restrictions.
	IgnoreOneway bool

	StraightMultiplier float64
	RightMultiplier    float64
	LeftMultiplier     float64
	UTurnMultiplier    float64

	StraightThresholdDeg float64
	UTurnThresholdDeg    float64

	// AverageSpeedKmh only feeds the drive-time estimate, never routing.
	AverageSpeedKmh float64

	StartNodeID int64
}

func DefaultConfig() Config {
	return Config{
		AllowedHighways: map[string]struct{}{
			"residential":  {},
			"unclassified": {},
			"service":      {},
			"tertiary":     {},
			"secondary":    {},
		},
		ExcludedHighways: map[string]struct{}{
			"footway":    {},
			"cycleway":   {},
			"steps":      {},
			"path":       {},
			"track":      {},
			"pedestrian": {},
		},
		ExcludedServiceValues: map[string]struct{}{
			"parking_aisle": {},
			"parking":       {},
		},
		ExcludedAccessValues: map[string]struct{}{
			"private": {},
			"no":      {},
		},
		IgnoreOneway:         true,
		StraightMultiplier:   geo.DEFAULT_STRAIGHT_MULTIPLIER,
		RightMultiplier:      geo.DEFAULT_RIGHT_MULTIPLIER,
		LeftMultiplier:       geo.DEFAULT_LEFT_MULTIPLIER,
		UTurnMultiplier:      geo.DEFAULT_U_TURN_MULTIPLIER,
		StraightThresholdDeg: geo.DEFAULT_STRAIGHT_THRESHOLD_DEG,
		UTurnThresholdDeg:    geo.DEFAULT_U_TURN_THRESHOLD_DEG,
		AverageSpeedKmh:      DEFAULT_AVERAGE_SPEED_KMH,
		StartNodeID:          NO_START_NODE,
	}
}

// Validate rejects configs that break the engine's invariants, in
// particular the relative multiplier ordering right < straight < left <
// u-turn.
func (c Config) Validate() error {
	if !c.IgnoreOneway {
		return fmt.Errorf("%w: oneway restrictions must be ignored for two-direction coverage", ErrInvalidConfig)
	}
	if c.RightMultiplier < 0 || c.StraightMultiplier < 0 || c.LeftMultiplier < 0 || c.UTurnMultiplier < 0 {
		return fmt.Errorf("%w: turn multipliers must be non-negative", ErrInvalidConfig)
	}
	if !(c.RightMultiplier < c.StraightMultiplier &&
		c.StraightMultiplier < c.LeftMultiplier &&
		c.LeftMultiplier < c.UTurnMultiplier) {
		return fmt.Errorf("%w: turn multipliers must satisfy right < straight < left < u-turn", ErrInvalidConfig)
	}
	if c.StraightThresholdDeg <= 0 || c.UTurnThresholdDeg <= c.StraightThresholdDeg || c.UTurnThresholdDeg >= 180 {
		return fmt.Errorf("%w: invalid turn thresholds", ErrInvalidConfig)
	}
	if c.AverageSpeedKmh <= 0 {
		return fmt.Errorf("%w: average speed must be positive", ErrInvalidConfig)
	}
	if len(c.AllowedHighways) == 0 {
		return fmt.Errorf("%w: allowed highway set is empty", ErrInvalidConfig)
	}
	return nil
}

func (c Config) turnCostOptions() geo.TurnCostOptions {
	return geo.TurnCostOptions{
		StraightMultiplier:   c.StraightMultiplier,
		RightMultiplier:      c.RightMultiplier,
		LeftMultiplier:       c.LeftMultiplier,
		UTurnMultiplier:      c.UTurnMultiplier,
		StraightThresholdDeg: c.StraightThresholdDeg,
		UTurnThresholdDeg:    c.UTurnThresholdDeg,
	}
}
