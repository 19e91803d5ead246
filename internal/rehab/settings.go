package rehab

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid workout settings")

const (
	maxPhaseSecs = 600
	maxSets      = 10
)

// WorkoutSettings apply to every exercise of a session.
type WorkoutSettings struct {
	HoldSecs  int `json:"holdSecs"`
	RestSecs  int `json:"restSecs"`
	TotalSets int `json:"totalSets"`
}

func DefaultSettings() WorkoutSettings {
	return WorkoutSettings{
		HoldSecs:  45,
		RestSecs:  60,
		TotalSets: 4,
	}
}

func (s WorkoutSettings) Validate() error {
	if s.HoldSecs <= 0 || s.HoldSecs > maxPhaseSecs {
		return fmt.Errorf("%w: hold must be 1-%d seconds, got %d", ErrInvalidSettings, maxPhaseSecs, s.HoldSecs)
	}
	if s.RestSecs <= 0 || s.RestSecs > maxPhaseSecs {
		return fmt.Errorf("%w: rest must be 1-%d seconds, got %d", ErrInvalidSettings, maxPhaseSecs, s.RestSecs)
	}
	if s.TotalSets <= 0 || s.TotalSets > maxSets {
		return fmt.Errorf("%w: sets must be 1-%d, got %d", ErrInvalidSettings, maxSets, s.TotalSets)
	}
	return nil
}
