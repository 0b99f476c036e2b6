package battery

import (
	"fmt"
	"time"
)

// Registry sentinels for TimeRemaining, in seconds.
const (
	TimeRemainingUnknown   = -1 * time.Second
	TimeRemainingUnlimited = -2 * time.Second
)

// PredictionKind classifies a time-remaining estimate.
type PredictionKind string

const (
	PredictionUnlimited PredictionKind = "unlimited"
	PredictionUnknown   PredictionKind = "unknown"
	PredictionRemaining PredictionKind = "remaining"
)

// Prediction is an estimate of how long until the battery drains.
type Prediction struct {
	Kind        PredictionKind `json:"kind"`
	Description string         `json:"description"`
	// Minutes is set only for PredictionRemaining.
	Minutes *int `json:"minutes"`
}

// Predict classifies a raw TimeRemaining value. Negative values other than
// the two registry sentinels carry no estimate and are reported as unknown.
func Predict(remaining time.Duration) Prediction {
	switch {
	case remaining == TimeRemainingUnlimited:
		return Prediction{Kind: PredictionUnlimited, Description: "Plugged"}
	case remaining < 0:
		return Prediction{Kind: PredictionUnknown, Description: "Recently unplugged"}
	}

	minutes := int(remaining / time.Minute)
	return Prediction{
		Kind:        PredictionRemaining,
		Description: "Time remaining:",
		Minutes:     &minutes,
	}
}

func (p Prediction) String() string {
	if p.Minutes == nil {
		return p.Description
	}
	return fmt.Sprintf("%s %d Hrs %02d Mins", p.Description, *p.Minutes/60, *p.Minutes%60)
}
