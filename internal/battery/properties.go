package battery

import (
	"context"
	"fmt"
)

// CurrentCapacity returns the current charge in mAh, or CapacitySentinel when
// it cannot be read.
func (b *Battery) CurrentCapacity(ctx context.Context) (int, error) {
	v, ok, err := b.readInt(ctx, CurrentCapacity)
	if err != nil {
		return 0, err
	}
	if !ok {
		return CapacitySentinel, nil
	}
	return v, nil
}

// MaxCapacity returns the full-charge capacity in mAh, or CapacitySentinel
// when it cannot be read.
func (b *Battery) MaxCapacity(ctx context.Context) (int, error) {
	v, ok, err := b.readInt(ctx, MaxCapacity)
	if err != nil {
		return 0, err
	}
	if !ok {
		return CapacitySentinel, nil
	}
	return v, nil
}

// PercentageCharged returns the charge as a fraction of MaxCapacity.
func (b *Battery) PercentageCharged(ctx context.Context) (Charge, error) {
	return b.ratio(ctx, CurrentCapacity, MaxCapacity)
}

// Health returns MaxCapacity as a fraction of DesignCapacity.
func (b *Battery) Health(ctx context.Context) (Charge, error) {
	return b.ratio(ctx, MaxCapacity, DesignCapacity)
}

func (b *Battery) ratio(ctx context.Context, numKey, denKey Key) (Charge, error) {
	num, numOK, err := b.readInt(ctx, numKey)
	if err != nil {
		return Charge{}, err
	}
	den, denOK, err := b.readInt(ctx, denKey)
	if err != nil {
		return Charge{}, err
	}

	c := NewCharge(num, numOK, den, denOK)
	if c.Known() && c.Ratio > 1 {
		b.logger.Debug("battery capacity above maximum, clamping",
			numKey.Name(), num, denKey.Name(), den)
	}
	return c, nil
}

// ChargeCycles returns the cycle count. The bool is false when it cannot be read.
func (b *Battery) ChargeCycles(ctx context.Context) (int, bool, error) {
	return b.readInt(ctx, CycleCount)
}

// DesignCycleCount returns the number of cycles the battery is rated for.
func (b *Battery) DesignCycleCount(ctx context.Context) (int, bool, error) {
	return b.readInt(ctx, DesignCycleCount)
}

// DesignCapacity returns the factory capacity in mAh.
func (b *Battery) DesignCapacity(ctx context.Context) (int, bool, error) {
	return b.readInt(ctx, DesignCapacity)
}

// Amperage returns the current flow in mA; negative while discharging.
func (b *Battery) Amperage(ctx context.Context) (int, bool, error) {
	return b.readInt(ctx, Amperage)
}

// ACPowered reports whether an external power adapter is connected.
func (b *Battery) ACPowered(ctx context.Context) (bool, bool, error) {
	return b.readBool(ctx, ACPowered)
}

// IsCharging reports whether the battery is charging.
func (b *Battery) IsCharging(ctx context.Context) (bool, bool, error) {
	return b.readBool(ctx, IsCharging)
}

// FullyCharged reports whether the battery is full.
func (b *Battery) FullyCharged(ctx context.Context) (bool, bool, error) {
	return b.readBool(ctx, FullyCharged)
}

// Temperature returns the battery temperature in degrees Celsius. Unlike the
// capacity properties it has no default: a missing value is ErrPropertyAbsent.
func (b *Battery) Temperature(ctx context.Context) (float64, error) {
	v, ok, err := b.readFloat(ctx, Temperature)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s: %w", Temperature.Name(), ErrPropertyAbsent)
	}
	return v / 100, nil
}

// RemainingTimePrediction estimates how long until the battery drains.
// A missing TimeRemaining is ErrPropertyAbsent.
func (b *Battery) RemainingTimePrediction(ctx context.Context) (Prediction, error) {
	v, ok, err := b.readInterval(ctx, TimeRemaining)
	if err != nil {
		return Prediction{}, err
	}
	if !ok {
		return Prediction{}, fmt.Errorf("%s: %w", TimeRemaining.Name(), ErrPropertyAbsent)
	}
	return Predict(v), nil
}
