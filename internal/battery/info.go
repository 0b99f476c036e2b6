package battery

import (
	"context"
	"errors"
)

// Info represents a snapshot of every battery property
type Info struct {
	Open             bool        `json:"open"`
	CurrentCapacity  *int        `json:"current_capacity_mah"`
	MaxCapacity      *int        `json:"max_capacity_mah"`
	DesignCapacity   *int        `json:"design_capacity_mah"`
	Charge           Charge      `json:"charge"`
	Health           Charge      `json:"health"`
	CycleCount       *int        `json:"cycle_count"`
	DesignCycleCount *int        `json:"design_cycle_count"`
	Amperage         *int        `json:"amperage_ma"`
	Temperature      *float64    `json:"temperature_celsius"`
	ACPowered        *bool       `json:"ac_powered"`
	IsCharging       *bool       `json:"is_charging"`
	FullyCharged     *bool       `json:"fully_charged"`
	TimeRemaining    *Prediction `json:"time_remaining"`
}

// GetInfo returns battery information. Properties that cannot be read are
// left nil, capacities included: the snapshot never carries CapacitySentinel.
// Only registry failures and type mismatches are errors.
func (b *Battery) GetInfo(ctx context.Context) (*Info, error) {
	info := &Info{Open: b.IsOpen()}

	current, currentOK, err := b.readInt(ctx, CurrentCapacity)
	if err != nil {
		return nil, err
	}
	total, totalOK, err := b.readInt(ctx, MaxCapacity)
	if err != nil {
		return nil, err
	}
	if currentOK {
		info.CurrentCapacity = &current
	}
	if totalOK {
		info.MaxCapacity = &total
	}
	if info.Charge, err = b.PercentageCharged(ctx); err != nil {
		return nil, err
	}
	if info.Health, err = b.Health(ctx); err != nil {
		return nil, err
	}

	ints := []struct {
		dst  **int
		read func(context.Context) (int, bool, error)
	}{
		{&info.DesignCapacity, b.DesignCapacity},
		{&info.CycleCount, b.ChargeCycles},
		{&info.DesignCycleCount, b.DesignCycleCount},
		{&info.Amperage, b.Amperage},
	}
	for _, f := range ints {
		v, ok, err := f.read(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			*f.dst = &v
		}
	}

	bools := []struct {
		dst  **bool
		read func(context.Context) (bool, bool, error)
	}{
		{&info.ACPowered, b.ACPowered},
		{&info.IsCharging, b.IsCharging},
		{&info.FullyCharged, b.FullyCharged},
	}
	for _, f := range bools {
		v, ok, err := f.read(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			*f.dst = &v
		}
	}

	temp, err := b.Temperature(ctx)
	switch {
	case err == nil:
		info.Temperature = &temp
	case !errors.Is(err, ErrPropertyAbsent):
		return nil, err
	}

	prediction, err := b.RemainingTimePrediction(ctx)
	switch {
	case err == nil:
		info.TimeRemaining = &prediction
	case !errors.Is(err, ErrPropertyAbsent):
		return nil, err
	}

	return info, nil
}
