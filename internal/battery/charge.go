package battery

// CapacitySentinel is what CurrentCapacity and MaxCapacity return when the
// property cannot be read. It is not a real capacity: it keeps the plain
// current/max ratio finite, and makes that ratio 1.0 when both are missing.
const CapacitySentinel = 1

// ChargeState tells whether a Charge carries a usable fraction.
type ChargeState string

const (
	// ChargeKnown means both capacities were read and Fraction is valid.
	ChargeKnown ChargeState = "known"
	// ChargeUnknown means both capacities were read but cannot form a
	// fraction (a zero or negative denominator, a negative numerator).
	ChargeUnknown ChargeState = "unknown"
	// ChargeUnavailable means at least one capacity could not be read.
	ChargeUnavailable ChargeState = "unavailable"
)

// Charge is a capacity ratio that cannot be mistaken for "full" when there
// is no data behind it.
type Charge struct {
	State ChargeState `json:"state"`
	// Fraction is the ratio clamped to [0, 1]; zero unless State is ChargeKnown.
	Fraction float64 `json:"fraction"`
	// Ratio is the unclamped current/max ratio computed from the sentinel-
	// substituted capacities. It is always finite.
	Ratio float64 `json:"ratio"`
}

// Known reports whether Fraction is meaningful.
func (c Charge) Known() bool {
	return c.State == ChargeKnown
}

// Percent returns Fraction scaled to [0, 100].
func (c Charge) Percent() float64 {
	return c.Fraction * 100
}

// NewCharge derives a Charge from a numerator and denominator and whether
// each was actually read. Numerators above the denominator, which batteries
// report now and then, are clamped to a full charge.
func NewCharge(current int, currentOK bool, total int, totalOK bool) Charge {
	num, den := current, total
	if !currentOK {
		num = CapacitySentinel
	}
	if !totalOK {
		den = CapacitySentinel
	}

	c := Charge{State: ChargeUnavailable}
	if den > 0 {
		c.Ratio = float64(num) / float64(den)
	}

	if !currentOK || !totalOK {
		return c
	}
	if total <= 0 || current < 0 {
		c.State = ChargeUnknown
		return c
	}

	c.State = ChargeKnown
	c.Fraction = min(c.Ratio, 1)
	return c
}
