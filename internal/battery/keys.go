package battery

import "github.com/CristiGvl/produce/internal/iokit"

// Key is a battery property key. Its value is the property name as published
// by the AppleSmartBattery registry entry (see `ioreg -brc AppleSmartBattery`).
type Key string

const (
	ACPowered       Key = "ExternalConnected"
	Amperage        Key = "Amperage"
	CurrentCapacity Key = "CurrentCapacity"
	CycleCount      Key = "CycleCount"
	// DesignCapacity is the factory capacity; MaxCapacity starts out equal to it.
	DesignCapacity   Key = "DesignCapacity"
	DesignCycleCount Key = "DesignCycleCount9C"
	FullyCharged     Key = "FullyCharged"
	IsCharging       Key = "IsCharging"
	// MaxCapacity degrades over time.
	MaxCapacity Key = "MaxCapacity"
	Temperature Key = "Temperature"
	// TimeRemaining is the estimate to charge or discharge, in seconds.
	TimeRemaining Key = "TimeRemaining"
)

var keyInfo = map[Key]struct {
	name string
	kind iokit.Kind
}{
	ACPowered:        {"ACPowered", iokit.KindBool},
	Amperage:         {"Amperage", iokit.KindInt},
	CurrentCapacity:  {"CurrentCapacity", iokit.KindInt},
	CycleCount:       {"CycleCount", iokit.KindInt},
	DesignCapacity:   {"DesignCapacity", iokit.KindInt},
	DesignCycleCount: {"DesignCycleCount", iokit.KindInt},
	FullyCharged:     {"FullyCharged", iokit.KindBool},
	IsCharging:       {"IsCharging", iokit.KindBool},
	MaxCapacity:      {"MaxCapacity", iokit.KindInt},
	Temperature:      {"Temperature", iokit.KindFloat},
	TimeRemaining:    {"TimeRemaining", iokit.KindInterval},
}

// Keys returns every battery key in declaration order.
func Keys() []Key {
	return []Key{
		ACPowered, Amperage, CurrentCapacity, CycleCount, DesignCapacity,
		DesignCycleCount, FullyCharged, IsCharging, MaxCapacity, Temperature,
		TimeRemaining,
	}
}

// Name returns the enumeration name of k, which differs from the registry
// property name for ACPowered and DesignCycleCount.
func (k Key) Name() string {
	if info, ok := keyInfo[k]; ok {
		return info.name
	}
	return string(k)
}

// Kind returns the type every value of k is expected to have.
func (k Key) Kind() iokit.Kind {
	if info, ok := keyInfo[k]; ok {
		return info.kind
	}
	return iokit.KindString
}
