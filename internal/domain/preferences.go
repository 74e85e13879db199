package domain

import "fmt"

// EnergyProfile maps hour-of-day to a productivity coefficient.
type EnergyProfile [24]float64

// DefaultEnergyProfile is a morning-peak curve with a smaller late-afternoon bump.
func DefaultEnergyProfile() EnergyProfile {
	return EnergyProfile{
		0.1, 0.1, 0.1, 0.1, 0.1, 0.2, // 00-05
		0.4, 0.6, 0.8, 0.9, 1.0, 0.9, // 06-11
		0.7, 0.6, 0.6, 0.7, 0.8, 0.8, // 12-17
		0.7, 0.6, 0.5, 0.4, 0.3, 0.2, // 18-23
	}
}

// At returns the coefficient for hour, wrapping out-of-range values into 0-23.
func (e EnergyProfile) At(hour int) float64 {
	return e[((hour%24)+24)%24]
}

// Clamped returns a copy with every coefficient limited to [lo, hi].
func (e EnergyProfile) Clamped(lo, hi float64) EnergyProfile {
	out := e
	for h := range out {
		out[h] = ClampFloat(out[h], lo, hi)
	}
	return out
}

// IsZero reports whether no coefficient was ever set.
func (e EnergyProfile) IsZero() bool {
	return e == EnergyProfile{}
}

type SchedulerPreferences struct {
	ID               string
	WeightUrgency    float64
	WeightImportance float64
	WeightDifficulty float64
	WeightSize       float64
	CategoryBias     map[string]float64
	Energy           EnergyProfile
}

// DefaultPreferences returns the weights a fresh profile starts with.
func DefaultPreferences() SchedulerPreferences {
	return SchedulerPreferences{
		ID:               "default",
		WeightUrgency:    1.0,
		WeightImportance: 0.8,
		WeightDifficulty: 0.5,
		WeightSize:       0.3,
		CategoryBias:     map[string]float64{},
		Energy:           DefaultEnergyProfile(),
	}
}

// Weight returns the weight for a score component.
func (p *SchedulerPreferences) Weight(c ScoreComponent) float64 {
	switch c {
	case ComponentUrgency:
		return p.WeightUrgency
	case ComponentImportance:
		return p.WeightImportance
	case ComponentDifficulty:
		return p.WeightDifficulty
	case ComponentSize:
		return p.WeightSize
	}
	return 0
}

// SetWeight assigns the weight for a score component.
func (p *SchedulerPreferences) SetWeight(c ScoreComponent, v float64) error {
	switch c {
	case ComponentUrgency:
		p.WeightUrgency = v
	case ComponentImportance:
		p.WeightImportance = v
	case ComponentDifficulty:
		p.WeightDifficulty = v
	case ComponentSize:
		p.WeightSize = v
	default:
		return fmt.Errorf("unknown score component %q", c)
	}
	return nil
}

// ScoreComponents lists every weighted term in display order.
var ScoreComponents = []ScoreComponent{ComponentUrgency, ComponentImportance, ComponentDifficulty, ComponentSize}

// ClampWeights limits all four weights to [lo, hi].
func (p *SchedulerPreferences) ClampWeights(lo, hi float64) {
	p.WeightUrgency = ClampFloat(p.WeightUrgency, lo, hi)
	p.WeightImportance = ClampFloat(p.WeightImportance, lo, hi)
	p.WeightDifficulty = ClampFloat(p.WeightDifficulty, lo, hi)
	p.WeightSize = ClampFloat(p.WeightSize, lo, hi)
}

// ClampBias limits every category bias to [lo, hi] in place.
func (p *SchedulerPreferences) ClampBias(lo, hi float64) {
	for k, v := range p.CategoryBias {
		p.CategoryBias[k] = ClampFloat(v, lo, hi)
	}
}

// Clone returns a deep copy so callers can mutate without aliasing the bias map.
func (p SchedulerPreferences) Clone() SchedulerPreferences {
	out := p
	out.CategoryBias = make(map[string]float64, len(p.CategoryBias))
	for k, v := range p.CategoryBias {
		out.CategoryBias[k] = v
	}
	return out
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
