// Package model contains domain value types passed between layers.
package model

// Drill describes one measured combine station. The catalog of drills is
// owned by the event configuration and treated as immutable for the
// duration of a scoring session.
type Drill struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
	LowerIsBetter bool    `json:"lower_is_better"`
	DefaultWeight float64 `json:"default_weight,omitempty"`

	// MinValue/MaxValue optionally define an explicit value range for the
	// drill. Range-defined drills are normalized against this range (with
	// clamping) instead of cohort statistics.
	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
}

// HasRange reports whether the drill carries an explicit value range.
func (d Drill) HasRange() bool {
	return d.MinValue != nil && d.MaxValue != nil
}

// Range returns the drill's configured range. Only meaningful when
// HasRange is true.
func (d Drill) Range() Range {
	if !d.HasRange() {
		return Range{}
	}
	return Range{Min: *d.MinValue, Max: *d.MaxValue}
}

// Player is one roster entry. Scores maps drill key to the recorded raw
// value; a missing key means the player was never evaluated for that drill,
// which is distinct from a recorded zero and must stay that way.
type Player struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Number   int                `json:"number,omitempty"`
	AgeGroup string             `json:"age_group,omitempty"`
	Scores   map[string]float64 `json:"scores,omitempty"`
}

// Score returns the recorded value for a drill and whether one exists.
func (p Player) Score(drillKey string) (float64, bool) {
	v, ok := p.Scores[drillKey]
	return v, ok
}

// Range holds the observed or configured bounds for one drill.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CohortStats maps drill key to the range observed within one age group.
// A drill with no recorded values in the cohort has no entry; callers must
// treat the absence as "cannot normalize", never as a zero range.
type CohortStats map[string]Range

// WeightMap maps drill key to a percentage-like weight in [0,100], set per
// session by a coach. Weights are not required to sum to 100.
type WeightMap map[string]float64

// Team is a transient, ordered grouping of players produced by the team
// balancer. Teams are never persisted by this engine.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

// Size returns the number of players assigned to the team.
func (t Team) Size() int {
	return len(t.Players)
}
