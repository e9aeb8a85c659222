// Package scoring implements drill-value normalization and weighted
// composite-score computation. Everything here is a pure function of its
// inputs: identical inputs produce bit-for-bit identical outputs.
package scoring

import (
	"math"
	"sort"

	"github.com/fieldday/combine/internal/domain/model"
)

// Scale constants for normalized drill values.
const (
	// NeutralMidpoint is returned when every cohort member is tied for a
	// drill. It avoids a divide-by-zero without rewarding or penalizing a
	// tied field.
	NeutralMidpoint = 50.0

	scaleMax = 100.0
)

// Normalize maps a raw drill value onto a 0-100 scale relative to the
// observed cohort range. For lower-is-better drills the scale is inverted so
// that the fastest time maps to 100.
//
// Values outside [r.Min, r.Max] are possible when the range was computed on
// a different roster snapshot; they are propagated unclamped. Callers that
// need clamping (range-defined custom drills) use NormalizeClamped.
func Normalize(raw float64, r model.Range, lowerIsBetter bool) float64 {
	if r.Max == r.Min {
		return NeutralMidpoint
	}
	if lowerIsBetter {
		return scaleMax * (r.Max - raw) / (r.Max - r.Min)
	}
	return scaleMax * (raw - r.Min) / (r.Max - r.Min)
}

// NormalizeClamped clamps the raw value into the range before normalizing.
// Used for drills that define their own min/max instead of relying on
// cohort statistics, where out-of-range entries are configuration noise
// rather than signal.
func NormalizeClamped(raw float64, r model.Range, lowerIsBetter bool) float64 {
	if r.Max == r.Min {
		return NeutralMidpoint
	}
	clamped := math.Max(r.Min, math.Min(r.Max, raw))
	return Normalize(clamped, r, lowerIsBetter)
}

// UnknownKeyFunc is invoked once per composite computation for every weight
// key that matches no drill in the catalog. Such a mismatch is a caller
// defect; it never aborts computation but must not go unnoticed.
type UnknownKeyFunc func(key string)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithUnknownKeyFunc installs a hook for weight keys that match no drill.
func WithUnknownKeyFunc(fn UnknownKeyFunc) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.onUnknownKey = fn
		}
	}
}

// WithCustomRangeClamping controls whether range-defined drills clamp the
// raw value into the configured range before normalizing. Enabled by
// default.
func WithCustomRangeClamping(clamp bool) Option {
	return func(c *Calculator) {
		c.clampCustomRanges = clamp
	}
}

// Calculator computes composite scores and per-drill breakdowns. The zero
// value is not usable; construct with NewCalculator.
type Calculator struct {
	clampCustomRanges bool
	onUnknownKey      UnknownKeyFunc
}

// NewCalculator creates a Calculator with the given options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		clampCustomRanges: true,
		onUnknownKey:      func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Contribution describes one drill's share of a composite score.
type Contribution struct {
	DrillKey   string  `json:"drill_key"`
	Label      string  `json:"label"`
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
}

// Composite returns the weighted sum of the player's normalized drill
// scores. Drills the player has no value for, and drills with no usable
// range, contribute nothing; they are excluded rather than counted as zero
// data. The result is a sum, not an average, and is never rescaled: with
// weights summing above 100 the theoretical maximum exceeds 100 by design.
// Contributions are summed in drill-key order, so the score is bit-for-bit
// identical however the catalog is ordered.
func (c *Calculator) Composite(p model.Player, stats model.CohortStats, weights model.WeightMap, drills []model.Drill) float64 {
	return Total(c.Breakdown(p, stats, weights, drills))
}

// Total sums weighted contributions in drill-key order. Floating-point
// addition is not associative, so summing in catalog order would make the
// last ulp of the composite depend on how the catalog happens to be
// arranged; the canonical order removes that dependence.
func Total(contributions []Contribution) float64 {
	ordered := make([]Contribution, len(contributions))
	copy(ordered, contributions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].DrillKey < ordered[j].DrillKey })

	var total float64
	for _, contrib := range ordered {
		total += contrib.Weighted
	}
	return total
}

// Breakdown returns the per-drill contributions behind a composite score,
// in catalog order. Only drills with a recorded value and a usable range
// appear; Total over the result equals Composite.
func (c *Calculator) Breakdown(p model.Player, stats model.CohortStats, weights model.WeightMap, drills []model.Drill) []Contribution {
	c.reportUnknownKeys(weights, drills)

	contributions := make([]Contribution, 0, len(drills))
	for _, drill := range drills {
		raw, ok := p.Score(drill.Key)
		if !ok {
			continue
		}

		var normalized float64
		switch {
		case drill.HasRange():
			if c.clampCustomRanges {
				normalized = NormalizeClamped(raw, drill.Range(), drill.LowerIsBetter)
			} else {
				normalized = Normalize(raw, drill.Range(), drill.LowerIsBetter)
			}
		default:
			r, ok := stats[drill.Key]
			if !ok {
				// No cohort member recorded this drill; nothing to
				// normalize against.
				continue
			}
			normalized = Normalize(raw, r, drill.LowerIsBetter)
		}

		weight := ResolveWeight(weights, drill)
		contributions = append(contributions, Contribution{
			DrillKey:   drill.Key,
			Label:      drill.Label,
			Raw:        raw,
			Normalized: normalized,
			Weight:     weight,
			Weighted:   normalized * (weight / scaleMax),
		})
	}
	return contributions
}

// ResolveWeight returns the effective weight for a drill. A nil weight map
// means "no coach adjustments", so the drill's catalog default applies; a
// non-nil map is authoritative and drills it omits weigh zero.
func ResolveWeight(weights model.WeightMap, drill model.Drill) float64 {
	if weights == nil {
		return drill.DefaultWeight
	}
	return weights[drill.Key]
}

// reportUnknownKeys surfaces weight keys that reference no cataloged drill.
func (c *Calculator) reportUnknownKeys(weights model.WeightMap, drills []model.Drill) {
	if len(weights) == 0 {
		return
	}
	for key := range weights {
		known := false
		for _, d := range drills {
			if d.Key == key {
				known = true
				break
			}
		}
		if !known {
			c.onUnknownKey(key)
		}
	}
}
