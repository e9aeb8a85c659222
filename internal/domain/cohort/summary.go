package cohort

import (
	"sort"

	"github.com/fieldday/combine/internal/domain/model"
)

// Number of top performers reported per drill.
const topPerformerCount = 3

// TopPerformer is one leading result for a drill.
type TopPerformer struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Number   int     `json:"number,omitempty"`
	Value    float64 `json:"value"`
}

// DrillSummary aggregates one drill's results across the whole event.
type DrillSummary struct {
	Key           string         `json:"key"`
	Label         string         `json:"label"`
	Unit          string         `json:"unit"`
	Min           float64        `json:"min"`
	Max           float64        `json:"max"`
	Mean          float64        `json:"mean"`
	Count         int            `json:"count"`
	Missing       int            `json:"missing"`
	TopPerformers []TopPerformer `json:"top_performers"`
}

// Summary is the event-wide statistics view consumed by reports.
type Summary struct {
	ParticipantCount int            `json:"participant_count"`
	Drills           []DrillSummary `json:"drills"`
}

// BuildSummary computes event statistics over the full roster: per-drill
// min/max/mean, recorded and missing counts, and the top performers ordered
// by the drill's direction. Drills with no recorded values report zeroed
// aggregates, matching the reporting contract rather than the stats-builder
// absence rule.
func BuildSummary(players []model.Player, drills []model.Drill) Summary {
	summary := Summary{
		ParticipantCount: len(players),
		Drills:           make([]DrillSummary, 0, len(drills)),
	}

	for _, drill := range drills {
		ds := DrillSummary{
			Key:           drill.Key,
			Label:         drill.Label,
			Unit:          drill.Unit,
			TopPerformers: []TopPerformer{},
		}

		performers := make([]TopPerformer, 0, len(players))
		var sum float64
		for _, p := range players {
			v, ok := p.Score(drill.Key)
			if !ok {
				ds.Missing++
				continue
			}
			if ds.Count == 0 {
				ds.Min, ds.Max = v, v
			} else {
				if v < ds.Min {
					ds.Min = v
				}
				if v > ds.Max {
					ds.Max = v
				}
			}
			ds.Count++
			sum += v
			performers = append(performers, TopPerformer{
				PlayerID: p.ID,
				Name:     p.Name,
				Number:   p.Number,
				Value:    v,
			})
		}

		if ds.Count > 0 {
			ds.Mean = sum / float64(ds.Count)
			sortPerformers(performers, drill.LowerIsBetter)
			if len(performers) > topPerformerCount {
				performers = performers[:topPerformerCount]
			}
			ds.TopPerformers = performers
		}

		summary.Drills = append(summary.Drills, ds)
	}
	return summary
}

// sortPerformers orders results best-first for the drill's direction, with
// name then id breaking exact ties deterministically.
func sortPerformers(performers []TopPerformer, lowerIsBetter bool) {
	sort.SliceStable(performers, func(i, j int) bool {
		a, b := performers[i], performers[j]
		if a.Value != b.Value {
			if lowerIsBetter {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.PlayerID < b.PlayerID
	})
}
