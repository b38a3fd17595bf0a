package perfindex

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/etnz/perfindex/date"
)

// This file contains the weekly series merge policy: how a freshly computed
// index point is combined with the persisted series.

// mergeAction is the decision taken for a newly computed weekly point.
type mergeAction int

const (
	// backfillSeries creates the series with synthetic history, once ever.
	backfillSeries mergeAction = iota
	// appendPoint adds a point for a week not yet in the series.
	appendPoint
	// updateLast overwrites the point of the current week (same-week re-run).
	updateLast
)

func (a mergeAction) String() string {
	switch a {
	case backfillSeries:
		return "backfill"
	case appendPoint:
		return "append"
	case updateLast:
		return "update"
	}
	return fmt.Sprintf("mergeAction(%d)", int(a))
}

// decideMerge returns the action for the given week against the existing
// labels. The backfilled flag guards the one-time-only backfill: a document
// that was ever backfilled never backfills again, even if its series was
// emptied by hand.
func decideMerge(labels []date.Date, week date.Date, backfilled bool) mergeAction {
	if len(labels) == 0 {
		if backfilled {
			return appendPoint
		}
		return backfillSeries
	}
	if labels[len(labels)-1] == week {
		return updateLast
	}
	return appendPoint
}

// merge folds the computed index for the given week into the document
// series, keeping at most points entries, and returns the action taken.
func (d *Document) merge(week date.Date, index float64, points int) mergeAction {
	action := decideMerge(d.Labels, week, d.Backfilled)
	switch action {
	case backfillSeries:
		d.Labels = date.WeeklyLabels(week, points)
		d.LongTermIndex = Backfill(backfillSeedKey, week, index, points)
		d.Backfilled = true
	case appendPoint:
		d.Labels = append(d.Labels, week)
		d.LongTermIndex = append(d.LongTermIndex, index)
		// rolling window: retain only the newest points
		if points > 0 && len(d.Labels) > points {
			d.Labels = d.Labels[len(d.Labels)-points:]
			d.LongTermIndex = d.LongTermIndex[len(d.LongTermIndex)-points:]
		}
	case updateLast:
		d.LongTermIndex[len(d.LongTermIndex)-1] = index
	}
	return action
}

// backfillSeedKey is the fixed part of the backfill seed. Changing it
// changes every synthetic series ever regenerated, so don't.
const backfillSeedKey = "perfindex.backfill.v1"

// Backfill produces n synthetic weekly index values ending exactly at
// endIndex, labeled up to endLabel. The walk is explicitly fictitious: it
// only exists to give a newly created series a full display window.
//
// The series is deterministic: the PRNG is seeded from (seedKey, endLabel,
// endIndex) so re-runs before the next real update produce the identical
// series, byte for byte.
func Backfill(seedKey string, endLabel date.Date, endIndex float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	values := make([]float64, n)
	if n == 1 || endIndex <= 0 {
		for i := range values {
			values[i] = endIndex
		}
		return values
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%.2f", seedKey, endLabel, endIndex)
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed))

	// A plain random walk from 100...
	walk := make([]float64, n)
	walk[0] = 100
	for i := 1; i < n; i++ {
		step := (rng.Float64() - 0.5) * 0.03 // at most ±1.5% per week
		walk[i] = walk[i-1] * (1 + step)
	}

	// ...then bent with a geometric drift so it lands on endIndex.
	ratio := endIndex / walk[n-1]
	for i := range walk {
		values[i] = round(walk[i] * math.Pow(ratio, float64(i)/float64(n-1)))
	}
	values[n-1] = endIndex
	return values
}
