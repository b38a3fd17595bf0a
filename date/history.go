package date

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of prices, each associated with a
// specific date. It ensures that dates are unique and the series is always
// sorted, whatever order the points were appended in.
type History struct {
	days   []Date
	values []float64
}

// Len returns the number of points in the history.
func (h *History) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History) Latest() (day Date, value float64) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return h.days[last], h.values[last]
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological struct{ *History }

func (s chronological) Less(i, j int) bool { return s.days[i].time().Before(s.days[j].time()) }

func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (s chronological) Len() int { return len(s.days) }

func (h *History) sort() { sort.Sort(chronological{h}) }

// Append adds a point to the history.
//
// An existing value at that date is overwritten.
func (h *History) Append(on Date, v float64) *History {
	if i := slices.Index(h.days, on); i >= 0 {
		// Found a point at that exact same day.
		// We choose to replace, because it gives higher priority to the last data.
		h.values[i] = v
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	h.sort()
	return h
}

// Get returns the value at 'day' and true, or zero value and false.
func (h *History) Get(day Date) (float64, bool) {
	if i := slices.Index(h.days, day); i >= 0 {
		return h.values[i], true
	}
	return 0, false
}

// ValueAsOf returns the value on a given day, or the most recent value
// before it. This is the carry-forward rule that tolerates market holidays
// and missing weekly snapshots. It returns the value and true if found,
// otherwise zero value and false.
func (h *History) ValueAsOf(day Date) (float64, bool) {
	// The days slice is sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		if d.After(t) {
			return 1
		}
		if d.Before(t) {
			return -1
		}
		return 0
	})

	if found {
		return h.values[i], true
	}

	// Not found. `i` is the index where `day` would be inserted.
	// The value we want is at `i-1`, the last entry before the target date.
	if i == 0 {
		return 0, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
