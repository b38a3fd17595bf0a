package date

import "time"

// This file contains the weekly labeling arithmetic for the index series.
// A weekly point is labeled by the Friday that closes its week (ISO-8601
// week-ending convention, on the UTC calendar).

// LastFriday returns the most recent Friday at or before the given instant.
// If the instant falls on a Friday, that day is returned unchanged.
func LastFriday(now time.Time) Date {
	d := FromTime(now)
	// Weekday is 0 (Sunday) to 6 (Saturday); walk back to Friday (5).
	diff := (int(d.Weekday()) - int(time.Friday) + 7) % 7
	return d.Add(-diff)
}

// WeeklyLabels returns n consecutive weekly labels ending at end, oldest
// first, each exactly 7 days after the previous.
func WeeklyLabels(end Date, n int) []Date {
	if n <= 0 {
		return nil
	}
	labels := make([]Date, n)
	for i := range labels {
		labels[i] = end.Add(-7 * (n - 1 - i))
	}
	return labels
}
