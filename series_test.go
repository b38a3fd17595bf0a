package perfindex

import (
	"slices"
	"testing"

	"github.com/etnz/perfindex/date"
)

func TestDecideMerge(t *testing.T) {
	week := date.MustParse("2024-06-14")
	prev := date.MustParse("2024-06-07")

	tests := []struct {
		name       string
		labels     []date.Date
		backfilled bool
		want       mergeAction
	}{
		{"first ever run", nil, false, backfillSeries},
		{"emptied but already backfilled", nil, true, appendPoint},
		{"new week", []date.Date{prev}, true, appendPoint},
		{"same week re-run", []date.Date{prev, week}, true, updateLast},
	}
	for _, tc := range tests {
		if got := decideMerge(tc.labels, week, tc.backfilled); got != tc.want {
			t.Errorf("%s: decideMerge() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMergeBackfillOnce(t *testing.T) {
	week := date.MustParse("2024-06-14")
	doc := &Document{}

	if got := doc.merge(week, 104.5, 52); got != backfillSeries {
		t.Fatalf("first merge = %v, want backfill", got)
	}
	if got := len(doc.Labels); got != 52 {
		t.Fatalf("len(Labels) = %d, want 52", got)
	}
	if !doc.Backfilled {
		t.Error("Backfilled = false after a backfill")
	}
	if got := doc.LongTermIndex[len(doc.LongTermIndex)-1]; got != 104.5 {
		t.Errorf("last backfilled value = %v, want the real index 104.5", got)
	}
	if doc.Labels[len(doc.Labels)-1] != week {
		t.Errorf("last label = %s, want %s", doc.Labels[len(doc.Labels)-1], week)
	}
}

func TestMergeSameWeekIsIdempotent(t *testing.T) {
	week := date.MustParse("2024-06-14")
	doc := &Document{
		Labels:        []date.Date{date.MustParse("2024-06-07"), week},
		LongTermIndex: []float64{100, 101},
		Backfilled:    true,
	}

	doc.merge(week, 102, 52)
	doc.merge(week, 102, 52)

	if got := len(doc.Labels); got != 2 {
		t.Errorf("len(Labels) = %d, want unchanged 2", got)
	}
	if got := doc.LongTermIndex[1]; got != 102 {
		t.Errorf("last value = %v, want overwritten 102", got)
	}
}

func TestMergeAppendKeepsWindow(t *testing.T) {
	doc := &Document{Backfilled: true}
	start := date.MustParse("2023-01-06")
	for i := 0; i < 60; i++ {
		doc.merge(start.Add(7*i), 100+float64(i), 52)
	}
	if got := len(doc.Labels); got != 52 {
		t.Fatalf("len(Labels) = %d, want rolling window of 52", got)
	}
	if got := doc.LongTermIndex[len(doc.LongTermIndex)-1]; got != 159 {
		t.Errorf("last value = %v, want 159", got)
	}
	// labels still strictly increasing by exactly one week
	for i := 1; i < len(doc.Labels); i++ {
		if doc.Labels[i] != doc.Labels[i-1].Add(7) {
			t.Fatalf("labels not weekly at %d: %s after %s", i, doc.Labels[i], doc.Labels[i-1])
		}
	}
}

func TestBackfillDeterminism(t *testing.T) {
	end := date.MustParse("2024-06-14")

	a := Backfill("key", end, 104.5, 52)
	b := Backfill("key", end, 104.5, 52)
	if !slices.Equal(a, b) {
		t.Error("Backfill() not identical across runs for the same inputs")
	}

	c := Backfill("key", end, 105.5, 52)
	if slices.Equal(a, c) {
		t.Error("Backfill() identical for different end values")
	}

	if got := a[len(a)-1]; got != 104.5 {
		t.Errorf("last value = %v, want exactly 104.5", got)
	}
	if got, want := len(a), 52; got != want {
		t.Errorf("len = %d, want %d", got, want)
	}
	if a[0] != 100 {
		t.Errorf("first value = %v, want the walk to start at 100", a[0])
	}
}

func TestBackfillDegenerateSizes(t *testing.T) {
	end := date.Today()
	if got := Backfill("key", end, 100, 0); got != nil {
		t.Errorf("Backfill(n=0) = %v, want nil", got)
	}
	if got := Backfill("key", end, 104.5, 1); len(got) != 1 || got[0] != 104.5 {
		t.Errorf("Backfill(n=1) = %v, want [104.5]", got)
	}
}
