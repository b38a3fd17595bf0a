package alphavantage

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/perfindex/date"
)

// newTestClient returns a Client pointed at a stub server answering every
// query with the given body and status.
func newTestClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New("test-key").WithBaseURL(srv.URL).WithHTTPClient(srv.Client()).WithPace(0)
}

func TestGlobalQuote(t *testing.T) {
	c := newTestClient(t, 200, `{"Global Quote": {"01. symbol": "IBM", "05. price": "262.7500"}}`)

	price, err := c.GlobalQuote("IBM")
	if err != nil {
		t.Fatalf("GlobalQuote() unexpected error = %v", err)
	}
	if price != 262.75 {
		t.Errorf("GlobalQuote() = %v, want 262.75", price)
	}
}

func TestGlobalQuoteFaults(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limit note", 200, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`, ErrRateLimited},
		{"rate limit information", 200, `{"Information": "rate limit is 25 requests per day"}`, ErrRateLimited},
		{"error message", 200, `{"Error Message": "Invalid API call."}`, ErrAPI},
		{"missing price", 200, `{"Global Quote": {"01. symbol": "IBM"}}`, ErrNoPrice},
		{"non numeric price", 200, `{"Global Quote": {"05. price": "n/a"}}`, ErrNoPrice},
		{"empty payload", 200, `{}`, ErrNoPrice},
		{"http failure", 503, `{}`, ErrTransport},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.status, tc.body)
			_, err := c.GlobalQuote("IBM")
			if !errors.Is(err, tc.want) {
				t.Errorf("GlobalQuote() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWeeklyAdjusted(t *testing.T) {
	c := newTestClient(t, 200, `{
		"Meta Data": {"2. Symbol": "IBM"},
		"Weekly Adjusted Time Series": {
			"2024-06-14": {"4. close": "169.2100", "5. adjusted close": "168.4400"},
			"2024-06-07": {"4. close": "167.0000", "5. adjusted close": "166.3000"}
		}
	}`)

	prices, err := c.WeeklyAdjusted("IBM")
	if err != nil {
		t.Fatalf("WeeklyAdjusted() unexpected error = %v", err)
	}
	if got := prices.Len(); got != 2 {
		t.Fatalf("WeeklyAdjusted() returned %d points, want 2", got)
	}
	day, value := prices.Latest()
	if day != date.MustParse("2024-06-14") || value != 168.44 {
		t.Errorf("Latest() = %s, %v, want 2024-06-14, 168.44", day, value)
	}
}

func TestWeeklyAdjustedEmptySeries(t *testing.T) {
	for _, body := range []string{
		`{"Meta Data": {"2. Symbol": "IBM"}}`,
		`{"Weekly Adjusted Time Series": {}}`,
	} {
		c := newTestClient(t, 200, body)
		_, err := c.WeeklyAdjusted("IBM")
		if !errors.Is(err, ErrEmptySeries) {
			t.Errorf("WeeklyAdjusted(%s) error = %v, want %v", body, err, ErrEmptySeries)
		}
	}
}

func TestWeeklyAdjustedSkipsUnusablePoints(t *testing.T) {
	c := newTestClient(t, 200, `{
		"Weekly Adjusted Time Series": {
			"2024-06-14": {"5. adjusted close": "168.4400"},
			"not-a-date": {"5. adjusted close": "1.0"},
			"2024-06-07": {"5. adjusted close": "zero"}
		}
	}`)

	prices, err := c.WeeklyAdjusted("IBM")
	if err != nil {
		t.Fatalf("WeeklyAdjusted() unexpected error = %v", err)
	}
	if got := prices.Len(); got != 1 {
		t.Errorf("WeeklyAdjusted() kept %d points, want 1", got)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"262.7500", 262.75, true},
		{42.0, 42.0, true},
		{"n/a", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range tests {
		got, err := number(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("number(%v) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("number(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
