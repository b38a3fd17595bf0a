package perfindex

import (
	"strings"
	"testing"
)

func TestIsPseudo(t *testing.T) {
	tests := []struct {
		ticker string
		want   bool
	}{
		{"USD", true},
		{"USD-CASH", true},
		{"CASHHEDGE1", true},
		{"EURHEDGE", true},
		{"cash", true}, // rule applies to the uppercased form
		{"BRK-B", false},
		{"AAPL", false},
		{"CSH", false}, // substring rule, not fuzzy matching
	}
	for _, tc := range tests {
		if got := (Holding{Ticker: tc.ticker}).IsPseudo(); got != tc.want {
			t.Errorf("IsPseudo(%q) = %v, want %v", tc.ticker, got, tc.want)
		}
	}
}

func TestDecodeHoldings(t *testing.T) {
	content := `{
		"baseCurrency": "USD",
		"holdings": [
			{"ticker": "aapl", "weight": 0.6, "name": "Apple", "assetClass": "Equity", "region": "US"},
			{"ticker": "BRK-B", "weight": "0.3"},
			{"ticker": "USD-CASH", "weight": 0.1},
			{"ticker": "MSFT", "weight": "plenty"}
		]
	}`

	h, err := DecodeHoldings(strings.NewReader(content))
	if err != nil {
		t.Fatalf("DecodeHoldings() unexpected error = %v", err)
	}

	if got, want := len(h.List), 4; got != want {
		t.Fatalf("len(List) = %d, want %d", got, want)
	}
	if got := h.List[0].Ticker; got != "AAPL" {
		t.Errorf("Ticker = %q, want normalized %q", got, "AAPL")
	}
	if got := h.List[1].Weight; got != 0.3 {
		t.Errorf("quoted weight = %v, want 0.3", got)
	}
	if got := h.List[3].Weight; got != 0 {
		t.Errorf("unparsable weight = %v, want 0", got)
	}

	real := h.Real()
	if got, want := len(real), 3; got != want {
		t.Fatalf("len(Real()) = %d, want %d", got, want)
	}
	for _, holding := range real {
		if holding.IsPseudo() {
			t.Errorf("Real() returned pseudo holding %q", holding.Ticker)
		}
	}
}

func TestDecodeHoldingsDefaults(t *testing.T) {
	h, err := DecodeHoldings(strings.NewReader(`{"holdings": []}`))
	if err != nil {
		t.Fatalf("DecodeHoldings() unexpected error = %v", err)
	}
	if h.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want USD", h.BaseCurrency)
	}
	if h.BaseIndex != 100 {
		t.Errorf("BaseIndex = %v, want 100", h.BaseIndex)
	}
}

func TestDecodeHoldingsInvalid(t *testing.T) {
	if _, err := DecodeHoldings(strings.NewReader("not json")); err == nil {
		t.Error("DecodeHoldings() expected an error on invalid content")
	}
}
