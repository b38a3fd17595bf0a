package perfindex

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Holding is a single portfolio entry from the holdings definition file.
type Holding struct {
	Ticker     string  `json:"ticker"`
	Weight     float64 `json:"weight"`
	Name       string  `json:"name,omitempty"`
	AssetClass string  `json:"assetClass,omitempty"`
	Region     string  `json:"region,omitempty"`
}

// IsPseudo reports whether the holding is a cash or hedge placeholder
// rather than a quotable security. Those are excluded from price fetching.
// The rule is a substring match on the normalized ticker, so real tickers
// containing hyphens (like "BRK-B") are not affected.
func (h Holding) IsPseudo() bool {
	t := strings.ToUpper(h.Ticker)
	return t == "USD" || t == "USD-CASH" ||
		strings.Contains(t, "CASH") || strings.Contains(t, "HEDGE")
}

// Holdings is the decoded content of the holdings definition file.
type Holdings struct {
	BaseCurrency string    `json:"baseCurrency"`
	BaseIndex    float64   `json:"baseIndex"`
	List         []Holding `json:"holdings"`
}

// Real returns the holdings that represent quotable securities.
func (h *Holdings) Real() []Holding {
	real := make([]Holding, 0, len(h.List))
	for _, holding := range h.List {
		if !holding.IsPseudo() {
			real = append(real, holding)
		}
	}
	return real
}

// DecodeHoldings reads a holdings definition from r.
//
// Tickers are normalized to upper case, unparsable weights default to 0,
// and the base currency defaults to USD.
func DecodeHoldings(r io.Reader) (*Holdings, error) {
	// to parse the json, we use a dedicated local struct with tag annotation.
	// weight is read as a raw message because the file in the wild contains
	// either a number or a quoted string.
	type jholding struct {
		Ticker     string          `json:"ticker"`
		Weight     json.RawMessage `json:"weight"`
		Name       string          `json:"name"`
		AssetClass string          `json:"assetClass"`
		Region     string          `json:"region"`
	}
	type jfile struct {
		BaseCurrency string     `json:"baseCurrency"`
		BaseIndex    float64    `json:"baseIndex"`
		Holdings     []jholding `json:"holdings"`
	}

	var jf jfile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jf); err != nil {
		return nil, fmt.Errorf("invalid holdings file: %w", err)
	}

	h := &Holdings{
		BaseCurrency: jf.BaseCurrency,
		BaseIndex:    jf.BaseIndex,
		List:         make([]Holding, 0, len(jf.Holdings)),
	}
	if h.BaseCurrency == "" {
		h.BaseCurrency = "USD"
	}
	if h.BaseIndex == 0 {
		h.BaseIndex = 100
	}
	for _, jh := range jf.Holdings {
		h.List = append(h.List, Holding{
			Ticker:     strings.ToUpper(strings.TrimSpace(jh.Ticker)),
			Weight:     parseWeight(jh.Weight),
			Name:       jh.Name,
			AssetClass: jh.AssetClass,
			Region:     jh.Region,
		})
	}
	return h, nil
}

// DecodeHoldingsFile is like DecodeHoldings reading from the named file.
func DecodeHoldingsFile(filename string) (*Holdings, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open holdings file %q: %w", filename, err)
	}
	defer f.Close()
	h, err := DecodeHoldings(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read holdings file %q: %w", filename, err)
	}
	return h, nil
}

// parseWeight reads a weight that is either a json number or a quoted
// string. Unparsable or negative weights default to 0.
func parseWeight(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
	}
	if f < 0 {
		return 0
	}
	return f
}
