package perfindex

import (
	"github.com/etnz/perfindex/date"
	"github.com/shopspring/decimal"
)

// PriceLookup resolves the price of a ticker on or before a given day.
// It reports false when no price can be resolved at all.
type PriceLookup func(ticker string, on date.Date) (float64, bool)

// PortfolioPrice computes the weighted sum of per-holding prices at a given
// date, together with the total weight actually covered by a resolvable
// price.
//
// Holdings with a non-positive weight or no resolvable price are skipped
// silently: missing data degrades that ticker's contribution, it is not an
// error and it is not a zero price. The covered weight is reported for
// observability only and does not alter the total's interpretation.
func PortfolioPrice(holdings []Holding, lookup PriceLookup, on date.Date) (total, coveredWeight float64) {
	for _, h := range holdings {
		if h.Weight <= 0 {
			continue
		}
		price, ok := lookup(h.Ticker, on)
		if !ok {
			continue
		}
		total += h.Weight * price
		coveredWeight += h.Weight
	}
	return total, coveredWeight
}

// indexPrecision is the number of decimals kept on published index values,
// for display stability of the chart.
const indexPrecision = 2

// NormalizeIndex anchors a portfolio price against the baseline so the
// series starts at 100: index = price/baseline × 100, rounded for display.
func NormalizeIndex(price, baseline float64) float64 {
	if baseline == 0 {
		baseline = 1
	}
	return round(price / baseline * 100)
}

// ChangePercent returns the percentage change from first to last, rounded
// like index values.
func ChangePercent(first, last float64) Percent {
	if first == 0 {
		return 0
	}
	return Percent(round((last/first - 1) * 100))
}

// round keeps indexPrecision decimals, using decimal arithmetic to avoid
// the usual float representation surprises around .5 boundaries.
func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(indexPrecision).InexactFloat64()
}
