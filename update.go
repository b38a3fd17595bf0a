package perfindex

import (
	"log"
	"time"

	"github.com/etnz/perfindex/date"
	"github.com/shopspring/decimal"
)

// This file contains the load→transform→save pipeline of a run. The
// transform is a pure function of the prior document, the holdings and the
// fetched prices: it returns a new document value and never mutates its
// inputs.

// Quoter is the single capability required from the market data provider:
// fetch price data for one ticker, as a point quote or as a full weekly
// series.
type Quoter interface {
	GlobalQuote(ticker string) (float64, error)
	WeeklyAdjusted(ticker string) (*date.History, error)
}

// DefaultPoints is the display window of the published series.
const DefaultPoints = 52

// UpdateOptions tunes one pipeline run. The zero value selects the
// defaults: now, a 52-point window and the default cache freshness.
type UpdateOptions struct {
	Now    time.Time     // current instant, for week labeling and cache freshness
	Points int           // series window size
	MaxAge time.Duration // cache freshness window
	Source string        // provenance label recorded on the document
}

func (o UpdateOptions) withDefaults() UpdateOptions {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Points <= 0 {
		o.Points = DefaultPoints
	}
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultCacheMaxAge
	}
	return o
}

// Update computes the new performance document from the prior one (nil on
// the first ever run), the holdings definition, and fresh quotes.
//
// A ticker whose price cannot be obtained by any means degrades to a null
// price in its snapshot; it never halts the processing of the others.
func Update(prior *Document, holdings *Holdings, quotes Quoter, cache *TickerCache, opts UpdateOptions) *Document {
	opts = opts.withDefaults()
	week := date.LastFriday(opts.Now)

	// Resolve a price series per quotable ticker.
	series := make(map[string]*date.History, len(holdings.List))
	faults := make(map[string]string)
	for _, h := range holdings.Real() {
		if _, ok := series[h.Ticker]; ok {
			continue // two holdings may share a ticker
		}
		prices, err := resolveSeries(h.Ticker, quotes, cache, week, opts)
		if err != nil {
			log.Println("warning", h.Ticker, err)
			faults[h.Ticker] = err.Error()
			continue
		}
		series[h.Ticker] = prices
	}

	lookup := func(ticker string, on date.Date) (float64, bool) {
		prices, ok := series[ticker]
		if !ok {
			return 0, false
		}
		return prices.ValueAsOf(on)
	}

	price, covered := PortfolioPrice(holdings.List, lookup, week)
	log.Printf("portfolio-price week=%s price=%.4f covered-weight=%.4f", week, price, covered)

	doc := prior.clone()
	doc.BaseCurrency = holdings.BaseCurrency
	doc.BaseIndex = holdings.BaseIndex

	// The baseline is established once, on the first run that values the
	// portfolio, and persisted thereafter.
	if doc.BaselinePortfolioPrice == 0 {
		doc.BaselinePortfolioPrice = price
		if doc.BaselinePortfolioPrice == 0 {
			doc.BaselinePortfolioPrice = 1
		}
	}

	index := NormalizeIndex(price, doc.BaselinePortfolioPrice)
	action := doc.merge(week, index, opts.Points)
	log.Printf("merge-series week=%s index=%.2f action=%s points=%d", week, index, action, len(doc.Labels))

	// changePct is relative to the first retained point of the current
	// series, not to the baseline.
	doc.Latest = Latest{Index: index}
	if len(doc.LongTermIndex) > 0 {
		doc.Latest.ChangePct = float64(ChangePercent(doc.LongTermIndex[0], doc.LongTermIndex[len(doc.LongTermIndex)-1]))
	}

	doc.CoveredWeight = round4(covered)
	doc.Holdings = snapshots(holdings, lookup, week, faults, doc.BaseCurrency)
	doc.GeneratedAt = opts.Now.UTC().Format(time.RFC3339)
	if opts.Source != "" {
		doc.Source = opts.Source
	}
	return doc
}

// resolveSeries obtains a price history for one ticker, cheapest first:
// fresh cache, then the historical endpoint, then any stale cache, and as a
// last resort a point quote pinned on the current week label.
func resolveSeries(ticker string, quotes Quoter, cache *TickerCache, week date.Date, opts UpdateOptions) (*date.History, error) {
	entry, cached := cache.Get(ticker)
	if cached && entry.Fresh(opts.Now, opts.MaxAge) {
		return entry.History(), nil
	}

	prices, err := quotes.WeeklyAdjusted(ticker)
	if err == nil {
		if perr := cache.Put(ticker, NewCacheEntry(opts.Now, prices)); perr != nil {
			log.Printf("cache write err (ignored): %v", perr)
		}
		return prices, nil
	}

	// Fetch failed: a stale entry is better than no price at all.
	if cached {
		log.Printf("warning: using stale cache for %q fetched at %s: %v", ticker, entry.FetchedAt.Format(time.RFC3339), err)
		return entry.History(), nil
	}

	// No history anywhere: try a point quote for the current week.
	price, qerr := quotes.GlobalQuote(ticker)
	if qerr != nil {
		return nil, err // report the series error, it came first
	}
	return new(date.History).Append(week, price), nil
}

// snapshots builds the enriched holdings section of the document. Every
// holding appears, pseudo ones included; unresolvable prices are null.
func snapshots(holdings *Holdings, lookup PriceLookup, week date.Date, faults map[string]string, currency string) []HoldingSnapshot {
	snaps := make([]HoldingSnapshot, 0, len(holdings.List))
	for _, h := range holdings.List {
		snap := HoldingSnapshot{
			Ticker:     h.Ticker,
			Weight:     h.Weight,
			Name:       h.Name,
			AssetClass: h.AssetClass,
			Region:     h.Region,
		}
		if price, ok := lookup(h.Ticker, week); ok {
			p := price
			snap.Price = &p
			if m := NewMoneyFromFloat(price, currency); !m.IsZero() {
				snap.DisplayPrice = m.String()
			}
		} else if fault, faulted := faults[h.Ticker]; faulted {
			snap.Err = fault
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// round4 keeps 4 decimals on diagnostic weights.
func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
