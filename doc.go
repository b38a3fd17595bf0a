// Package perfindex computes a synthetic weekly performance index for a
// fixed investment portfolio.
//
// Each run fetches per-ticker price data from a market data provider,
// combines them with portfolio weights into a single portfolio price,
// normalizes it against a persisted baseline so the series is anchored at
// 100, and merges the new point into a rolling weekly series persisted as
// a JSON document consumed by a static webpage.
//
// The core functionalities include:
//   - Holdings: loading the portfolio definition and filtering out cash
//     and hedge placeholders that have no quotable price.
//   - Quote Caching: a per-ticker price series cache with a freshness
//     window that reduces external API calls, and serves as a stale
//     fallback when the provider is unavailable.
//   - Valuation: the weighted portfolio price with carry-forward price
//     resolution, tolerant of holdings with no resolvable price.
//   - Series Merge: the append-if-new-week / update-if-same-week policy,
//     with a one-time deterministic synthetic backfill for newly created
//     series.
//
// This package serves as the foundational logic for the `pfi` command-line
// tool; one invocation performs one complete load, transform and save
// cycle, so an external scheduler (cron) is all that is needed to keep the
// published document current.
package perfindex
