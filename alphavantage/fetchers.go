package alphavantage

import (
	"fmt"
	"log"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/perfindex/date"
	"github.com/shopspring/decimal"
)

// This file contains the functions to access the Alpha Vantage API endpoints.

// GlobalQuote returns the current price for a ticker.
//
//	https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=IBM
//	{
//	  "Global Quote": {
//	    "01. symbol": "IBM",
//	    "05. price": "262.7500",
//	    "07. latest trading day": "2024-06-14",
//	    ...
//	  }
//	}
func (c *Client) GlobalQuote(ticker string) (float64, error) {
	c.throttle()
	addr := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", c.baseURL, url.QueryEscape(ticker), c.key)

	var jobj map[string]any
	if err := jwget(c.httpc, addr, &jobj); err != nil {
		return 0, err
	}
	if err := apiFault(jobj); err != nil {
		return 0, err
	}

	path := `$["Global Quote"]["05. price"]`
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %q for %q: %v", ErrNoPrice, path, ticker, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call we keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	price, err := number(jval)
	if err != nil {
		return 0, fmt.Errorf("%w: quote for %q: %v", ErrNoPrice, ticker, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: quote for %q is %v", ErrNoPrice, ticker, price)
	}
	return price, nil
}

// WeeklyAdjusted returns the full weekly adjusted close series for a ticker.
//
//	https://www.alphavantage.co/query?function=TIME_SERIES_WEEKLY_ADJUSTED&symbol=IBM
//	{
//	  "Meta Data": { ... },
//	  "Weekly Adjusted Time Series": {
//	    "2024-06-14": {
//	      "4. close": "169.2100",
//	      "5. adjusted close": "168.4400",
//	      ...
//	    },
func (c *Client) WeeklyAdjusted(ticker string) (*date.History, error) {
	c.throttle()
	addr := fmt.Sprintf("%s/query?function=TIME_SERIES_WEEKLY_ADJUSTED&symbol=%s&apikey=%s", c.baseURL, url.QueryEscape(ticker), c.key)

	var jobj map[string]any
	if err := jwget(c.httpc, addr, &jobj); err != nil {
		return nil, err
	}
	if err := apiFault(jobj); err != nil {
		return nil, err
	}

	series, ok := jobj["Weekly Adjusted Time Series"].(map[string]any)
	if !ok || len(series) == 0 {
		return nil, fmt.Errorf("%w: for %q", ErrEmptySeries, ticker)
	}

	prices := new(date.History)
	for day, jrow := range series {
		on, err := date.Parse(day)
		if err != nil {
			log.Printf("warning: skipping malformed date %q for %q: %v", day, ticker, err)
			continue
		}
		row, ok := jrow.(map[string]any)
		if !ok {
			continue
		}
		price, err := number(row["5. adjusted close"])
		if err != nil || price <= 0 {
			log.Printf("warning: skipping unusable price on %s for %q: %v", on, ticker, err)
			continue
		}
		prices.Append(on, price)
	}
	if prices.Len() == 0 {
		return nil, fmt.Errorf("%w: for %q", ErrEmptySeries, ticker)
	}
	return prices, nil
}

// number reads a price that the API serves either as a json number or,
// most of the time, as a quoted decimal string.
func number(jval any) (float64, error) {
	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal string %q: %w", v, err)
		}
		return d.InexactFloat64(), nil
	case nil:
		return 0, fmt.Errorf("value is absent")
	default:
		return 0, fmt.Errorf("value %v is neither a number nor a string", jval)
	}
}
