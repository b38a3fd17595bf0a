package perfindex

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/etnz/perfindex/date"
)

// Latest is the most recent point of the index series, duplicated at the
// top of the document so the webpage can show it without scanning the series.
type Latest struct {
	Index     float64 `json:"index"`
	ChangePct float64 `json:"changePct"`
}

// HoldingSnapshot is one enriched holding entry in the published document.
// Price is nil when the holding is a pseudo-holding or when every fetch
// attempt for its ticker failed this run; Err then carries the reason.
type HoldingSnapshot struct {
	Ticker       string   `json:"ticker"`
	Weight       float64  `json:"weight"`
	Name         string   `json:"name,omitempty"`
	AssetClass   string   `json:"assetClass,omitempty"`
	Region       string   `json:"region,omitempty"`
	Price        *float64 `json:"price"`
	DisplayPrice string   `json:"displayPrice,omitempty"`
	Err          string   `json:"error,omitempty"`
}

// Document is the published performance document, the only durable
// cross-run state. Labels and LongTermIndex are parallel sequences; labels
// are strictly increasing by calendar week once established.
type Document struct {
	BaseCurrency           string
	BaseIndex              float64
	Labels                 []date.Date
	LongTermIndex          []float64
	Latest                 Latest
	Holdings               []HoldingSnapshot
	BaselinePortfolioPrice float64
	CoveredWeight          float64
	Backfilled             bool
	GeneratedAt            string
	Source                 string

	// extra holds the unknown fields found in a previously written
	// document, preserved verbatim on rewrite (free-form provenance).
	extra json.RawMessage
}

// knownDocumentFields lists the json keys owned by this code; everything
// else found in a document is provenance and is carried over untouched.
var knownDocumentFields = []string{
	"baseCurrency", "baseIndex", "labels", "longTermIndex", "latest",
	"holdings", "baselinePortfolioPrice", "coveredWeight", "backfilled",
	"generatedAt", "source",
}

// DecodeDocument reads a previously published document. It is tolerant of
// older documents: missing fields get their backward-readable defaults
// (empty sequences, index 100, changePct 0).
func DecodeDocument(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read document: %w", err)
	}

	type jdoc struct {
		BaseCurrency           string            `json:"baseCurrency"`
		BaseIndex              float64           `json:"baseIndex"`
		Labels                 []date.Date       `json:"labels"`
		LongTermIndex          []float64         `json:"longTermIndex"`
		Latest                 *Latest           `json:"latest"`
		Holdings               []HoldingSnapshot `json:"holdings"`
		BaselinePortfolioPrice float64           `json:"baselinePortfolioPrice"`
		CoveredWeight          float64           `json:"coveredWeight"`
		Backfilled             bool              `json:"backfilled"`
		GeneratedAt            string            `json:"generatedAt"`
		Source                 string            `json:"source"`
	}
	var jd jdoc
	if err := json.Unmarshal(content, &jd); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	d := &Document{
		BaseCurrency:           jd.BaseCurrency,
		BaseIndex:              jd.BaseIndex,
		Labels:                 jd.Labels,
		LongTermIndex:          jd.LongTermIndex,
		Latest:                 Latest{Index: 100, ChangePct: 0},
		Holdings:               jd.Holdings,
		BaselinePortfolioPrice: jd.BaselinePortfolioPrice,
		CoveredWeight:          jd.CoveredWeight,
		Backfilled:             jd.Backfilled,
		GeneratedAt:            jd.GeneratedAt,
		Source:                 jd.Source,
	}
	if jd.Latest != nil {
		d.Latest = *jd.Latest
	}

	// Restore the parallel-sequences invariant if an older writer broke it.
	if len(d.Labels) != len(d.LongTermIndex) {
		n := min(len(d.Labels), len(d.LongTermIndex))
		log.Printf("warning: document has %d labels for %d index values, truncating to %d", len(d.Labels), len(d.LongTermIndex), n)
		d.Labels, d.LongTermIndex = d.Labels[:n], d.LongTermIndex[:n]
	}

	// Keep unknown fields around for the next write.
	var all map[string]json.RawMessage
	if err := json.Unmarshal(content, &all); err == nil {
		for _, key := range knownDocumentFields {
			delete(all, key)
		}
		if len(all) > 0 {
			d.extra, _ = json.Marshal(all)
		}
	}
	return d, nil
}

// DecodeDocumentFile is like DecodeDocument reading from the named file.
// A missing file is not an error: it returns nil, meaning no prior series.
func DecodeDocumentFile(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open document %q: %w", filename, err)
	}
	defer f.Close()
	d, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read document %q: %w", filename, err)
	}
	return d, nil
}

// MarshalJSON writes the document with a stable field order, appending the
// preserved unknown fields at the end.
func (d *Document) MarshalJSON() ([]byte, error) {
	var jw jsonObjectWriter
	jw.Append("baseCurrency", d.BaseCurrency).
		Append("baseIndex", d.BaseIndex).
		Append("labels", emptyNotNull(d.Labels)).
		Append("longTermIndex", emptyNotNull(d.LongTermIndex)).
		Append("latest", d.Latest).
		Append("holdings", emptyNotNull(d.Holdings)).
		Append("baselinePortfolioPrice", d.BaselinePortfolioPrice).
		Append("coveredWeight", d.CoveredWeight).
		Append("backfilled", d.Backfilled).
		Optional("generatedAt", d.GeneratedAt).
		Optional("source", d.Source).
		Embed(d.extra)
	return jw.MarshalJSON()
}

// EncodeDocument writes the document as indented json, the way the webpage
// and humans read it.
func EncodeDocument(w io.Writer, d *Document) error {
	content, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal document: %w", err)
	}
	if _, err := w.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("cannot write document: %w", err)
	}
	return nil
}

// EncodeDocumentFile writes the document to the named file. A failure here
// is fatal for the run: ignoring it would silently lose the run's work.
func EncodeDocumentFile(filename string, d *Document) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create document file %q: %w", filename, err)
	}
	defer f.Close()
	if err := EncodeDocument(f, d); err != nil {
		return fmt.Errorf("cannot write document file %q: %w", filename, err)
	}
	log.Printf("create-document-file name=%q points=%d", filename, len(d.Labels))
	return nil
}

// clone returns a deep enough copy for the update pipeline to extend
// without mutating the prior document.
func (d *Document) clone() *Document {
	if d == nil {
		return &Document{Latest: Latest{Index: 100}}
	}
	c := *d
	c.Labels = slices.Clone(d.Labels)
	c.LongTermIndex = slices.Clone(d.LongTermIndex)
	c.Holdings = slices.Clone(d.Holdings)
	return &c
}

// emptyNotNull substitutes an empty slice for nil so the json shows [],
// keeping the document backward-readable by naive consumers.
func emptyNotNull[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
