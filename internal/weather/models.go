package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind represents the type of weather report
type Kind string

const (
	KindMETAR Kind = "metar"
	KindTAF   Kind = "taf"
)

// Label returns the upper-case report name used in output
func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// Valid reports whether k is a known report kind
func (k Kind) Valid() bool {
	return k == KindMETAR || k == KindTAF
}

// Query is one or more station identifiers plus the report kinds to fetch for each
type Query struct {
	Stations []string
	Kinds    []Kind
}

// ParseQuery splits a comma-separated list of station codes.
// Codes are trimmed and upper-cased; empty entries are dropped.
func ParseQuery(input string, kinds ...Kind) (Query, error) {
	if len(kinds) == 0 {
		return Query{}, fmt.Errorf("%w: no report kind selected", ErrInput)
	}
	for _, k := range kinds {
		if !k.Valid() {
			return Query{}, fmt.Errorf("%w: unknown report kind %q", ErrInput, k)
		}
	}

	var stations []string
	for _, part := range strings.Split(input, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		stations = append(stations, code)
	}

	if len(stations) == 0 {
		return Query{}, fmt.Errorf("%w: enter at least one ICAO code", ErrInput)
	}

	return Query{Stations: stations, Kinds: kinds}, nil
}

// RawReport is the unparsed response returned for one request
type RawReport struct {
	Kind       Kind      `json:"kind"`
	Stations   []string  `json:"stations"`
	URL        string    `json:"url"`
	RequestID  string    `json:"request_id"`
	StatusCode int       `json:"status_code"`
	Body       []byte    `json:"-"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Pretty returns the response body indented for display or export
func (r *RawReport) Pretty() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Body, "", "  "); err != nil {
		return nil, &MalformedResponseError{Reason: "response is not valid JSON", Err: err}
	}
	return buf.Bytes(), nil
}

// DecodedReport is the human-readable rendering of one report record
type DecodedReport struct {
	Kind    Kind
	Station string
	Lines   []string
	// Err combines the per-field decode errors; nil when every field decoded cleanly
	Err error
}

// String joins the rendered lines
func (d DecodedReport) String() string {
	return strings.Join(d.Lines, "\n")
}

// Result is the outcome of fetching and decoding one station/kind pair
type Result struct {
	Station string
	Kind    Kind
	Raw     *RawReport
	Reports []DecodedReport
	Err     error
}
