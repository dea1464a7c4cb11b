package weather

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// RenderResult renders one station/kind outcome as display lines
func RenderResult(r Result) []string {
	lines := []string{fmt.Sprintf("===== %s for %s =====", r.Kind.Label(), r.Station)}

	var statusErr *HTTPStatusError
	switch {
	case errors.As(r.Err, &statusErr):
		lines = append(lines,
			fmt.Sprintf("Failed to fetch %s for %s. Status Code: %d", r.Kind.Label(), r.Station, statusErr.StatusCode),
			"Response Content: "+statusErr.Body)
		return lines
	case r.Err != nil:
		lines = append(lines, fmt.Sprintf("Error fetching %s for %s: %v", r.Kind.Label(), r.Station, r.Err))
		return lines
	case len(r.Reports) == 0:
		lines = append(lines, fmt.Sprintf("No %s data returned for %s", r.Kind.Label(), r.Station))
		return lines
	}

	for i, rep := range r.Reports {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, rep.Lines...)
		for _, err := range multierr.Errors(rep.Err) {
			lines = append(lines, "Warning: "+err.Error())
		}
	}
	return lines
}

// Transcript accumulates rendered output for the session
type Transcript struct {
	lines []string
}

// Add appends the rendering of each result, separated by blank lines
func (t *Transcript) Add(results ...Result) {
	for _, r := range results {
		if len(t.lines) > 0 {
			t.lines = append(t.lines, "")
		}
		t.lines = append(t.lines, RenderResult(r)...)
	}
}

// Len returns the number of accumulated lines
func (t *Transcript) Len() int {
	return len(t.lines)
}

// String joins the accumulated lines once
func (t *Transcript) String() string {
	if len(t.lines) == 0 {
		return ""
	}
	return strings.Join(t.lines, "\n") + "\n"
}
