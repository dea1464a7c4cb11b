package weather

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
)

// NotAvailable is rendered for any absent field
const NotAvailable = "Data not available"

// NoCloudsText is rendered when a report carries no cloud layers
const NoCloudsText = "No significant clouds"

// NoForecastText replaces an empty list of forecast periods
const NoForecastText = "No forecast data available"

// lineBuilder collects rendered lines and per-field errors for one record
type lineBuilder struct {
	lines  []string
	err    error
	indent string
}

func (b *lineBuilder) add(label, value string) {
	b.lines = append(b.lines, fmt.Sprintf("%s%s: %s", b.indent, label, value))
}

func (b *lineBuilder) addText(text string) {
	b.lines = append(b.lines, b.indent+text)
}

func (b *lineBuilder) fail(err error) {
	b.err = multierr.Append(b.err, err)
}

// FormatRecord dispatches to the formatter for the report kind
func FormatRecord(kind Kind, rec Record) DecodedReport {
	if kind == KindTAF {
		return FormatTAF(rec)
	}
	return FormatMETAR(rec)
}

// stationID returns the ICAO code of the record, if known
func stationID(rec Record) string {
	if icao, ok := rec.String("icao"); ok {
		return icao
	}
	if st, ok := rec.Object("station"); ok {
		if icao, ok := st.String("icao"); ok {
			return icao
		}
	}
	if raw, ok := rec.String("raw_text"); ok {
		// METAR/TAF raw text starts with the report type and/or station
		for _, tok := range strings.Fields(raw) {
			switch tok {
			case "METAR", "SPECI", "TAF", "AMD", "COR":
				continue
			}
			return tok
		}
	}
	return ""
}

func (b *lineBuilder) station(rec Record) {
	icao := stationID(rec)
	name := ""
	if st, ok := rec.Object("station"); ok {
		name, _ = st.String("name")
	}

	switch {
	case name != "" && icao != "":
		b.add("Station", fmt.Sprintf("%s (%s)", name, icao))
	case name != "":
		b.add("Station", name)
	case icao != "":
		b.add("Station", icao)
	default:
		b.add("Station", NotAvailable)
	}
}

func (b *lineBuilder) rawText(rec Record) {
	if raw, ok := rec.String("raw_text"); ok {
		b.add("Raw Text", raw)
		return
	}
	b.add("Raw Text", NotAvailable)
}

// timeValue renders one timestamp field, recording a TimeParseError on failure
func (b *lineBuilder) timeValue(field string, value string, present bool, absent string) string {
	if !present {
		return absent
	}
	t, err := ParseTime(value)
	if err != nil {
		b.fail(&TimeParseError{Field: field, Value: value, Err: err})
		return fmt.Sprintf("Unable to parse time %q", value)
	}
	return FormatTime(t)
}

func (b *lineBuilder) wind(rec Record) {
	wind, ok := rec.Object("wind")
	if !ok {
		b.add("Wind", NotAvailable)
		return
	}
	speed, ok := wind.Float("speed_kts")
	if !ok {
		b.add("Wind", NotAvailable)
		return
	}

	dir := "Variable"
	if deg, ok := wind.Float("degrees"); ok {
		dir = FormatWindDirection(deg)
	}
	text := fmt.Sprintf("%s @ %s knots", dir, formatNumber(speed))
	if gust, ok := wind.Float("gust_kts"); ok && gust > 0 {
		text += fmt.Sprintf(", gusting %s knots", formatNumber(gust))
	}
	b.add("Wind", text)
}

func (b *lineBuilder) clouds(rec Record) {
	layers, _ := rec.Array("clouds")
	if len(layers) == 0 {
		b.add("Clouds", NoCloudsText)
		return
	}
	for _, layer := range layers {
		b.add("Clouds", cloudLayerText(layer))
	}
}

func cloudLayerText(layer Record) string {
	text, ok := layer.String("text")
	if !ok {
		text, ok = layer.String("code")
	}
	if !ok {
		text = "Unknown coverage"
	}
	if base, ok := layer.Float("base_feet_agl"); ok {
		return fmt.Sprintf("%s at %s ft AGL", text, humanize.Comma(int64(base)))
	}
	return text
}
