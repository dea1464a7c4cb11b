package weather

import (
	"fmt"
)

// FormatTAF renders a forecast record: station, raw text, issue time, then each
// forecast period with its validity window, change indicator, wind, visibility and clouds.
func FormatTAF(rec Record) DecodedReport {
	b := &lineBuilder{}

	b.station(rec)
	b.rawText(rec)

	ts, _ := rec.Object("timestamp")
	issued, ok := ts.String("issued")
	b.add("Issued", b.timeValue("timestamp.issued", issued, ok, NotAvailable))

	periods, _ := rec.Array("forecast")
	if len(periods) == 0 {
		b.addText(NoForecastText)
	}

	for i, period := range periods {
		b.indent = ""
		b.add(fmt.Sprintf("Period %d", i+1), b.validity(period))

		b.indent = "  "
		b.change(period)
		b.wind(period)
		b.tafVisibility(period)
		b.clouds(period)
	}

	return DecodedReport{
		Kind:    KindTAF,
		Station: stationID(rec),
		Lines:   b.lines,
		Err:     b.err,
	}
}

func (b *lineBuilder) validity(period Record) string {
	ts, ok := period.Object("timestamp")
	if !ok {
		return NotAvailable
	}
	from, fromOK := ts.String("from")
	to, toOK := ts.String("to")
	if !fromOK && !toOK {
		return NotAvailable
	}
	return fmt.Sprintf("%s to %s",
		b.timeValue("timestamp.from", from, fromOK, "unknown"),
		b.timeValue("timestamp.to", to, toOK, "unknown"))
}

func (b *lineBuilder) change(period Record) {
	change, ok := period.Object("change")
	if !ok {
		b.add("Change", "Base forecast")
		return
	}

	text := ""
	if ind, ok := change.Object("indicator"); ok {
		if text, ok = ind.String("text"); !ok {
			text, _ = ind.String("code")
		}
	}
	if text == "" {
		b.add("Change", "Base forecast")
		return
	}

	if prob, ok := change.Float("probability"); ok && prob > 0 {
		text += fmt.Sprintf(" (%s%% probability)", formatNumber(prob))
	}
	b.add("Change", text)
}

func (b *lineBuilder) tafVisibility(period Record) {
	vis, ok := period.Object("visibility")
	if !ok {
		b.add("Visibility", NotAvailable)
		return
	}
	if miles, ok := vis.String("miles"); ok {
		b.add("Visibility", miles+" statute miles")
		return
	}
	b.add("Visibility", NotAvailable)
}
