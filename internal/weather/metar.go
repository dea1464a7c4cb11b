package weather

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Remarks T-group: T s ttt s ddd (s=sign 0=pos,1=neg; ttt=temp*10)
	reTGroup = regexp.MustCompile(`\bT([01])(\d{3})([01])(\d{3})\b`)
	// Standard temperature/dewpoint group: " 22/10", " M03/M05", " 00/"
	reTempDew = regexp.MustCompile(`\s(M)?(\d{2})/(?:(M)?(\d{2}))?(?:\s|$)`)
)

// FormatMETAR renders a current-observation record as labeled lines in fixed order:
// station, raw text, observed time, temperature, dewpoint, wind, visibility, altimeter, clouds.
func FormatMETAR(rec Record) DecodedReport {
	b := &lineBuilder{}

	b.station(rec)
	b.rawText(rec)

	observed, ok := rec.String("observed")
	b.add("Observed", b.timeValue("observed", observed, ok, NotAvailable))

	raw, _ := rec.String("raw_text")
	rawTemp, rawDew, rawTempOK, rawDewOK := parseTempDewpoint(raw)
	b.temperature("Temperature", rec, "temperature", rawTemp, rawTempOK)
	b.temperature("Dewpoint", rec, "dewpoint", rawDew, rawDewOK)

	b.wind(rec)
	b.metarVisibility(rec)
	b.altimeter(rec)
	b.clouds(rec)

	return DecodedReport{
		Kind:    KindMETAR,
		Station: stationID(rec),
		Lines:   b.lines,
		Err:     b.err,
	}
}

func (b *lineBuilder) temperature(label string, rec Record, key string, fallback float64, fallbackOK bool) {
	if obj, ok := rec.Object(key); ok {
		if c, ok := obj.Float("celsius"); ok {
			b.add(label, FormatTemperature(c))
			return
		}
	}
	if fallbackOK {
		b.add(label, FormatTemperature(fallback))
		return
	}
	b.add(label, NotAvailable)
}

func (b *lineBuilder) metarVisibility(rec Record) {
	vis, ok := rec.Object("visibility")
	if !ok {
		b.add("Visibility", NotAvailable)
		return
	}
	if miles, ok := vis.Float("miles_float"); ok {
		b.add("Visibility", formatNumber(miles)+" statute miles")
		return
	}
	if miles, ok := vis.String("miles"); ok {
		b.add("Visibility", miles+" statute miles")
		return
	}
	b.add("Visibility", NotAvailable)
}

func (b *lineBuilder) altimeter(rec Record) {
	baro, ok := rec.Object("barometer")
	if !ok {
		b.add("Altimeter", NotAvailable)
		return
	}
	hg, ok := baro.Float("hg")
	if !ok {
		b.add("Altimeter", "Pressure reading not found")
		return
	}
	b.add("Altimeter", fmt.Sprintf("%.2f inHg", hg))
}

// parseTempDewpoint extracts temperature and dewpoint in Celsius from raw METAR text.
// The high precision remarks T-group wins over the standard TT/DD group.
func parseTempDewpoint(raw string) (temp, dew float64, tempOK, dewOK bool) {
	if raw == "" {
		return 0, 0, false, false
	}

	if idx := strings.Index(raw, " RMK "); idx >= 0 {
		if m := reTGroup.FindStringSubmatch(raw[idx:]); len(m) == 5 {
			t, errT := strconv.ParseFloat(m[2], 64)
			d, errD := strconv.ParseFloat(m[4], 64)
			if errT == nil && errD == nil {
				temp, dew = t/10, d/10
				if m[1] == "1" {
					temp = -temp
				}
				if m[3] == "1" {
					dew = -dew
				}
				return temp, dew, true, true
			}
		}
		raw = raw[:idx]
	}

	m := reTempDew.FindStringSubmatch(raw)
	if len(m) != 5 {
		return 0, 0, false, false
	}
	if t, err := strconv.ParseFloat(m[2], 64); err == nil {
		temp, tempOK = t, true
		if m[1] == "M" {
			temp = -temp
		}
	}
	if m[4] != "" {
		if d, err := strconv.ParseFloat(m[4], 64); err == nil {
			dew, dewOK = d, true
			if m[3] == "M" {
				dew = -dew
			}
		}
	}
	return temp, dew, tempOK, dewOK
}
