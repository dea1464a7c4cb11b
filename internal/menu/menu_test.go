package menu

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yegors/co-wx/internal/export"
	"github.com/yegors/co-wx/internal/weather"
	"github.com/yegors/co-wx/pkg/logger"
)

const kjfkMETAR = `{"results":1,"data":[{
	"icao": "KJFK",
	"station": {"name": "John F Kennedy International Airport"},
	"raw_text": "KJFK 141851Z 27010KT 10SM SKC 20/10 A3012",
	"observed": "2026-10-14T18:51:00",
	"temperature": {"celsius": 20},
	"dewpoint": {"celsius": 10},
	"wind": {"degrees": 270, "speed_kts": 10},
	"visibility": {"miles_float": 10},
	"barometer": {"hg": 30.12}
}]}`

const kjfkTAF = `{"results":1,"data":[{
	"icao": "KJFK",
	"raw_text": "TAF KJFK 141720Z 1418/1524 27012KT P6SM FEW250",
	"timestamp": {"issued": "2026-10-14T17:20:00"},
	"forecast": [{"timestamp": {"from": "2026-10-14T18:00:00", "to": "2026-10-16T00:00:00"}, "visibility": {"miles": "P6"}}]
}]}`

type harness struct {
	t       *testing.T
	menu    *Menu
	out     *strings.Builder
	hits    *atomic.Int32
	jsonDir string
	textDir string
}

func newHarness(t *testing.T, input string, handler http.HandlerFunc) *harness {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	log := logger.NewNop()
	client := weather.NewClient(weather.ClientConfig{BaseURL: srv.URL, APIKey: "k", Timeout: 5 * time.Second}, log)
	service := weather.NewService(client, log)

	dir := t.TempDir()
	h := &harness{
		t:       t,
		out:     &strings.Builder{},
		hits:    &hits,
		jsonDir: filepath.Join(dir, "json"),
		textDir: filepath.Join(dir, "Desktop"),
	}
	exporter := export.NewExporter(export.Config{
		JSONDir:         h.jsonDir,
		JSONFileName:    "WeatherData.json",
		PrettyJSON:      true,
		OutputDir:       h.textDir,
		DefaultTextName: "WeatherReport",
		OpenViewer:      true,
		ViewerPath:      filepath.Join(dir, "missing-viewer"),
	}, func(ctx context.Context, name string, args ...string) error { return nil }, log)

	h.menu = New(strings.NewReader(input), h.out, service, exporter, Options{}, log)
	return h
}

func (h *harness) run() string {
	h.t.Helper()
	if err := h.menu.Run(context.Background()); err != nil {
		h.t.Fatalf("Run() error = %v, want nil", err)
	}
	return h.out.String()
}

func checkwxHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/metar/KJFK/decoded":
		w.Write([]byte(kjfkMETAR))
	case "/taf/KJFK/decoded":
		w.Write([]byte(kjfkTAF))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not Found"}`))
	}
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestMenu_currentConditions(t *testing.T) {
	h := newHarness(t, "1\nKJFK\nno\nno\n4\n", checkwxHandler)
	out := h.run()

	assertContains(t, out,
		"===== METAR for KJFK =====",
		"Temperature: 20°C (68.0°F)",
		"Wind: 270° @ 10 knots",
		"Clouds: No significant clouds",
		"JSON export skipped.",
		"Goodbye",
	)
	if got := h.hits.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestMenu_httpErrorReturnsToMenu(t *testing.T) {
	h := newHarness(t, "1\nKXXX\nno\n4\n", checkwxHandler)
	out := h.run()

	assertContains(t, out,
		"Failed to fetch METAR for KXXX. Status Code: 404",
		`Response Content: {"error":"Not Found"}`,
	)
	if n := strings.Count(out, "AVIATION WEATHER BRIEFING"); n != 2 {
		t.Errorf("menu shown %d times, want 2", n)
	}
	if strings.Contains(out, "Export the JSON response") {
		t.Error("JSON export offered for a failed request")
	}
}

func TestMenu_bothKindsMultipleStations(t *testing.T) {
	h := newHarness(t, "3\nKJFK, KXXX\nno\nno\n4\n", checkwxHandler)
	out := h.run()

	if got := h.hits.Load(); got != 4 {
		t.Errorf("requests = %d, want 2 stations x 2 kinds", got)
	}
	metar := strings.Index(out, "===== METAR for KJFK =====")
	taf := strings.Index(out, "===== TAF for KJFK =====")
	bad := strings.Index(out, "===== METAR for KXXX =====")
	if metar < 0 || taf < metar || bad < taf {
		t.Errorf("sections out of order: metar=%d taf=%d kxxx=%d", metar, taf, bad)
	}
	assertContains(t, out, "Period 1:", "Failed to fetch TAF for KXXX. Status Code: 404")
}

func TestMenu_textExportSanitizesName(t *testing.T) {
	h := newHarness(t, "1\nKJFK\nno\nyes\nmy/report\n4\n", checkwxHandler)
	out := h.run()

	path := filepath.Join(h.textDir, "my_report.txt")
	assertContains(t, out, "Report saved to "+path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	if !strings.Contains(string(data), "Temperature: 20°C (68.0°F)") {
		t.Errorf("exported report = %q", data)
	}
}

func TestMenu_textExportDefaultName(t *testing.T) {
	h := newHarness(t, "1\nKJFK\nno\ny\n\n4\n", checkwxHandler)
	h.run()

	if _, err := os.Stat(filepath.Join(h.textDir, "WeatherReport.txt")); err != nil {
		t.Errorf("default report file: %v", err)
	}
}

func TestMenu_textExportAccumulatesSession(t *testing.T) {
	h := newHarness(t, "1\nKJFK\nno\nno\n2\nKJFK\nno\nyes\nsession\n4\n", checkwxHandler)
	h.run()

	data, err := os.ReadFile(filepath.Join(h.textDir, "session.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "===== METAR for KJFK =====") || !strings.Contains(text, "===== TAF for KJFK =====") {
		t.Errorf("report missing earlier sections:\n%s", text)
	}
}

func TestMenu_jsonExportWithMissingViewer(t *testing.T) {
	h := newHarness(t, "3\nKJFK\nyes\n\nno\n4\n", checkwxHandler)
	out := h.run()

	for _, name := range []string{"WeatherData_metar_KJFK.json", "WeatherData_taf_KJFK.json"} {
		path := filepath.Join(h.jsonDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected export %s: %v", name, err)
		}
		assertContains(t, out, "Data exported to "+path)
	}
	assertContains(t, out, "Warning: no viewer program found")
	assertContains(t, out, "Goodbye")
}

func TestMenu_jsonExportSingleReportUsesGivenName(t *testing.T) {
	h := newHarness(t, "1\nKJFK\nyes\nkjfk\nno\n4\n", checkwxHandler)
	h.run()

	data, err := os.ReadFile(filepath.Join(h.jsonDir, "kjfk.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"data\": [") {
		t.Errorf("export is not indented:\n%s", data)
	}
}

func TestMenu_emptyStationInput(t *testing.T) {
	h := newHarness(t, "1\n  ,  \n4\n", checkwxHandler)
	out := h.run()

	assertContains(t, out, "Invalid input: enter at least one ICAO code")
	if got := h.hits.Load(); got != 0 {
		t.Errorf("requests = %d, want 0", got)
	}
}

func TestMenu_invalidSelection(t *testing.T) {
	h := newHarness(t, "9\nexit\n", checkwxHandler)
	out := h.run()
	assertContains(t, out, `Invalid selection "9"`, "Goodbye")
}

func TestMenu_endOfInputExitsCleanly(t *testing.T) {
	h := newHarness(t, "1\n", checkwxHandler)
	out := h.run()
	assertContains(t, out, "Goodbye")
}

func TestMenu_pauseAndClear(t *testing.T) {
	h := newHarness(t, "9\n\nq\n", checkwxHandler)
	h.menu.opts = Options{ClearScreen: true, PauseAfterAction: true}
	out := h.run()

	assertContains(t, out, "Press Enter to return to the menu", clearSequence)
}

func TestMenu_cancelledContext(t *testing.T) {
	h := newHarness(t, "", checkwxHandler)
	h.menu.in = blockingReader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.menu.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}

type stubRunner struct {
	results []weather.Result
}

func (s stubRunner) Run(ctx context.Context, q weather.Query) []weather.Result {
	return s.results
}

func TestMenu_transportFailureSkipsExports(t *testing.T) {
	h := newHarness(t, "1\nKJFK\n4\n", checkwxHandler)
	h.menu.runner = stubRunner{results: []weather.Result{{
		Station: "KJFK",
		Kind:    weather.KindMETAR,
		Err:     &weather.TransportError{Kind: weather.KindMETAR, Stations: "KJFK", Err: errors.New("connection refused")},
	}}}
	out := h.run()

	assertContains(t, out, "Error fetching METAR for KJFK: error making METAR request for KJFK: connection refused")
	if strings.Contains(out, "(yes/no)") {
		t.Error("export offered without any response")
	}
}
