package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yegors/co-wx/internal/export"
	"github.com/yegors/co-wx/internal/weather"
	"github.com/yegors/co-wx/pkg/logger"
)

const clearSequence = "\033[H\033[2J"

// Runner executes a weather query
type Runner interface {
	Run(ctx context.Context, q weather.Query) []weather.Result
}

// Exporter persists results chosen by the user
type Exporter interface {
	WriteJSON(name string, body []byte) (string, error)
	WriteText(name, text string) (string, error)
	OpenViewer(ctx context.Context, path string) error
	ViewerEnabled() bool
	DefaultJSONName() string
	DefaultTextName() string
}

// Options controls terminal behaviour
type Options struct {
	ClearScreen      bool
	PauseAfterAction bool
	ShowJSON         bool
}

// Menu is the interactive numbered menu loop
type Menu struct {
	in         io.Reader
	out        io.Writer
	runner     Runner
	exporter   Exporter
	opts       Options
	logger     *logger.Logger
	lines      *lineReader
	transcript weather.Transcript
}

// New creates a menu reading from in and writing to out
func New(in io.Reader, out io.Writer, runner Runner, exporter Exporter, opts Options, log *logger.Logger) *Menu {
	return &Menu{
		in:       in,
		out:      out,
		runner:   runner,
		exporter: exporter,
		opts:     opts,
		logger:   log.Named("menu"),
	}
}

type action struct {
	key   string
	label string
	kinds []weather.Kind
}

var actions = []action{
	{key: "1", label: "Current conditions (METAR)", kinds: []weather.Kind{weather.KindMETAR}},
	{key: "2", label: "Forecast (TAF)", kinds: []weather.Kind{weather.KindTAF}},
	{key: "3", label: "Current conditions and forecast (METAR + TAF)", kinds: []weather.Kind{weather.KindMETAR, weather.KindTAF}},
}

// Run shows the menu until the user exits or input ends.
// Only a failure of the input stream itself is returned.
func (m *Menu) Run(ctx context.Context) error {
	m.lines = newLineReader(m.in)
	defer m.lines.close()

	for {
		m.showMenu()

		choice, err := m.readLine(ctx)
		if err != nil {
			return m.finish(err)
		}
		choice = strings.ToLower(choice)

		switch choice {
		case "4", "q", "quit", "exit":
			m.printf("Goodbye, and have a safe flight!\n")
			return nil
		}

		selected := findAction(choice)
		if selected == nil {
			m.printf("Invalid selection %q. Please choose a number from the menu.\n", choice)
		} else if err := m.fetch(ctx, selected.kinds); err != nil {
			return m.finish(err)
		}

		if m.opts.PauseAfterAction {
			m.printf("\nPress Enter to return to the menu...")
			if _, err := m.readLine(ctx); err != nil {
				return m.finish(err)
			}
		}
	}
}

// finish maps end of input to a clean exit
func (m *Menu) finish(err error) error {
	if errors.Is(err, io.EOF) {
		m.printf("\nGoodbye, and have a safe flight!\n")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		m.printf("\nInterrupted.\n")
		return err
	}
	m.logger.Error("Input stream failed", logger.Error(err))
	return fmt.Errorf("reading input: %w", err)
}

func findAction(key string) *action {
	for i := range actions {
		if actions[i].key == key {
			return &actions[i]
		}
	}
	return nil
}

func (m *Menu) showMenu() {
	if m.opts.ClearScreen {
		m.printf(clearSequence)
	}
	m.printf("\n========== AVIATION WEATHER BRIEFING ==========\n\n")
	for _, a := range actions {
		m.printf("%s. %s\n", a.key, a.label)
	}
	m.printf("4. Exit\n\nSelect an option: ")
}

func (m *Menu) fetch(ctx context.Context, kinds []weather.Kind) error {
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.Label()
	}
	m.printf("Enter the ICAO code(s) for %s (e.g. KJFK, KLAX), separated by commas:\n", strings.Join(labels, " + "))

	input, err := m.readLine(ctx)
	if err != nil {
		return err
	}

	q, err := weather.ParseQuery(input, kinds...)
	if err != nil {
		m.printf("Invalid input: %s\n", strings.TrimPrefix(err.Error(), weather.ErrInput.Error()+": "))
		m.logger.Debug("Rejected station input", logger.String("input", input), logger.Error(err))
		return nil
	}

	results := m.runner.Run(ctx, q)

	var exportable []weather.Result
	received := false
	for _, r := range results {
		m.printf("\n")
		if m.opts.ShowJSON && r.Raw != nil && r.Err == nil {
			if pretty, err := r.Raw.Pretty(); err == nil {
				m.printf("===== %s %s (formatted JSON) =====\n%s\n\n", r.Kind.Label(), r.Station, pretty)
			}
		}
		for _, line := range weather.RenderResult(r) {
			m.printf("%s\n", line)
		}
		if r.Raw != nil {
			received = true
			if r.Err == nil {
				exportable = append(exportable, r)
			}
		}
	}
	m.transcript.Add(results...)
	m.printf("\n")

	if !received {
		return nil
	}
	if len(exportable) > 0 {
		if err := m.offerJSONExport(ctx, exportable); err != nil {
			return err
		}
	}
	return m.offerTextExport(ctx)
}

func (m *Menu) offerJSONExport(ctx context.Context, results []weather.Result) error {
	ok, err := m.confirm(ctx, "Export the JSON response to a file? (yes/no): ")
	if err != nil || !ok {
		if err == nil {
			m.printf("JSON export skipped.\n")
		}
		return err
	}

	name, err := m.prompt(ctx, fmt.Sprintf("Enter a file name for the JSON export [%s]: ", m.exporter.DefaultJSONName()))
	if err != nil {
		return err
	}

	var paths []string
	for _, r := range results {
		fileName := name
		if len(results) > 1 {
			base := name
			if base == "" {
				base = m.exporter.DefaultJSONName()
			}
			if strings.EqualFold(filepath.Ext(base), ".json") {
				base = strings.TrimSuffix(base, filepath.Ext(base))
			}
			fileName = fmt.Sprintf("%s_%s_%s", base, r.Kind, r.Station)
		}

		path, err := m.exporter.WriteJSON(fileName, r.Raw.Body)
		if err != nil {
			m.printf("Error exporting %s data for %s: %v\n", r.Kind.Label(), r.Station, err)
			continue
		}
		m.printf("Data exported to %s.\n", path)
		paths = append(paths, path)
	}

	if !m.exporter.ViewerEnabled() {
		return nil
	}
	for _, path := range paths {
		if err := m.exporter.OpenViewer(ctx, path); err != nil {
			if errors.Is(err, export.ErrViewerNotFound) {
				m.printf("Warning: no viewer program found; open %s manually.\n", path)
			} else {
				m.printf("Warning: could not open %s in a viewer: %v\n", path, err)
			}
			continue
		}
		m.printf("Opened %s in the viewer.\n", path)
	}
	return nil
}

func (m *Menu) offerTextExport(ctx context.Context) error {
	if m.transcript.Len() == 0 {
		return nil
	}

	ok, err := m.confirm(ctx, "Save the decoded report to a text file? (yes/no): ")
	if err != nil || !ok {
		return err
	}

	name, err := m.prompt(ctx, fmt.Sprintf("Enter a file name for the report [%s]: ", m.exporter.DefaultTextName()))
	if err != nil {
		return err
	}

	path, err := m.exporter.WriteText(name, m.transcript.String())
	if err != nil {
		m.printf("Error saving the report: %v\n", err)
		return nil
	}
	m.printf("Report saved to %s.\n", path)
	return nil
}

func (m *Menu) confirm(ctx context.Context, question string) (bool, error) {
	answer, err := m.prompt(ctx, question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (m *Menu) prompt(ctx context.Context, question string) (string, error) {
	m.printf("%s", question)
	return m.readLine(ctx)
}

func (m *Menu) readLine(ctx context.Context) (string, error) {
	line, err := m.lines.next(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
