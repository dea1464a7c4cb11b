package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yegors/co-wx/pkg/logger"
)

// Config contains export destinations and defaults
type Config struct {
	JSONDir         string
	JSONFileName    string
	PrettyJSON      bool
	OutputDir       string
	DefaultTextName string
	OpenViewer      bool
	ViewerPath      string
}

// Error is a failed export step
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Exporter writes reports to local files and hands them to a viewer
type Exporter struct {
	config Config
	launch Launcher
	logger *logger.Logger
}

// NewExporter creates a new exporter; a nil launcher uses the system launcher
func NewExporter(config Config, launch Launcher, log *logger.Logger) *Exporter {
	if config.JSONFileName == "" {
		config.JSONFileName = "WeatherData.json"
	}
	if config.DefaultTextName == "" {
		config.DefaultTextName = "WeatherReport"
	}
	if config.JSONDir == "" {
		config.JSONDir = "."
	}
	if launch == nil {
		launch = StartProcess
	}
	return &Exporter{
		config: config,
		launch: launch,
		logger: log.Named("export"),
	}
}

// ViewerEnabled reports whether exported files should be opened
func (e *Exporter) ViewerEnabled() bool {
	return e.config.OpenViewer
}

// DefaultJSONName returns the file name used when the user gives none
func (e *Exporter) DefaultJSONName() string {
	return e.config.JSONFileName
}

// DefaultTextName returns the text export fallback name
func (e *Exporter) DefaultTextName() string {
	return e.config.DefaultTextName
}

// WriteJSON writes a response body under the JSON directory and returns the path.
// The body must be valid JSON; it is indented when pretty output is configured.
func (e *Exporter) WriteJSON(name string, body []byte) (string, error) {
	fileName := withExtension(SanitizeFilename(name, e.config.JSONFileName), ".json")
	path := filepath.Join(e.config.JSONDir, fileName)

	if !json.Valid(body) {
		return "", &Error{Op: "json", Path: path, Err: errors.New("response is not valid JSON")}
	}

	data := body
	if e.config.PrettyJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return "", &Error{Op: "json", Path: path, Err: err}
		}
		buf.WriteByte('\n')
		data = buf.Bytes()
	}

	if err := writeFile(path, data); err != nil {
		return "", &Error{Op: "json", Path: path, Err: err}
	}

	e.logger.Info("JSON exported",
		logger.String("path", path),
		logger.Int("bytes", len(data)),
		logger.Bool("pretty", e.config.PrettyJSON))
	return path, nil
}

// WriteText writes decoded text under the output directory and returns the path
func (e *Exporter) WriteText(name, text string) (string, error) {
	fileName := withExtension(SanitizeFilename(name, e.config.DefaultTextName), ".txt")
	path := filepath.Join(e.config.OutputDir, fileName)

	if err := writeFile(path, []byte(text)); err != nil {
		return "", &Error{Op: "text", Path: path, Err: err}
	}

	e.logger.Info("Decoded report exported",
		logger.String("path", path),
		logger.Int("bytes", len(text)))
	return path, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// withExtension appends ext unless the name already ends with it
func withExtension(name, ext string) string {
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}

// SanitizeFilename replaces characters that are illegal in file names on
// common platforms with '_'. An empty result falls back to fallback.
func SanitizeFilename(name, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimRight(strings.TrimSpace(b.String()), ". ")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
