package export

import (
	"context"
	"errors"
	"os/exec"
	"runtime"

	"github.com/yegors/co-wx/pkg/logger"
)

// ErrViewerNotFound is returned when no viewer executable can be located
var ErrViewerNotFound = errors.New("viewer not found")

// Launcher starts a program without waiting for it to exit
type Launcher func(ctx context.Context, name string, args ...string) error

// StartProcess is the default Launcher
func StartProcess(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Not tied to ctx: the viewer should survive the session ending
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child in the background; the viewer outlives this call
	go cmd.Wait()
	return nil
}

// platformOpener returns the desktop opener command for the running OS
func platformOpener() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "notepad", nil
	default:
		return "xdg-open", nil
	}
}

// OpenViewer hands the file to the configured viewer, or the platform opener
func (e *Exporter) OpenViewer(ctx context.Context, path string) error {
	name, args := e.config.ViewerPath, []string(nil)
	if name == "" {
		name, args = platformOpener()
	}

	resolved, err := exec.LookPath(name)
	if err != nil {
		e.logger.Warn("Viewer not available",
			logger.String("viewer", name),
			logger.Error(err))
		return &Error{Op: "open", Path: path, Err: errors.Join(ErrViewerNotFound, err)}
	}

	if err := e.launch(ctx, resolved, append(args, path)...); err != nil {
		e.logger.Warn("Failed to launch viewer",
			logger.String("viewer", resolved),
			logger.String("path", path),
			logger.Error(err))
		return &Error{Op: "open", Path: path, Err: err}
	}

	e.logger.Info("Viewer launched",
		logger.String("viewer", resolved),
		logger.String("path", path))
	return nil
}
