// Package converter runs the external UI code generator and opens its output.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/storage"
)

// ErrMissingPath is returned when a request lacks its source or destination.
var ErrMissingPath = errors.New("both UI and Python file paths must be selected")

// Request is a single source/destination pair.
type Request struct {
	Source      string
	Destination string
}

// Validate checks that both paths are set.
func (r Request) Validate() error {
	if BlankPath(r.Source) || BlankPath(r.Destination) {
		return ErrMissingPath
	}
	return nil
}

// BlankPath reports whether path is empty or whitespace only.
func BlankPath(path string) bool {
	return strings.TrimSpace(path) == ""
}

// ConversionError reports a generator run that did not succeed.
type ConversionError struct {
	// Diagnostic is the generator's standard error, trimmed.
	Diagnostic string
	// ExitCode is -1 when the generator could not be started.
	ExitCode int
	Err      error
}

func (e *ConversionError) Error() string {
	if e.Diagnostic != "" {
		return e.Diagnostic
	}
	return fmt.Sprintf("generator exited with status %d", e.ExitCode)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// URLOpener opens a URL with the desktop's default handler. fyne.App satisfies it.
type URLOpener interface {
	OpenURL(u *url.URL) error
}

// FileHandler converts UI files with an external generator and reveals the results.
type FileHandler struct {
	generator string
	opener    URLOpener
}

// NewFileHandler creates a FileHandler invoking the generator command and
// opening folders through opener. opener may be nil.
func NewFileHandler(generator string, opener URLOpener) *FileHandler {
	return &FileHandler{
		generator: generator,
		opener:    opener,
	}
}

// Convert runs "<generator> -o <dst> <src>" and waits for it. A non-zero exit
// is reported as a *ConversionError carrying the generator's stderr.
func (h *FileHandler) Convert(ctx context.Context, src, dst string) error {
	req := Request{Source: src, Destination: dst}
	if err := req.Validate(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, h.generator, "-o", req.Destination, req.Source)
	hideWindow(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ConversionError{
			Diagnostic: strings.TrimSpace(stderr.String()),
			ExitCode:   exitErr.ExitCode(),
			Err:        err,
		}
	}

	return &ConversionError{
		Diagnostic: fmt.Sprintf("failed to run %s: %v", h.generator, err),
		ExitCode:   -1,
		Err:        err,
	}
}

// OpenOutputLocation opens the directory containing path in the file browser.
func (h *FileHandler) OpenOutputLocation(path string) error {
	if h.opener == nil {
		return fmt.Errorf("no URL opener available")
	}

	u, err := DirectoryURL(path)
	if err != nil {
		return err
	}

	if err := h.opener.OpenURL(u); err != nil {
		return fmt.Errorf("failed to open %s: %w", u, err)
	}
	return nil
}

// DirectoryURL returns the file:// URL of the directory containing path.
func DirectoryURL(path string) (*url.URL, error) {
	if path == "" {
		return nil, ErrMissingPath
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	u, err := url.Parse(storage.NewFileURI(dir).String())
	if err != nil {
		return nil, fmt.Errorf("failed to build URL for %q: %w", dir, err)
	}
	return u, nil
}
