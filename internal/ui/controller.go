package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Akaiko1/ui2py/internal/converter"
)

const (
	sourceExt = ".ui"
	outputExt = ".py"

	msgMissingPaths = "Both UI and Python file paths must be selected."
	msgConvertOK    = "Conversion completed successfully!"
)

// State is the observable state of the main window.
type State int

const (
	StateIdle State = iota
	StateReady
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Converter runs conversions and reveals their output.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
	OpenOutputLocation(path string) error
}

// Logger is the activity log as seen by the window.
type Logger interface {
	Error(msg string, details ...string)
	Info(msg string)
	Debug(msg string)
}

// Presenter shows modal feedback to the user.
type Presenter interface {
	ShowInfo(title, message string)
	ShowWarning(title, message string)
	ShowError(title string, err error)
}

// Controller holds the chosen paths and sequences a conversion.
// It runs on the UI goroutine only.
type Controller struct {
	converter Converter
	log       Logger
	view      Presenter

	source      string
	destination string
	running     bool
}

// NewController creates a Controller reporting through view.
func NewController(conv Converter, log Logger, view Presenter) *Controller {
	return &Controller{
		converter: conv,
		log:       log,
		view:      view,
	}
}

// State reports Running during a conversion, Ready once both paths are
// chosen, and Idle otherwise.
func (c *Controller) State() State {
	switch {
	case c.running:
		return StateRunning
	case c.source != "" && c.destination != "":
		return StateReady
	default:
		return StateIdle
	}
}

// Source returns the chosen UI file.
func (c *Controller) Source() string { return c.source }

// Destination returns the chosen output file.
func (c *Controller) Destination() string { return c.destination }

// SelectSource records path as the UI file. Blank paths are ignored.
func (c *Controller) SelectSource(path string) bool {
	if converter.BlankPath(path) {
		return false
	}
	c.source = path
	return true
}

// SelectDestination records path as the output file. Blank paths are ignored.
func (c *Controller) SelectDestination(path string) bool {
	if converter.BlankPath(path) {
		return false
	}
	c.destination = path
	return true
}

// PickFailed reports a file picker failure. The recorded paths stay as they were.
func (c *Controller) PickFailed(what string, err error) {
	c.log.Error("Error selecting "+what, err.Error())
	c.view.ShowError("Error", fmt.Errorf("failed to select %s: %w", what, err))
}

// Convert runs the generator for the chosen paths and reports the outcome.
// Without both paths it only warns the user.
func (c *Controller) Convert() error {
	if c.State() != StateReady {
		c.view.ShowWarning("Error", msgMissingPaths)
		return converter.ErrMissingPath
	}

	c.running = true
	defer func() { c.running = false }()

	c.log.Info(fmt.Sprintf("Converting %s to %s", c.source, c.destination))

	if err := c.converter.Convert(context.Background(), c.source, c.destination); err != nil {
		diagnostic := diagnosticText(err)
		c.log.Error("Conversion failed", diagnostic)
		c.view.ShowError("Error", fmt.Errorf("an error occurred during conversion: %s", diagnostic))
		return err
	}

	c.log.Info("Conversion completed: " + c.destination)
	c.view.ShowInfo("Success", msgConvertOK)

	if err := c.converter.OpenOutputLocation(c.destination); err != nil {
		c.log.Debug("Could not open output directory: " + err.Error())
	}
	return nil
}

func diagnosticText(err error) string {
	var convErr *converter.ConversionError
	if errors.As(err, &convErr) && convErr.Diagnostic != "" {
		return convErr.Diagnostic
	}
	return err.Error()
}

// OutputPath joins a chosen folder and file name into the destination path,
// adding the .py extension when it is missing. Only the base of name is used.
// Either part being blank yields "".
func OutputPath(dir, name string) string {
	name = strings.TrimSpace(name)
	if converter.BlankPath(dir) || name == "" {
		return ""
	}
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	if !strings.EqualFold(filepath.Ext(name), outputExt) {
		name += outputExt
	}
	return filepath.Join(dir, name)
}

// IsSourceFile reports whether path names a UI definition file.
func IsSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), sourceExt)
}
