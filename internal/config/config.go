package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the settings document looked up in the project root.
const FileName = "config.json"

// Settings keys recognised in the settings document.
const (
	KeyWindowTitle  = "window_title"
	KeyIconPath     = "icon_path"
	KeyLogDirectory = "log_directory"
	KeyGenerator    = "generator"
)

// Defaults applied per key when the settings document does not provide one.
const (
	DefaultWindowTitle  = "ConvertUiToPy"
	DefaultIconPath     = "resources/images/Icon.ico"
	DefaultLogDirectory = "logs"
	DefaultGenerator    = "pyuic5"
)

// ErrMalformed is returned by ReadValues when the document is not a JSON object.
var ErrMalformed = errors.New("malformed settings document")

// Logger is the part of the activity log the settings loader reports to.
type Logger interface {
	Error(msg string, details ...string)
	SetDirectory(dir string) error
}

// Config holds the window and tooling settings read once at startup.
type Config struct {
	WindowTitle  string
	IconPath     string
	LogDirectory string
	Generator    string
}

// DefaultConfig returns a configuration with every field at its default.
func DefaultConfig() *Config {
	return FromValues(nil)
}

// FromValues builds a Config from raw settings, defaulting each field independently.
func FromValues(v Values) *Config {
	return &Config{
		WindowTitle:  v.Get(KeyWindowTitle, DefaultWindowTitle),
		IconPath:     v.Get(KeyIconPath, DefaultIconPath),
		LogDirectory: v.Get(KeyLogDirectory, DefaultLogDirectory),
		Generator:    v.Get(KeyGenerator, DefaultGenerator),
	}
}

// IconFile resolves IconPath against the project root.
func (c *Config) IconFile(root string) string {
	if filepath.IsAbs(c.IconPath) {
		return filepath.Clean(c.IconPath)
	}
	path := filepath.Join(root, c.IconPath)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Values is the flat key/value view of the settings document.
type Values map[string]string

// Get returns the value stored under key, or def when it is missing or empty.
func (v Values) Get(key, def string) string {
	if s, ok := v[key]; ok && s != "" {
		return s
	}
	return def
}

// ReadValues parses the settings document at path. Keys whose values are not
// JSON strings are dropped.
func ReadValues(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	values := make(Values, len(raw))
	for key, val := range raw {
		if s, ok := val.(string); ok {
			values[key] = s
		}
	}
	return values, nil
}

// Load reads the settings document at path. Any failure is logged once and
// yields the default configuration. A log_directory entry is pushed to log
// before Load returns.
func Load(path string, log Logger) *Config {
	values, err := ReadValues(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Error(fmt.Sprintf("Config file not found: %s", path))
		case errors.Is(err, ErrMalformed):
			log.Error(fmt.Sprintf("Error decoding JSON from config file: %s", path), err.Error())
		default:
			log.Error("Unexpected error loading config", err.Error())
		}
		return DefaultConfig()
	}

	if dir := values.Get(KeyLogDirectory, ""); dir != "" {
		if err := log.SetDirectory(dir); err != nil {
			log.Error("Failed to switch log directory", err.Error())
		}
	}

	return FromValues(values)
}
