package converter

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator writes an executable shell script standing in for the real
// generator. The script records its arguments next to itself.
func stubGenerator(t *testing.T, body string) (command, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub generator is a POSIX shell script")
	}

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	command = filepath.Join(dir, "generator")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n" + body + "\n"
	require.NoError(t, os.WriteFile(command, []byte(script), 0o755))
	return command, argsFile
}

func TestConvertSuccess(t *testing.T) {
	command, argsFile := stubGenerator(t, "exit 0")
	h := NewFileHandler(command, nil)

	err := h.Convert(context.Background(), "form.ui", "out/form.py")
	require.NoError(t, err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"-o", "out/form.py", "form.ui"}, strings.Fields(string(args)))
}

func TestConvertFailureCarriesDiagnostic(t *testing.T) {
	command, _ := stubGenerator(t, "echo 'bad syntax' >&2\nexit 2")
	h := NewFileHandler(command, nil)

	err := h.Convert(context.Background(), "form.ui", "form.py")
	require.Error(t, err)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "bad syntax", convErr.Diagnostic)
	assert.Equal(t, 2, convErr.ExitCode)
	assert.Equal(t, "bad syntax", err.Error())
}

func TestConvertFailureWithoutStderr(t *testing.T) {
	command, _ := stubGenerator(t, "exit 3")
	h := NewFileHandler(command, nil)

	err := h.Convert(context.Background(), "form.ui", "form.py")

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Empty(t, convErr.Diagnostic)
	assert.Equal(t, "generator exited with status 3", err.Error())
}

func TestConvertMissingGenerator(t *testing.T) {
	h := NewFileHandler(filepath.Join(t.TempDir(), "no-such-generator"), nil)

	err := h.Convert(context.Background(), "form.ui", "form.py")

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, -1, convErr.ExitCode)
	assert.Contains(t, convErr.Diagnostic, "no-such-generator")
}

func TestConvertRejectsMissingPaths(t *testing.T) {
	command, argsFile := stubGenerator(t, "exit 0")
	h := NewFileHandler(command, nil)

	tests := []struct {
		name     string
		src, dst string
	}{
		{"no source", "", "form.py"},
		{"no destination", "form.ui", ""},
		{"blank source", "   ", "form.py"},
		{"neither", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Convert(context.Background(), tt.src, tt.dst)
			assert.ErrorIs(t, err, ErrMissingPath)
		})
	}

	_, err := os.Stat(argsFile)
	assert.True(t, os.IsNotExist(err), "generator must not run")
}

type recordingOpener struct {
	urls []*url.URL
	err  error
}

func (r *recordingOpener) OpenURL(u *url.URL) error {
	r.urls = append(r.urls, u)
	return r.err
}

func TestOpenOutputLocation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file URL paths differ on windows")
	}
	dir := t.TempDir()
	opener := &recordingOpener{}
	h := NewFileHandler("unused", opener)

	require.NoError(t, h.OpenOutputLocation(filepath.Join(dir, "form.py")))
	require.Len(t, opener.urls, 1)
	assert.Equal(t, "file", opener.urls[0].Scheme)
	assert.Equal(t, dir, opener.urls[0].Path)
}

func TestOpenOutputLocationErrors(t *testing.T) {
	assert.Error(t, NewFileHandler("unused", nil).OpenOutputLocation("/tmp/form.py"))

	opener := &recordingOpener{err: errors.New("no file browser")}
	err := NewFileHandler("unused", opener).OpenOutputLocation("/tmp/form.py")
	assert.ErrorContains(t, err, "no file browser")

	assert.ErrorIs(t, NewFileHandler("unused", &recordingOpener{}).OpenOutputLocation(""), ErrMissingPath)
}
