package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/engine"
	"github.com/dshills/styledtext/internal/engine/index"
)

// privateExt marks files in the private styled format.
const privateExt = ".stx"

// stdio names standard input or output in place of a file.
const stdio = "-"

func isPrivate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), privateExt)
}

// newDoc creates a buffer configured from the settings.
func (e *env) newDoc() *engine.StyledText {
	return engine.New(e.settings.Options(engine.WithLogger(e.logger))...)
}

func (e *env) open(path string) (io.ReadCloser, error) {
	if path == stdio {
		return io.NopCloser(e.stdin), nil
	}
	return os.Open(path)
}

// load reads path into doc, choosing the format by extension, and returns
// the line endings of plain text input.
func (e *env) load(doc *engine.StyledText, path string, acceptBinary bool) (engine.PlainTextFormat, error) {
	if isPrivate(path) {
		return engine.UNIXText, e.readPrivate(doc, path)
	}
	return e.readPlain(doc, path, acceptBinary)
}

func (e *env) readPlain(doc *engine.StyledText, path string, acceptBinary bool) (engine.PlainTextFormat, error) {
	f, err := e.open(path)
	if err != nil {
		return engine.UNIXText, err
	}
	defer f.Close()

	format, err := doc.ReadPlainText(f, acceptBinary)
	if errors.Is(err, engine.ErrBinaryContent) {
		return format, fmt.Errorf("%s: %w (use -binary to drop illegal characters)", path, err)
	}
	if err != nil {
		return format, fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Debug("read plain text", zap.String("file", path), zap.Stringer("format", format))
	return format, nil
}

func (e *env) readPrivate(doc *engine.StyledText, path string) error {
	f, err := e.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := doc.ReadPrivateFormat(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Debug("read private format", zap.String("file", path), zap.Int("runs", doc.RunCount()))
	return nil
}

// save writes doc to path, choosing the format by extension.
func (e *env) save(doc *engine.StyledText, path string, format engine.PlainTextFormat) error {
	if isPrivate(path) {
		return e.writePrivate(doc, path)
	}
	return e.writePlain(doc, path, format)
}

func (e *env) writePlain(doc *engine.StyledText, path string, format engine.PlainTextFormat) error {
	var buf bytes.Buffer
	if err := doc.WritePlainText(&buf, format); err != nil {
		return err
	}
	return e.write(path, buf.Bytes())
}

func (e *env) writePrivate(doc *engine.StyledText, path string) error {
	var buf bytes.Buffer
	if err := doc.WritePrivateFormat(&buf, engine.PrivateFormatVersion, index.TextRange{}); err != nil {
		return err
	}
	return e.write(path, buf.Bytes())
}

func (e *env) write(path string, data []byte) error {
	if path == stdio {
		_, err := e.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	e.logger.Debug("wrote file", zap.String("file", path), zap.Int("bytes", len(data)))
	return nil
}
