package config

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/styledtext/internal/config/loader"
	"github.com/dshills/styledtext/internal/engine"
	"github.com/dshills/styledtext/internal/engine/style"
)

// Setting paths.
const (
	KeyTabWidth        = "tab.width"
	KeyTabInsertSpaces = "tab.insert_spaces"
	KeyUndoDepth       = "undo.depth"
	KeyAutoIndent      = "edit.auto_indent"
	KeyPasteStyled     = "edit.paste_styled"
	KeyFontName        = "font.name"
	KeyFontSize        = "font.size"
	KeyFontColor       = "font.color"
	KeyLogLevel        = "log.level"
)

// Settings is the resolved configuration of a buffer and its tools.
type Settings struct {
	TabWidth        int
	TabInsertSpaces bool
	UndoDepth       int
	AutoIndent      bool
	PasteStyled     bool
	FontName        string
	FontSize        int
	FontColor       tcell.Color
	LogLevel        zapcore.Level
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	s, err := FromMap(defaultConfig())
	if err != nil {
		panic(fmt.Sprintf("config: bad defaults: %v", err))
	}
	return s
}

func defaultConfig() map[string]any {
	return map[string]any{
		"tab": map[string]any{
			"width":         int64(engine.DefaultTabCharCount),
			"insert_spaces": false,
		},
		"undo": map[string]any{
			"depth": int64(engine.DefaultUndoDepth),
		},
		"edit": map[string]any{
			"auto_indent":  false,
			"paste_styled": true,
		},
		"font": map[string]any{
			"name":  style.DefaultFontName,
			"size":  int64(style.DefaultFontSize),
			"color": "#000000",
		},
		"log": map[string]any{
			"level": "info",
		},
	}
}

var defaults = defaultConfig()

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
	logger    *zap.Logger
}

// WithFS reads settings files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// WithLogger sets the logger used to report the sources that were read.
func WithLogger(l *zap.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func newLoadOptions(opts []Option) loadOptions {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load resolves settings from the defaults, the file at path and the
// environment. An empty path or a missing file leaves the defaults in place.
func Load(path string, opts ...Option) (Settings, error) {
	o := newLoadOptions(opts)
	merged := make(map[string]any)

	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return Settings{}, err
		}
		file, err := l.Load()
		if err != nil {
			return Settings{}, err
		}
		if file == nil {
			o.logger.Debug("settings file not found", zap.String("path", path))
		} else {
			o.logger.Debug("settings file loaded", zap.String("path", path))
		}
		merged = loader.DeepMerge(merged, file)
	}

	if o.useEnv {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return Settings{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	return FromMap(merged)
}

// FromMap builds Settings from a merged configuration map. Missing keys
// take their default; unknown keys are ignored.
func FromMap(m map[string]any) (Settings, error) {
	full := loader.DeepMerge(loader.Clone(defaults), m)
	r := reader{m: full}

	s := Settings{
		TabWidth:        r.getInt(KeyTabWidth),
		TabInsertSpaces: r.getBool(KeyTabInsertSpaces),
		UndoDepth:       r.getInt(KeyUndoDepth),
		AutoIndent:      r.getBool(KeyAutoIndent),
		PasteStyled:     r.getBool(KeyPasteStyled),
		FontName:        r.getString(KeyFontName),
		FontSize:        r.getInt(KeyFontSize),
	}
	color := r.getString(KeyFontColor)
	level := r.getString(KeyLogLevel)
	if r.err != nil {
		return Settings{}, r.err
	}

	switch {
	case s.TabWidth < 1:
		return Settings{}, &ValidationError{Path: KeyTabWidth, Message: "must be at least 1", Value: s.TabWidth}
	case s.UndoDepth < 0:
		return Settings{}, &ValidationError{Path: KeyUndoDepth, Message: "must not be negative", Value: s.UndoDepth}
	case s.FontSize < 1:
		return Settings{}, &ValidationError{Path: KeyFontSize, Message: "must be at least 1", Value: s.FontSize}
	case s.FontName == "":
		return Settings{}, &ValidationError{Path: KeyFontName, Message: "must not be empty", Value: s.FontName}
	}

	c, err := style.ParseColor(color)
	if err != nil {
		return Settings{}, &ValidationError{Path: KeyFontColor, Message: "want #rrggbb", Value: color}
	}
	s.FontColor = c

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return Settings{}, &ValidationError{Path: KeyLogLevel, Message: "unknown level", Value: level}
	}
	s.LogLevel = lvl

	return s, nil
}

// FontManager returns a manager whose default style uses the font settings.
func (s Settings) FontManager() *style.Manager {
	return style.NewManager(s.FontName, s.FontSize, s.FontColor)
}

// Options converts the settings into engine options. extra options are
// appended and win over the settings.
func (s Settings) Options(extra ...engine.Option) []engine.Option {
	opts := []engine.Option{
		engine.WithFontManager(s.FontManager()),
		engine.WithTabCharCount(s.TabWidth),
		engine.WithTabInsertsSpaces(s.TabInsertSpaces),
		engine.WithUndoDepth(s.UndoDepth),
		engine.WithAutoIndent(s.AutoIndent),
		engine.WithPasteStyled(s.PasteStyled),
	}
	return append(opts, extra...)
}

// Map returns the settings as a nested map, the inverse of FromMap.
func (s Settings) Map() map[string]any {
	m := make(map[string]any)
	loader.SetPath(m, KeyTabWidth, int64(s.TabWidth))
	loader.SetPath(m, KeyTabInsertSpaces, s.TabInsertSpaces)
	loader.SetPath(m, KeyUndoDepth, int64(s.UndoDepth))
	loader.SetPath(m, KeyAutoIndent, s.AutoIndent)
	loader.SetPath(m, KeyPasteStyled, s.PasteStyled)
	loader.SetPath(m, KeyFontName, s.FontName)
	loader.SetPath(m, KeyFontSize, int64(s.FontSize))
	loader.SetPath(m, KeyFontColor, style.ColorHex(s.FontColor))
	loader.SetPath(m, KeyLogLevel, s.LogLevel.String())
	return m
}

// reader pulls typed values out of a merged map, keeping the first error.
type reader struct {
	m   map[string]any
	err error
}

func (r *reader) get(path string) any {
	v, _ := loader.GetPath(r.m, path)
	return v
}

func (r *reader) fail(path, expected string, v any) {
	if r.err == nil {
		r.err = &TypeError{Path: path, Expected: expected, Actual: typeName(v)}
	}
}

func (r *reader) getInt(path string) int {
	switch v := r.get(path).(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
		r.fail(path, "int", v)
	default:
		r.fail(path, "int", v)
	}
	return 0
}

func (r *reader) getBool(path string) bool {
	v, ok := r.get(path).(bool)
	if !ok {
		r.fail(path, "bool", r.get(path))
	}
	return v
}

func (r *reader) getString(path string) string {
	v, ok := r.get(path).(string)
	if !ok {
		r.fail(path, "string", r.get(path))
	}
	return v
}
