package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/config"
	"github.com/dshills/styledtext/internal/engine"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/script"
	"github.com/dshills/styledtext/internal/view"
)

func runConvert(e *env, args []string) error {
	fs := subcommand(e, "convert")
	to := fs.String("to", "unix", "Target line endings: unix, dos or mac")
	binary := fs.Bool("binary", false, "Drop illegal characters instead of rejecting binary input")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 2, 2); err != nil {
		return err
	}
	format, err := engine.ParsePlainTextFormat(*to)
	if err != nil {
		return err
	}

	in, out := fs.Arg(0), fs.Arg(1)
	doc := e.newDoc()
	from, err := e.readPlain(doc, in, *binary)
	if err != nil {
		return err
	}
	if err := e.writePlain(doc, out, format); err != nil {
		return err
	}
	e.logger.Info("converted line endings",
		zap.String("file", in),
		zap.Stringer("from", from),
		zap.Stringer("to", format))
	return nil
}

func runPack(e *env, args []string) error {
	fs := subcommand(e, "pack")
	binary := fs.Bool("binary", false, "Drop illegal characters instead of rejecting binary input")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 2, 2); err != nil {
		return err
	}

	doc := e.newDoc()
	if _, err := e.readPlain(doc, fs.Arg(0), *binary); err != nil {
		return err
	}
	if err := e.writePrivate(doc, fs.Arg(1)); err != nil {
		return err
	}
	e.logger.Info("packed", zap.String("file", fs.Arg(0)), zap.Int("chars", doc.CharCount()))
	return nil
}

func runUnpack(e *env, args []string) error {
	fs := subcommand(e, "unpack")
	to := fs.String("to", "unix", "Line endings of the output: unix, dos or mac")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 2, 2); err != nil {
		return err
	}
	format, err := engine.ParsePlainTextFormat(*to)
	if err != nil {
		return err
	}

	doc := e.newDoc()
	if err := e.readPrivate(doc, fs.Arg(0)); err != nil {
		return err
	}
	if err := e.writePlain(doc, fs.Arg(1), format); err != nil {
		return err
	}
	e.logger.Info("unpacked", zap.String("file", fs.Arg(0)), zap.Int("runs", doc.RunCount()))
	return nil
}

func runScript(e *env, args []string) error {
	fs := subcommand(e, "run")
	watch := fs.Bool("watch", false, "Run again each time the script changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 2, 3); err != nil {
		return err
	}

	scriptPath, in, out := fs.Arg(0), fs.Arg(1), fs.Arg(2)
	if out == "" {
		out = in
	}
	if *watch && (out == in || in == stdio) {
		return errors.New("run -watch needs an input file and a separate output file")
	}

	ctx, cancel := withSignals()
	defer cancel()

	once := func() error {
		doc := e.newDoc()
		format, err := e.load(doc, in, false)
		if err != nil {
			return err
		}
		s := script.New(doc, script.WithLogger(e.logger))
		defer s.Close()

		if err := s.RunFile(ctx, scriptPath); err != nil {
			return err
		}
		if err := e.save(doc, out, format); err != nil {
			return err
		}
		e.logger.Info("script applied",
			zap.String("script", scriptPath),
			zap.String("output", out),
			zap.Int("chars", doc.CharCount()))
		return nil
	}

	if !*watch {
		return once()
	}

	if err := once(); err != nil {
		e.logger.Error("run failed", zap.Error(err))
	}
	e.logger.Info("watching script", zap.String("script", scriptPath))
	return config.WatchFile(ctx, scriptPath, e.logger, func() {
		if err := once(); err != nil {
			e.logger.Error("run failed", zap.Error(err))
		}
	})
}

func runInspect(e *env, args []string) error {
	fs := subcommand(e, "inspect")
	query := fs.String("q", "", "gjson path to print instead of the whole document")
	first := fs.Int("first", 0, "First character of the range to export")
	last := fs.Int("last", 0, "Last character of the range to export")
	indent := fs.Bool("pretty", false, "Indent the JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1, 1); err != nil {
		return err
	}

	doc := e.newDoc()
	if _, err := e.load(doc, fs.Arg(0), true); err != nil {
		return err
	}

	var sub index.TextRange
	if *first != 0 || *last != 0 {
		if *first < 1 || *last < *first || *last > doc.CharCount() {
			return fmt.Errorf("range %d-%d is outside 1-%d", *first, *last, doc.CharCount())
		}
		sub = doc.CharToTextRange(index.Range{First: *first, Last: *last})
	}

	var buf bytes.Buffer
	if err := doc.ExportJSON(&buf, sub); err != nil {
		return err
	}
	out := buf.Bytes()

	if *query != "" {
		res := gjson.GetBytes(out, *query)
		if !res.Exists() {
			return fmt.Errorf("no value at %q", *query)
		}
		if res.Type == gjson.String {
			out = []byte(res.Str)
		} else {
			out = []byte(res.Raw)
		}
	}
	if *indent && gjson.ValidBytes(out) {
		out = pretty.Pretty(out)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err := e.stdout.Write(out)
	return err
}

// newScreen is replaced in tests with a simulation screen.
var newScreen = tcell.NewScreen

func runShow(e *env, args []string) error {
	fs := subcommand(e, "show")
	watch := fs.Bool("watch", false, "Reload the file when it changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1, 1); err != nil {
		return err
	}
	path := fs.Arg(0)
	if path == stdio {
		return errors.New("show reads the terminal for keys and cannot page standard input")
	}

	// Log lines would scribble over the screen.
	quiet := *e
	quiet.logger = zap.NewNop()

	doc := quiet.newDoc()
	if _, err := quiet.load(doc, path, true); err != nil {
		return err
	}

	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	p := view.New(screen, doc, filepath.Base(path))
	defer p.Close()

	ctx, cancel := withSignals()
	defer cancel()

	if *watch {
		go func() {
			_ = config.WatchFile(ctx, path, nil, func() {
				_ = p.Post(func() {
					// A failed reload keeps the old content.
					_, _ = quiet.load(doc, path, true)
				})
			})
		}()
	}
	return p.Run(ctx)
}
