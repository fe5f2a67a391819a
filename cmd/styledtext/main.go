// Package main is the entry point for the styledtext command line tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/styledtext/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errUsage reports bad arguments; the usage text has already been printed.
var errUsage = errors.New("usage")

// env carries what every subcommand needs.
type env struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	settings config.Settings
	logger   *zap.Logger
	opts     options
}

type options struct {
	ConfigPath string
	LogLevel   string
}

// command is one subcommand.
type command struct {
	name    string
	args    string
	summary string
	run     func(e *env, args []string) error
}

// commands is filled in init: the run functions reach it through
// subcommand, so a var initializer would be a cycle.
var commands []command

func init() {
	commands = []command{
		{"convert", "[-to unix|dos|mac] [-binary] in out", "Convert line endings of a plain text file", runConvert},
		{"pack", "[-binary] in out", "Convert plain text to the private format", runPack},
		{"unpack", "[-to unix|dos|mac] in out", "Convert the private format to plain text", runUnpack},
		{"run", "[-watch] script.lua in [out]", "Run a Lua script on a file", runScript},
		{"inspect", "[-q path] [-first n -last n] file", "Print the JSON view of a file", runInspect},
		{"show", "[-watch] file", "Page through a file in the terminal", runShow},
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}

	rest, err := parseFlags(e, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	}
	if rest == nil {
		return 0
	}

	cmd, ok := lookup(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", rest[0])
		usage(stderr, nil)
		return 2
	}

	settings, err := config.Load(e.opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}
	e.settings = settings

	level := settings.LogLevel
	if e.opts.LogLevel != "" {
		level, _ = zapcore.ParseLevel(e.opts.LogLevel)
	}
	e.logger = newLogger(stderr, level)
	defer func() { _ = e.logger.Sync() }()

	if err := cmd.run(e, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// parseFlags parses the global flags. A nil slice with a nil error means
// the run is complete, e.g. after -version.
func parseFlags(e *env, args []string) ([]string, error) {
	fs := flag.NewFlagSet("styledtext", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var showVersion bool
	fs.StringVar(&e.opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&e.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&e.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.Usage = func() { usage(e.stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if showVersion {
		fmt.Fprintf(e.stdout, "styledtext %s\n", version)
		fmt.Fprintf(e.stdout, "Commit: %s\n", commit)
		fmt.Fprintf(e.stdout, "Built: %s\n", date)
		return nil, nil
	}

	// Validate log level
	switch e.opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", e.opts.LogLevel)
	}

	if fs.NArg() == 0 {
		usage(e.stderr, fs)
		return nil, errUsage
	}
	return fs.Args(), nil
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "styledtext - styled text buffer tools\n\n")
	fmt.Fprintf(w, "Usage: styledtext [options] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	if fs != nil {
		fmt.Fprintf(w, "\nOptions:\n")
		fs.PrintDefaults()
	}
	fmt.Fprintf(w, "\nFiles ending in %s use the private styled format; others are plain text.\n", privateExt)
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  styledtext convert -to dos notes.txt notes-dos.txt\n")
	fmt.Fprintf(w, "  styledtext pack notes.txt notes%s\n", privateExt)
	fmt.Fprintf(w, "  styledtext run bold-titles.lua notes%s\n", privateExt)
	fmt.Fprintf(w, "  styledtext inspect -q runs.#.font notes%s\n", privateExt)
}

// subcommand creates the flag set for a subcommand.
func subcommand(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	cmd, _ := lookup(name)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: styledtext %s %s\n\n%s.\n", cmd.name, cmd.args, cmd.summary)
		fs.PrintDefaults()
	}
	return fs
}

// wantArgs checks the positional argument count after flag parsing.
func wantArgs(fs *flag.FlagSet, min, max int) error {
	if n := fs.NArg(); n < min || n > max {
		fs.Usage()
		return errUsage
	}
	return nil
}

// newLogger writes human-readable logs to w. Debug adds caller information.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	if level == zapcore.DebugLevel {
		enc = zap.NewDevelopmentEncoderConfig()
	}
	enc.TimeKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)

	var opts []zap.Option
	if level == zapcore.DebugLevel {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}

// withSignals returns a context canceled on SIGINT or SIGTERM.
func withSignals() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
