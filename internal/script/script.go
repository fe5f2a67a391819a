// Package script runs Lua scripts against a styled text buffer.
//
// Scripts see a sandboxed state with the base, table, string and math
// libraries and a global doc table bound to one buffer:
//
//	local first, last = doc.search("teh", 1, true)
//	while first do
//	    doc.paste(first, last, "the")
//	    first, last = doc.search("teh", last + 1, true, false)
//	end
//	doc.set_bold(1, doc.len(), true)
//
// All positions are 1-based character indices and ranges are closed.
// A whole Run or RunFile call is one undo step on the buffer.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/engine"
)

// DefaultGroupName describes the undo step of a script run.
const DefaultGroupName = "Run script"

// ErrClosed is returned when running a script on a closed Script.
var ErrClosed = errors.New("script: state is closed")

// Script is a Lua state bound to one buffer.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs.
type Script struct {
	mu     sync.Mutex
	L      *lua.LState
	doc    *engine.StyledText
	logger *zap.Logger
	closed bool
}

// Option configures a Script.
type Option func(*Script)

// WithLogger sets the logger that receives print output and run events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Script) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a sandboxed Lua state whose doc table edits doc.
func New(doc *engine.StyledText, opts ...Option) *Script {
	s := &Script{
		doc:    doc,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.logger)
	registerDocModule(s.L, doc)

	return s
}

// Run executes src. Edits made by the script form one undo step, even when
// the script fails part way. ctx cancels a long-running script.
func (s *Script) Run(ctx context.Context, src string) error {
	return s.run(ctx, "<string>", func() error {
		return s.L.DoString(src)
	})
}

// RunFile executes the Lua file at path.
func (s *Script) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	name := filepath.Base(path)
	return s.run(ctx, name, func() error {
		fn, err := s.L.Load(bytes.NewReader(data), name)
		if err != nil {
			return err
		}
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

func (s *Script) run(ctx context.Context, name string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil {
			s.logger.Warn("script failed", zap.String("script", name), zap.Error(err))
		}
	}()

	s.logger.Debug("running script", zap.String("script", name))
	return s.doc.Group(DefaultGroupName, func() error {
		if err := fn(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%s: %w", name, ctxErr)
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

// Doc returns the buffer the script edits.
func (s *Script) Doc() *engine.StyledText {
	return s.doc
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
