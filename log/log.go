// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers on top of the go-ethereum slog handlers.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Logger writes key/value pairs following the message.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

// WithContext returns a logger carrying ctx in every record.
// The root logger is resolved when a record is written, so loggers declared
// as package variables follow later calls to Init.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Levels accepted by SetLevel and reported by the level var of Init.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Init installs the root handler. Verbosity follows the legacy levels,
// 0 crit, 1 error, 2 warn, 3 info, 4 debug, 5 trace.
// The returned level var changes the level of the installed handler.
func Init(w io.Writer, verbosity int, json bool) *slog.LevelVar {
	var lvl slog.LevelVar
	lvl.Set(ethlog.FromLegacyLevel(verbosity))

	var h slog.Handler
	if json {
		h = ethlog.JSONHandlerWithLevel(w, LevelTrace)
	} else {
		h = ethlog.NewTerminalHandlerWithLevel(w, LevelTrace, useColor(w))
	}
	ethlog.SetDefault(ethlog.NewLogger(&levelHandler{&lvl, h}))
	return &lvl
}

// ParseLevel parses a level name, as in "debug" or "warn".
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "crit":
		return LevelCrit, true
	}
	return 0, false
}

// LevelName is the inverse of ParseLevel.
func LevelName(lvl slog.Level) string {
	return ethlog.LevelString(lvl)
}

// levelHandler drops records below the current level of lvl.
type levelHandler struct {
	lvl   *slog.LevelVar
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithGroup(name)}
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) { ethlog.Root().Info(msg, ctx...) }

// Warn logs at warn level on the root logger.
func Warn(msg string, ctx ...any) { ethlog.Root().Warn(msg, ctx...) }

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) target() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &lazyLogger{ctx: merged}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.target().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.target().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.target().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.target().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.target().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.target().Crit(msg, ctx...) }
