// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package clog implements a slog.Handler that writes
// classified, colorized log lines:
//
//	[ERROR]: msg key=value ...
//	[WARN]: msg key=value ...
//	[INFO]: msg key=value ...
//
// Errors are red, warnings yellow, info blue and debug
// messages are left uncolored.
package clog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"
)

// ANSI escapes.
const (
	reset  = "\x1b[0m"
	red    = "\x1b[1;31m"
	yellow = "\x1b[1;33m"
	blue   = "\x1b[1;34m"
)

// Options configures a Handler.
type Options struct {
	// Level is the minimum level that is written.
	// Defaults to slog.LevelInfo.
	Level slog.Leveler
	// NoColor disables ANSI escapes.
	NoColor bool
}

// Handler is a slog.Handler that writes one line per record.
// It is safe for concurrent use.
type Handler struct {
	opts   Options
	mu     *sync.Mutex
	w      io.Writer
	prefix string // Preformatted attributes.
	group  string
}

// New creates a new Handler that writes to w.
// If opts is nil, the default options are used. Color is
// also disabled when the NO_COLOR environment variable
// is set.
func New(w io.Writer, opts *Options) *Handler {
	h := &Handler{mu: new(sync.Mutex), w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		h.opts.NoColor = true
	}
	return h
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.opts.Level.Level()
}

// tag returns the bracketed level name and its color.
func tag(l slog.Level) (string, string) {
	switch {
	case l >= slog.LevelError:
		return "[ERROR]", red
	case l >= slog.LevelWarn:
		return "[WARN]", yellow
	case l >= slog.LevelInfo:
		return "[INFO]", blue
	default:
		return "[DEBUG]", ""
	}
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	name, color := tag(r.Level)
	buf := make([]byte, 0, 128)
	if h.opts.NoColor || color == "" {
		buf = append(buf, name...)
	} else {
		buf = append(buf, color...)
		buf = append(buf, name...)
		buf = append(buf, reset...)
	}
	buf = append(buf, ": "...)
	buf = append(buf, r.Message...)
	buf = append(buf, h.prefix...)
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.group, a)
		return true
	})
	buf = append(buf, '\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	buf := []byte(h.prefix)
	for _, a := range attrs {
		buf = appendAttr(buf, h.group, a)
	}
	h2.prefix = string(buf)
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

// appendAttr appends " key=value" to buf.
// Group attributes are flattened with dotted keys.
func appendAttr(buf []byte, group string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		g := group
		if a.Key != "" {
			g += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, g, ga)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, group...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if needsQuote(s) {
			buf = strconv.AppendQuote(buf, s)
		} else {
			buf = append(buf, s...)
		}
	case slog.KindTime:
		buf = a.Value.Time().AppendFormat(buf, time.RFC3339)
	default:
		buf = fmt.Append(buf, a.Value.Any())
	}
	return buf
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if c <= ' ' || c == '=' || c == '"' || c > '~' {
			return true
		}
	}
	return false
}

// SetDefault installs a Handler writing to stderr as the
// slog default.
func SetDefault(level slog.Level) {
	slog.SetDefault(slog.New(New(os.Stderr, &Options{Level: level})))
}
