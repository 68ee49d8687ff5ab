package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type contextKey string

const updateIDKey contextKey = "update_id"

var (
	timeColor  = color.New(color.Faint)
	idColor    = color.New(color.FgMagenta)
	keyColor   = color.New(color.FgCyan)
	errColor   = color.New(color.FgRed)
	levelBadge = map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.BgCyan, color.FgHiWhite),
		slog.LevelInfo:  color.New(color.BgGreen, color.FgHiWhite),
		slog.LevelWarn:  color.New(color.BgYellow, color.FgHiWhite),
		slog.LevelError: color.New(color.BgRed, color.FgHiWhite),
	}
)

type Options struct {
	// Level reports the minimum level to log. If nil, [slog.LevelInfo] is used.
	Level slog.Leveler

	TimeFormat string

	// NoColor writes plain text, for log collectors that do not render ANSI.
	NoColor bool
}

var DefaultOptions = &Options{
	Level:      slog.LevelInfo,
	TimeFormat: time.DateTime,
}

// Handler is a single line, colourised slog.Handler.
type Handler struct {
	attrs  []slog.Attr
	groups []string
	opts   Options

	mu  *sync.Mutex
	out io.Writer
}

// NewHandler creates a Handler. If opts is nil, [DefaultOptions] is used.
func NewHandler(out io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = DefaultOptions
	}
	h := &Handler{opts: *opts, mu: &sync.Mutex{}, out: out}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.TimeFormat == "" {
		h.opts.TimeFormat = time.DateTime
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer

	paint := func(c *color.Color, s string) string {
		if h.opts.NoColor {
			return s
		}
		return c.Sprint(s)
	}

	if !r.Time.IsZero() {
		buf.WriteString(paint(timeColor, r.Time.Format(h.opts.TimeFormat)))
		buf.WriteByte(' ')
	}

	if updateID, ok := UpdateIDFromContext(ctx); ok {
		buf.WriteString(paint(idColor, fmt.Sprintf("%d", updateID)))
		buf.WriteByte(' ')
	}

	buf.WriteString(paint(badgeFor(r.Level), fmt.Sprintf("%-5s", r.Level.String())))
	buf.WriteByte(' ')

	if r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(&buf, "%s:%d ", filepath.Base(f.File), f.Line)
	}

	buf.WriteString("| ")
	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	writeAttr := func(a slog.Attr) {
		key := prefix + a.Key
		c := keyColor
		if strings.Contains(a.Key, "err") {
			c = errColor
		}
		buf.WriteByte(' ')
		buf.WriteString(paint(c, key+"="))
		buf.WriteString(a.Value.String())
	}

	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

func badgeFor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return levelBadge[slog.LevelError]
	case level >= slog.LevelWarn:
		return levelBadge[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return levelBadge[slog.LevelInfo]
	default:
		return levelBadge[slog.LevelDebug]
	}
}

func Err(err error) slog.Attr {
	return slog.Any("err", err)
}

func ContextWithUpdateID(ctx context.Context, updateID int) context.Context {
	return context.WithValue(ctx, updateIDKey, updateID)
}

func UpdateIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(updateIDKey).(int)
	return id, ok
}
