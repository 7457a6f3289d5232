package metadata

import (
	"context"
	"log/slog"
	"sync"
)

// Notice is one diagnostic captured during a load or emit pass.
type Notice struct {
	Level   slog.Level     `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Recorder collects diagnostics so that callers can inspect them after
// a pass instead of scraping log output. Attach it to a context via
// Logger(): parse notices logged at Info level and above are kept.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Logger returns a logger whose records feed this recorder.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(&recorderHandler{rec: r})
}

// Notices returns the captured diagnostics in arrival order.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// CountAtLeast returns how many captured notices are at or above the
// given level.
func (r *Recorder) CountAtLeast(level slog.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.notices {
		if notice.Level >= level {
			n++
		}
	}
	return n
}

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

type recorderHandler struct {
	rec  *Recorder
	base []slog.Attr
}

func (h *recorderHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *recorderHandler) Handle(_ context.Context, record slog.Record) error {
	n := Notice{Level: record.Level, Message: record.Message}
	if len(h.base) > 0 || record.NumAttrs() > 0 {
		n.Attrs = make(map[string]any, len(h.base)+record.NumAttrs())
	}
	for _, a := range h.base {
		n.Attrs[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		n.Attrs[a.Key] = a.Value.Any()
		return true
	})
	h.rec.add(n)
	return nil
}

func (h *recorderHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	base := make([]slog.Attr, 0, len(h.base)+len(attrs))
	base = append(base, h.base...)
	base = append(base, attrs...)
	return &recorderHandler{rec: h.rec, base: base}
}

func (h *recorderHandler) WithGroup(string) slog.Handler {
	return h
}
