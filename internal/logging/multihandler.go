package logging

import (
	"context"
	"log/slog"
)

// MultiHandler delivers each record to every target handler, letting one
// logger feed the console, the session file, and a network sink at once.
type MultiHandler struct {
	targets []slog.Handler
}

// NewMultiHandler builds a MultiHandler over the non-nil targets.
func NewMultiHandler(targets ...slog.Handler) *MultiHandler {
	mh := &MultiHandler{targets: make([]slog.Handler, 0, len(targets))}
	for _, t := range targets {
		if t != nil {
			mh.targets = append(mh.targets, t)
		}
	}
	return mh
}

// Enabled reports whether at least one target wants records at this level.
func (mh *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range mh.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle clones the record for each interested target. One target failing
// must not cost the others their copy, so failures are dropped.
func (mh *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, t := range mh.targets {
		if !t.Enabled(ctx, r.Level) {
			continue
		}
		_ = t.Handle(ctx, r.Clone())
	}
	return nil
}

// WithAttrs applies the attributes to every target.
func (mh *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	targets := make([]slog.Handler, len(mh.targets))
	for i, t := range mh.targets {
		targets[i] = t.WithAttrs(attrs)
	}
	return &MultiHandler{targets: targets}
}

// WithGroup applies the group name to every target.
func (mh *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return mh
	}
	targets := make([]slog.Handler, len(mh.targets))
	for i, t := range mh.targets {
		targets[i] = t.WithGroup(name)
	}
	return &MultiHandler{targets: targets}
}
