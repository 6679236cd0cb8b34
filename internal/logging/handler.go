// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that keeps recent warnings and
// errors in an in-memory Event Log shown on the admin view.
package logging

import (
	"context"
	"log/slog"
	"strings"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// records WARN and ERROR level logs in an EventLog. The log lives in memory
// because storage failures are among the things it reports.
type EventLogHandler struct {
	inner slog.Handler
	log   *EventLog
	level slog.Level // Minimum level to forward to Event Log (default: WARN)
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the Event Log.
func NewEventLogHandler(inner slog.Handler, log *EventLog) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, log, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, log *EventLog, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner: inner,
		log:   log,
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level && h.log != nil {
		h.log.Add(Event{
			Time:     r.Time,
			Level:    slogLevelToEventLevel(r.Level),
			Category: extractCategory(r),
			Message:  r.Message,
			Metadata: extractMetadata(r),
		})
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner: h.inner.WithAttrs(attrs),
		log:   h.log,
		level: h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner: h.inner.WithGroup(name),
		log:   h.log,
		level: h.level,
	}
}

// ParseLevel maps a FOLIO_LOG_LEVEL value to a slog level. Unknown values
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return EventLevelError
	case level >= slog.LevelWarn:
		return EventLevelWarning
	default:
		return EventLevelInfo
	}
}

// extractCategory uses a "category" attribute when present and otherwise
// infers one from the message.
func extractCategory(r slog.Record) string {
	var category string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false // Stop iteration
		}
		return true
	})

	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "passkey") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return EventCategoryAuth
	case strings.Contains(msg, "enhance"):
		return EventCategoryEnhance
	case strings.Contains(msg, "profile"):
		return EventCategoryProfile
	case strings.Contains(msg, "post"):
		return EventCategoryPost
	case strings.Contains(msg, "backup") || strings.Contains(msg, "snapshot"):
		return EventCategoryBackup
	case strings.Contains(msg, "record") || strings.Contains(msg, "storage"):
		return EventCategoryStorage
	default:
		return EventCategorySystem
	}
}

// extractMetadata renders the record attributes as key=value pairs.
func extractMetadata(r slog.Record) string {
	var sb strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true // Skip category, already extracted
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
		return true
	})
	return sb.String()
}
