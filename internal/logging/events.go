// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"sync"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryPost    = "post"
	EventCategoryProfile = "profile"
	EventCategoryStorage = "storage"
	EventCategoryEnhance = "enhance"
	EventCategoryBackup  = "backup"
	EventCategorySystem  = "system"
)

// DefaultEventLogSize is the number of events kept when no size is given.
const DefaultEventLogSize = 50

// Event is one log record kept for the admin view.
type Event struct {
	Time     time.Time
	Level    string
	Category string
	Message  string
	Metadata string
}

// EventLog is a fixed-size ring of recent events. It is safe for concurrent use.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
}

// NewEventLog creates a ring holding up to size events.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultEventLogSize
	}
	return &EventLog{events: make([]Event, size)}
}

// Add records an event, overwriting the oldest when full.
func (l *EventLog) Add(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events[l.next] = e
	l.next = (l.next + 1) % len(l.events)
	if l.next == 0 {
		l.full = true
	}
}

// Len returns the number of stored events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full {
		return len(l.events)
	}
	return l.next
}

// Recent returns up to n events, newest first. n <= 0 returns all.
func (l *EventLog) Recent(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.next
	if l.full {
		count = len(l.events)
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.next - i + len(l.events)) % len(l.events)
		out = append(out, l.events[idx])
	}
	return out
}
