// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package enhance rewrites draft post content through a generative text
// provider. Failures never surface as panics or blank text: the caller always
// gets either the improved text or the original content with the reason.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeout bounds a single enhancement call.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotConfigured is returned when no provider or API key is set.
	ErrNotConfigured = errors.New("content enhancement is not configured")
	// ErrEmptyInput is returned when the title or content is blank.
	ErrEmptyInput = errors.New("title and content are required")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("provider returned no text")
)

// EnhancementError describes why an enhancement did not produce text.
type EnhancementError struct {
	Provider string
	Err      error
}

func (e *EnhancementError) Error() string {
	if e.Provider == "" {
		return "enhance: " + e.Err.Error()
	}
	return fmt.Sprintf("enhance (%s): %v", e.Provider, e.Err)
}

func (e *EnhancementError) Unwrap() error {
	return e.Err
}

// Result is the outcome of Enhance. Text is always usable: on failure it
// holds the original content.
type Result struct {
	Text string
	Err  error
}

// Enhanced reports whether Text came from the provider.
func (r Result) Enhanced() bool {
	return r.Err == nil
}

// Options configures a Client.
type Options struct {
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client calls a Provider with the post rewrite prompt.
type Client struct {
	provider Provider
	model    string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewClient creates a client. A nil provider yields a client whose every
// call returns ErrNotConfigured.
func NewClient(provider Provider, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Model == "" && provider != nil {
		opts.Model = DefaultModel(provider.ID())
	}
	return &Client{
		provider: provider,
		model:    opts.Model,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
}

// Configured reports whether a provider is available.
func (c *Client) Configured() bool {
	return c != nil && c.provider != nil
}

// Enhance asks the provider to rewrite content. It returns within the
// configured timeout whether or not the provider responds.
func (c *Client) Enhance(ctx context.Context, title, content string) Result {
	if !c.Configured() {
		return c.fail(content, "", ErrNotConfigured)
	}
	providerID := c.provider.ID()

	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return c.fail(content, providerID, ErrEmptyInput)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		text, err := c.provider.Generate(ctx, c.model, buildPrompt(title, content))
		done <- reply{text: text, err: err}
	}()

	// Providers that ignore ctx must not hold the request past the timeout.
	var rep reply
	select {
	case rep = <-done:
	case <-ctx.Done():
		rep = reply{err: ctx.Err()}
	}

	if rep.err != nil {
		return c.fail(content, providerID, rep.err)
	}

	text := cleanResponse(rep.text)
	if text == "" {
		return c.fail(content, providerID, ErrEmptyResponse)
	}

	c.logger.Info("content enhanced",
		"provider", providerID,
		"model", c.model,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return Result{Text: text}
}

func (c *Client) fail(content, providerID string, err error) Result {
	if c != nil && c.logger != nil && !errors.Is(err, ErrNotConfigured) && !errors.Is(err, ErrEmptyInput) {
		c.logger.Warn("content enhancement failed", "provider", providerID, "error", err)
	}
	return Result{Text: content, Err: &EnhancementError{Provider: providerID, Err: err}}
}
