// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package enhance

import (
	"context"
	"fmt"
)

// Provider IDs accepted by FOLIO_AI_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-3-flash-preview"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Provider generates text for a single prompt.
type Provider interface {
	ID() string
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(providerID string) string {
	switch providerID {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultGeminiModel
	}
}

// IsKnownProvider reports whether providerID names a supported provider.
func IsKnownProvider(providerID string) bool {
	return providerID == ProviderGemini || providerID == ProviderOpenAI
}

// NewProvider builds the provider named by providerID. An empty API key
// returns ErrNotConfigured so the site can run without enhancement.
func NewProvider(ctx context.Context, providerID, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	switch providerID {
	case ProviderGemini, "":
		return NewGeminiProvider(ctx, apiKey)
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerID)
	}
}
