// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/chatvault/ai"
	"github.com/poiesic/chatvault/core"
)

// ErrEmptyTranscript is returned when there is nothing to title.
var ErrEmptyTranscript = errors.New("cannot title an empty transcript")

// TitleGenerator implements ai.TitleGenerator using OpenAI-compatible chat APIs.
type TitleGenerator struct {
	client      llms.Model
	maxAttempts int
	logger      *slog.Logger
}

// newTitleGenerator is an internal constructor that returns the concrete type.
func newTitleGenerator(config *ai.Config) (*TitleGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &TitleGenerator{
		client:      client,
		maxAttempts: config.MaxAttempts,
		logger:      slog.Default().With("component", "openai-titler"),
	}, nil
}

// NewTitleGenerator creates a title generator using the provided configuration.
//
// Returns ai.TitleGenerator interface to enforce abstraction.
func NewTitleGenerator(config *ai.Config) (ai.TitleGenerator, error) {
	return newTitleGenerator(config)
}

// GenerateTitle summarizes the opening of a conversation into a short
// title. Transient failures are retried with backoff; the final error
// is returned so callers can fall back to a heuristic title.
func (g *TitleGenerator) GenerateTitle(ctx context.Context, messages []core.Message) (string, error) {
	excerpt := buildExcerpt(messages)
	if excerpt == "" {
		return "", ErrEmptyTranscript
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(titleSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(excerpt),
			},
		},
	}

	var title string
	err := ai.RetryWithBackoff(ctx, func() error {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
		if err != nil {
			return err
		}
		if len(response.Choices) < 1 {
			return errors.New("no choices returned from model")
		}

		title = cleanTitle(response.Choices[0].Content)
		if title == "" {
			return errors.New("model returned an empty title")
		}
		return nil
	}, g.maxAttempts, 500*time.Millisecond)
	if err != nil {
		g.logger.Error("title generation failed", "err", err)
		return "", err
	}

	return core.TruncateTitle(title), nil
}

// cleanTitle strips the decoration chat models habitually wrap titles
// in: surrounding whitespace, quotes, and a trailing period.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSuffix(title, ".")
	// Collapse any internal newlines; titles are single-line.
	if idx := strings.IndexAny(title, "\r\n"); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}
