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


package mock

import (
	"context"

	"github.com/poiesic/chatvault/core"
)

// MockTitleGenerator is a test double for ai.TitleGenerator.
// It allows custom behavior injection via function fields.
type MockTitleGenerator struct {
	// GenerateTitleFunc is called by GenerateTitle if set.
	// If nil, uses the default heuristic title.
	GenerateTitleFunc func(ctx context.Context, messages []core.Message) (string, error)

	callCount int
}

// NewMockTitleGenerator creates a mock title generator with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockTitleGenerator() *MockTitleGenerator {
	return &MockTitleGenerator{}
}

// WithGenerateTitleFunc sets a custom generation function and returns
// the mock for chaining.
func (m *MockTitleGenerator) WithGenerateTitleFunc(fn func(ctx context.Context, messages []core.Message) (string, error)) *MockTitleGenerator {
	m.GenerateTitleFunc = fn
	return m
}

// GenerateTitle returns a deterministic title for the transcript.
// Default behavior: the heuristic first-message title.
func (m *MockTitleGenerator) GenerateTitle(ctx context.Context, messages []core.Message) (string, error) {
	m.callCount++

	if m.GenerateTitleFunc != nil {
		return m.GenerateTitleFunc(ctx, messages)
	}

	return core.DefaultTitle(messages), nil
}

// CallCount returns the number of times GenerateTitle was called.
func (m *MockTitleGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count.
func (m *MockTitleGenerator) Reset() {
	m.callCount = 0
}
