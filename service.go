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


package chatvault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/chatvault/ai"
	"github.com/poiesic/chatvault/chats"
	"github.com/poiesic/chatvault/core"
	"github.com/poiesic/chatvault/identity"
	"github.com/poiesic/chatvault/store"
	"github.com/poiesic/chatvault/store/badger"
)

// Service is the top-level entry point: a chat repository plus
// optional AI titling, wired over a single store client.
type Service struct {
	store    store.Client
	repo     *chats.Repository
	titler   ai.TitleGenerator
	logger   *slog.Logger
	ownStore bool
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	titler   ai.TitleGenerator
	logger   *slog.Logger
	repoOpts []chats.Option
}

// WithTitleGenerator enables AI titling for newly saved chats.
// Without it, titles fall back to the first user message.
func WithTitleGenerator(titler ai.TitleGenerator) ServiceOption {
	return func(o *serviceOptions) {
		o.titler = titler
	}
}

// WithLogger sets a custom logger for the service and its repository.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithRepositoryOptions forwards options to the underlying chat
// repository.
func WithRepositoryOptions(opts ...chats.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.repoOpts = append(o.repoOpts, opts...)
	}
}

// NewService creates a service over an existing store client. The
// client remains owned by the caller and is not closed by Close.
func NewService(client store.Client, resolver identity.Resolver, opts ...ServiceOption) (*Service, error) {
	return newService(client, resolver, false, opts...)
}

// Open creates a service over an embedded store at filePath,
// creating the directory if needed. The store is owned by the service
// and closed by Close.
func Open(filePath string, resolver identity.Resolver, opts ...ServiceOption) (*Service, error) {
	client, err := badger.Open(filePath)
	if err != nil {
		return nil, err
	}

	svc, err := newService(client, resolver, true, opts...)
	if err != nil {
		client.Close()
		return nil, err
	}
	return svc, nil
}

func newService(client store.Client, resolver identity.Resolver, ownStore bool, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Repository options supplied by the caller win over the service
	// defaults.
	repoOpts := []chats.Option{chats.WithLogger(options.logger)}
	repoOpts = append(repoOpts, options.repoOpts...)

	repo, err := chats.NewRepository(client, resolver, repoOpts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:    client,
		repo:     repo,
		titler:   options.titler,
		logger:   options.logger,
		ownStore: ownStore,
	}, nil
}

// Close releases the repository, and the store when the service
// opened it itself.
func (s *Service) Close() error {
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing chat repository", "err", err)
		return err
	}
	if s.ownStore {
		if err := s.store.Close(); err != nil {
			s.logger.Error("error closing store", "err", err)
			return err
		}
	}
	return nil
}

// Chats returns the underlying chat repository.
func (s *Service) Chats() *chats.Repository {
	return s.repo
}

// SaveExchange appends a user/assistant message pair to a chat and
// persists it. An empty chatID starts a new chat with a generated id.
//
// On a chat's first save the configured title generator runs over the
// transcript; a failed or absent generator falls back to a heuristic
// title. The saved chat is returned.
func (s *Service) SaveExchange(ctx context.Context, chatID string, userMsg, assistantMsg core.Message) (*core.Chat, error) {
	var chat *core.Chat
	if chatID == "" {
		chatID = core.NewChatID()
	} else {
		existing, err := s.repo.GetChat(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("loading chat %s: %w", chatID, err)
		}
		chat = existing
	}

	firstSave := chat == nil
	if firstSave {
		chat = &core.Chat{ID: chatID}
	}

	userMsg.Role = core.RoleUser
	assistantMsg.Role = core.RoleAssistant
	chat.Messages = append(chat.Messages, userMsg, assistantMsg)

	if firstSave && s.titler != nil {
		title, err := s.titler.GenerateTitle(ctx, chat.Messages)
		if err != nil {
			s.logger.Warn("title generation failed, falling back to heuristic",
				"chatID", chatID, "err", err)
		} else {
			chat.Title = title
		}
	}

	if err := s.repo.SaveChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// AdoptAnonymousChats moves chats saved before sign-in under the
// current authenticated identity. See chats.Repository.AdoptAnonymousChats.
func (s *Service) AdoptAnonymousChats(ctx context.Context) (int, error) {
	return s.repo.AdoptAnonymousChats(ctx)
}
