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


package chats

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/chatvault/core"
	"github.com/poiesic/chatvault/identity"
	"github.com/poiesic/chatvault/store"
)

// Repository composes store operations into chat semantics and
// enforces ownership. The identity is re-resolved on every operation,
// never cached; the store is the only shared mutable resource.
//
// Two sibling operations on the same chat are not serialized by this
// layer: last-write-wins at the store, and a reader may briefly
// observe a hash without its index entry or vice versa.
type Repository struct {
	store  store.Client
	ids    identity.Resolver
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository) error

// WithPoolSize sets the worker pool size used to fan out per-chat hash
// reads when listing. Default is runtime.NumCPU() / 2, with a minimum
// of 1.
func WithPoolSize(size int) Option {
	return func(r *Repository) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRepository creates a chat repository over the given store client
// and identity resolver.
func NewRepository(client store.Client, resolver identity.Resolver, opts ...Option) (*Repository, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		store:  client,
		ids:    resolver,
		pool:   pool,
		logger: slog.Default().With("component", "chats"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return r, nil
}

// Close releases the worker pool. The store client is owned by the
// caller and is not closed here.
func (r *Repository) Close() error {
	r.pool.Release()
	return nil
}

// GetChats returns the current identity's chats, most recently saved
// first. It never fails: an unresolved identity or an unreachable
// store degrades to an empty list (logged), because the caller cannot
// usefully recover from a partial listing and a broken chat view is
// worse than an empty one.
func (r *Repository) GetChats(ctx context.Context) []*core.Chat {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		r.logger.Error("identity resolution failed, returning no chats", "err", err)
		return []*core.Chat{}
	}
	if ident.IsZero() {
		return []*core.Chat{}
	}

	keys, err := r.store.ZRange(ctx, makeUserChatKey(ident.Key()), 0, -1, true)
	if err != nil {
		r.logger.Error("listing chats failed, returning no chats", "owner", ident.Key(), "err", err)
		return []*core.Chat{}
	}
	if len(keys) == 0 {
		return []*core.Chat{}
	}

	// Fan out the per-chat hash reads; order is preserved by index.
	results := make([]map[string]string, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		fetch := func() {
			defer wg.Done()
			fields, err := r.store.HGetAll(ctx, key)
			if err != nil {
				r.logger.Warn("reading chat record failed during listing", "key", key, "err", err)
				return
			}
			results[i] = fields
		}
		if err := r.pool.Submit(fetch); err != nil {
			// Pool unavailable; fetch inline rather than dropping.
			fetch()
		}
	}
	wg.Wait()

	// Filter out empty and unreadable records before mapping.
	chats := make([]*core.Chat, 0, len(results))
	for _, fields := range results {
		if len(fields) == 0 {
			continue
		}
		chats = append(chats, unmarshalChatFields(fields, r.logger))
	}
	return chats
}

// GetChat returns the chat with the given id, or nil if it does not
// exist or is not owned by the current identity. Ownership failures
// are indistinguishable from absence so that probing ids leaks
// nothing.
func (r *Repository) GetChat(ctx context.Context, id string) (*core.Chat, error) {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		r.logger.Error("identity resolution failed", "chatID", id, "err", err)
		return nil, nil
	}
	if ident.IsZero() {
		return nil, nil
	}

	fields, err := r.store.HGetAll(ctx, makeChatKey(id))
	if err != nil {
		return nil, fmt.Errorf("reading chat %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	if !ident.Owns(fields[fieldUserID]) {
		r.logger.Warn("denied access to chat not owned by caller",
			"chatID", id, "caller", ident.Key(), "owner", fields[fieldUserID])
		return nil, nil
	}

	return unmarshalChatFields(fields, r.logger), nil
}

// SaveChat persists the chat under the current identity, stamping
// UserID, defaulting CreatedAt and Title, and serializing the
// transcript. The hash write and the index add are issued as one
// pipeline so list membership stays in sync with record existence.
//
// Unlike the read paths this fails loudly: an unresolvable identity
// returns ErrNotAuthenticated and store errors propagate, so the
// caller can retry or surface the failure instead of silently losing
// the transcript. The anonymous sentinel counts as a valid owner.
func (r *Repository) SaveChat(ctx context.Context, chat *core.Chat) error {
	if err := core.ValidateChat(chat); err != nil {
		return err
	}

	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolving identity: %w", err)
	}
	if ident.IsZero() {
		return ErrNotAuthenticated
	}

	now := time.Now().UTC()
	chat.UserID = ident.Key()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	if chat.Title == "" {
		chat.Title = core.DefaultTitle(chat.Messages)
	}

	fields, err := marshalChatFields(chat)
	if err != nil {
		return err
	}

	chatKey := makeChatKey(chat.ID)
	err = r.store.Pipeline().
		HMSet(chatKey, fields).
		ZAdd(makeUserChatKey(ident.Key()), float64(now.UnixMilli()), chatKey).
		Exec(ctx)
	if err != nil {
		r.logger.Error("saving chat failed", "chatID", chat.ID, "owner", ident.Key(), "err", err)
		return fmt.Errorf("saving chat %s: %w", chat.ID, err)
	}
	return nil
}

// UpdateChatTitle renames a chat and returns the reconstructed record,
// or nil if the chat does not exist or is not owned by the current
// identity.
func (r *Repository) UpdateChatTitle(ctx context.Context, id, title string) (*core.Chat, error) {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		r.logger.Error("identity resolution failed", "chatID", id, "err", err)
		return nil, nil
	}
	if ident.IsZero() {
		r.logger.Warn("title update attempted without authentication", "chatID", id)
		return nil, nil
	}

	chatKey := makeChatKey(id)
	exists, err := r.store.Exists(ctx, chatKey)
	if err != nil {
		return nil, fmt.Errorf("checking chat %s: %w", id, err)
	}
	if !exists {
		return nil, nil
	}

	// Re-check ownership on every mutation; it is never cached.
	owner, err := r.store.HGet(ctx, chatKey, fieldUserID)
	if err != nil {
		return nil, fmt.Errorf("checking ownership of chat %s: %w", id, err)
	}
	if !ident.Owns(owner) {
		r.logger.Warn("denied title update on chat not owned by caller",
			"chatID", id, "caller", ident.Key(), "owner", owner)
		return nil, nil
	}

	if err := r.store.HSet(ctx, chatKey, fieldTitle, title); err != nil {
		return nil, fmt.Errorf("updating title of chat %s: %w", id, err)
	}

	fields, err := r.store.HGetAll(ctx, chatKey)
	if err != nil {
		return nil, fmt.Errorf("re-reading chat %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return unmarshalChatFields(fields, r.logger), nil
}

// ClearChat deletes a chat and its list membership. This is a
// best-effort cleanup path: a failed ownership check is a silent
// no-op (logged), not an error.
func (r *Repository) ClearChat(ctx context.Context, id string) error {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		r.logger.Error("identity resolution failed", "chatID", id, "err", err)
		return nil
	}
	if ident.IsZero() {
		return nil
	}

	chatKey := makeChatKey(id)
	owner, err := r.store.HGet(ctx, chatKey, fieldUserID)
	if err != nil {
		return fmt.Errorf("checking ownership of chat %s: %w", id, err)
	}
	if owner == "" || !ident.Owns(owner) {
		r.logger.Warn("denied delete of chat not owned by caller",
			"chatID", id, "caller", ident.Key(), "owner", owner)
		return nil
	}

	err = r.store.Pipeline().
		Del(chatKey).
		ZRem(makeUserChatKey(ident.Key()), chatKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting chat %s: %w", id, err)
	}
	return nil
}

// ClearChats deletes every chat of the current identity: one pipeline
// removing each chat hash and its membership in the owner's sorted
// set. No-ops if the identity is unresolvable or has no chats.
func (r *Repository) ClearChats(ctx context.Context) error {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		r.logger.Error("identity resolution failed", "err", err)
		return nil
	}
	if ident.IsZero() {
		r.logger.Warn("bulk clear attempted without authentication")
		return nil
	}

	userKey := makeUserChatKey(ident.Key())
	keys, err := r.store.ZRange(ctx, userKey, 0, -1, false)
	if err != nil {
		return fmt.Errorf("listing chats for clear: %w", err)
	}
	if len(keys) == 0 {
		r.logger.Debug("no chats to clear", "owner", ident.Key())
		return nil
	}

	pipe := r.store.Pipeline()
	for _, key := range keys {
		pipe.Del(key)
		pipe.ZRem(userKey, key)
	}
	if err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clearing chats: %w", err)
	}
	return nil
}

// ShareChat stamps the public share path onto a chat and returns the
// updated record, or nil if the chat does not exist or is not owned by
// the current identity.
func (r *Repository) ShareChat(ctx context.Context, id string) (*core.Chat, error) {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		r.logger.Error("identity resolution failed", "chatID", id, "err", err)
		return nil, nil
	}
	if ident.IsZero() {
		return nil, nil
	}

	chatKey := makeChatKey(id)
	fields, err := r.store.HGetAll(ctx, chatKey)
	if err != nil {
		return nil, fmt.Errorf("reading chat %s: %w", id, err)
	}
	if len(fields) == 0 || !ident.Owns(fields[fieldUserID]) {
		return nil, nil
	}

	sharePath := makeSharePath(id)
	if err := r.store.HSet(ctx, chatKey, fieldSharePath, sharePath); err != nil {
		return nil, fmt.Errorf("sharing chat %s: %w", id, err)
	}

	fields[fieldSharePath] = sharePath
	return unmarshalChatFields(fields, r.logger), nil
}

// GetSharedChat retrieves a chat without any ownership check. This is
// the only identity-free read path and returns nil unless the chat has
// been explicitly shared.
func (r *Repository) GetSharedChat(ctx context.Context, id string) (*core.Chat, error) {
	fields, err := r.store.HGetAll(ctx, makeChatKey(id))
	if err != nil {
		return nil, fmt.Errorf("reading shared chat %s: %w", id, err)
	}
	if len(fields) == 0 || fields[fieldSharePath] == "" {
		return nil, nil
	}
	return unmarshalChatFields(fields, r.logger), nil
}

// AdoptAnonymousChats re-homes chats saved under the anonymous
// sentinel to the now-authenticated identity: the owner field is
// rewritten and the index membership moves from the anonymous sorted
// set to the caller's, preserving relative order. Returns the number
// of chats adopted.
//
// Requires an authenticated identity; the sentinel cannot adopt from
// itself.
func (r *Repository) AdoptAnonymousChats(ctx context.Context) (int, error) {
	ident, err := r.ids.Resolve(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolving identity: %w", err)
	}
	if ident.IsZero() || ident.IsAnonymous() {
		return 0, ErrNotAuthenticated
	}

	anonKey := makeUserChatKey(identity.AnonymousKey)
	keys, err := r.store.ZRange(ctx, anonKey, 0, -1, false)
	if err != nil {
		return 0, fmt.Errorf("listing anonymous chats: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	userKey := makeUserChatKey(ident.Key())
	base := time.Now().UnixMilli()

	pipe := r.store.Pipeline()
	adopted := 0
	for i, key := range keys {
		owner, err := r.store.HGet(ctx, key, fieldUserID)
		if err != nil {
			return 0, fmt.Errorf("checking ownership of %s: %w", key, err)
		}
		if owner != identity.AnonymousKey {
			// Stale index entry; leave the record alone.
			r.logger.Warn("skipping anonymous index entry with mismatched owner",
				"chatID", chatIDFromKey(key), "owner", owner)
			continue
		}

		// keys are in ascending save order; keep that order under the
		// new owner while placing the batch at the top of their list.
		score := float64(base - int64(len(keys)-1-i))
		pipe.HMSet(key, map[string]string{fieldUserID: ident.Key()})
		pipe.ZRem(anonKey, key)
		pipe.ZAdd(userKey, score, key)
		adopted++
	}
	if adopted == 0 {
		return 0, nil
	}

	if err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("adopting anonymous chats: %w", err)
	}
	r.logger.Info("adopted anonymous chats", "owner", ident.Key(), "count", adopted)
	return adopted, nil
}
