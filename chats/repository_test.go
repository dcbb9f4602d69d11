package chats

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/chatvault/core"
	"github.com/poiesic/chatvault/identity"
	"github.com/poiesic/chatvault/store"
	"github.com/poiesic/chatvault/store/badger"
)

func newMemoryClient(t *testing.T) (store.Client, error) {
	t.Helper()
	client, err := badger.NewMemoryClient()
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { client.Close() })
	return client, nil
}

// newRepoOver builds a repository sharing an existing store, so tests
// can act as different identities against the same data.
func newRepoOver(t *testing.T, client store.Client, resolver identity.Resolver) *Repository {
	t.Helper()
	repo, err := NewRepository(client, resolver)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestRepo(t *testing.T, resolver identity.Resolver) (*Repository, store.Client) {
	t.Helper()
	repo, client, err := NewMemoryRepository(resolver)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
		client.Close()
	})
	return repo, client
}

func testChat(id string) *core.Chat {
	return &core.Chat{
		ID: id,
		Messages: []core.Message{
			{ID: "m1", Role: core.RoleUser, Content: "Hello there"},
			{ID: "m2", Role: core.RoleAssistant, Content: "Hi! How can I help?"},
		},
	}
}

func TestSaveAndGetChat(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStatic("alice"))
	ctx := context.Background()

	chat := testChat("abc123")
	if err := repo.SaveChat(ctx, chat); err != nil {
		t.Fatalf("Failed to save chat: %v", err)
	}

	// Save stamps ownership and defaults in place.
	if chat.UserID != "alice" {
		t.Fatalf("Expected UserID 'alice', got '%s'", chat.UserID)
	}
	if chat.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be stamped")
	}
	if chat.Title != "Hello there" {
		t.Fatalf("Expected title from first message, got '%s'", chat.Title)
	}

	got, err := repo.GetChat(ctx, "abc123")
	if err != nil {
		t.Fatalf("Failed to get chat: %v", err)
	}
	if got == nil {
		t.Fatal("Expected chat, got nil")
	}
	if got.ID != "abc123" || got.UserID != "alice" || got.Title != "Hello there" {
		t.Fatalf("Round-trip mismatch: %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[1].Role != core.RoleAssistant || got.Messages[1].Content != "Hi! How can I help?" {
		t.Fatalf("Message round-trip mismatch: %+v", got.Messages[1])
	}
}

func TestGetChatMissing(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStatic("alice"))

	got, err := repo.GetChat(context.Background(), "no-such-chat")
	if err != nil {
		t.Fatalf("Expected no error for missing chat, got %v", err)
	}
	if got != nil {
		t.Fatalf("Expected nil for missing chat, got %+v", got)
	}
}

func TestGetChatWrongOwnerLooksAbsent(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	bobRepo := newRepoOver(t, client, identity.NewStatic("bob"))
	ctx := context.Background()

	if err := aliceRepo.SaveChat(ctx, testChat("secret")); err != nil {
		t.Fatalf("Failed to save chat: %v", err)
	}

	got, err := bobRepo.GetChat(ctx, "secret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Fatal("Expected another user's chat to look absent")
	}

	// The owner still sees it.
	got, err = aliceRepo.GetChat(ctx, "secret")
	if err != nil || got == nil {
		t.Fatalf("Owner should see their chat: %v, %v", got, err)
	}
}

func TestSaveChatUnresolved(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStaticUnresolved())

	err := repo.SaveChat(context.Background(), testChat("x1"))
	if err != ErrNotAuthenticated {
		t.Fatalf("Expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSaveChatAnonymousAllowed(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStaticAnonymous())
	ctx := context.Background()

	if err := repo.SaveChat(ctx, testChat("a1")); err != nil {
		t.Fatalf("Anonymous save should succeed: %v", err)
	}

	got, err := repo.GetChat(ctx, "a1")
	if err != nil || got == nil {
		t.Fatalf("Anonymous owner should read their chat back: %v, %v", got, err)
	}
	if got.UserID != identity.AnonymousKey {
		t.Fatalf("Expected anonymous owner, got '%s'", got.UserID)
	}
}

func TestGetChatsOrderingAndResave(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStatic("alice"))
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if err := repo.SaveChat(ctx, testChat(id)); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
		// Scores are millisecond timestamps; keep them distinct.
		time.Sleep(2 * time.Millisecond)
	}

	chats := repo.GetChats(ctx)
	if len(chats) != 3 {
		t.Fatalf("Expected 3 chats, got %d", len(chats))
	}
	if chats[0].ID != "third" || chats[1].ID != "second" || chats[2].ID != "first" {
		t.Fatalf("Expected newest-first ordering, got %s, %s, %s",
			chats[0].ID, chats[1].ID, chats[2].ID)
	}

	// Re-saving an old chat moves it to the front.
	if err := repo.SaveChat(ctx, testChat("first")); err != nil {
		t.Fatalf("Failed to re-save: %v", err)
	}
	chats = repo.GetChats(ctx)
	if len(chats) != 3 {
		t.Fatalf("Expected 3 chats after re-save, got %d", len(chats))
	}
	if chats[0].ID != "first" {
		t.Fatalf("Expected re-saved chat first, got %s", chats[0].ID)
	}
}

func TestGetChatsUnresolvedIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStaticUnresolved())

	chats := repo.GetChats(context.Background())
	if chats == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(chats) != 0 {
		t.Fatalf("Expected no chats, got %d", len(chats))
	}
}

func TestGetChatsIsolatedPerOwner(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	bobRepo := newRepoOver(t, client, identity.NewStatic("bob"))
	ctx := context.Background()

	if err := aliceRepo.SaveChat(ctx, testChat("a1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := bobRepo.SaveChat(ctx, testChat("b1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	aliceChats := aliceRepo.GetChats(ctx)
	if len(aliceChats) != 1 || aliceChats[0].ID != "a1" {
		t.Fatalf("Expected only alice's chat, got %+v", aliceChats)
	}
	bobChats := bobRepo.GetChats(ctx)
	if len(bobChats) != 1 || bobChats[0].ID != "b1" {
		t.Fatalf("Expected only bob's chat, got %+v", bobChats)
	}
}

func TestUpdateChatTitle(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStatic("alice"))
	ctx := context.Background()

	if err := repo.SaveChat(ctx, testChat("c1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	updated, err := repo.UpdateChatTitle(ctx, "c1", "Renamed")
	if err != nil {
		t.Fatalf("Failed to rename: %v", err)
	}
	if updated == nil || updated.Title != "Renamed" {
		t.Fatalf("Expected renamed chat, got %+v", updated)
	}

	got, err := repo.GetChat(ctx, "c1")
	if err != nil || got == nil {
		t.Fatalf("Failed to re-read: %v", err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("Rename did not persist, got '%s'", got.Title)
	}

	// Missing chat renames to nil, no error.
	updated, err = repo.UpdateChatTitle(ctx, "missing", "x")
	if err != nil || updated != nil {
		t.Fatalf("Expected nil, nil for missing chat, got %+v, %v", updated, err)
	}
}

func TestUpdateChatTitleWrongOwner(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	bobRepo := newRepoOver(t, client, identity.NewStatic("bob"))
	ctx := context.Background()

	if err := aliceRepo.SaveChat(ctx, testChat("c1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	updated, err := bobRepo.UpdateChatTitle(ctx, "c1", "hijacked")
	if err != nil || updated != nil {
		t.Fatalf("Expected nil, nil for foreign chat, got %+v, %v", updated, err)
	}

	got, _ := aliceRepo.GetChat(ctx, "c1")
	if got.Title == "hijacked" {
		t.Fatal("Foreign rename must not persist")
	}
}

func TestClearChat(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStatic("alice"))
	ctx := context.Background()

	if err := repo.SaveChat(ctx, testChat("c1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := repo.SaveChat(ctx, testChat("c2")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := repo.ClearChat(ctx, "c1"); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	got, _ := repo.GetChat(ctx, "c1")
	if got != nil {
		t.Fatal("Expected cleared chat to be gone")
	}
	chats := repo.GetChats(ctx)
	if len(chats) != 1 || chats[0].ID != "c2" {
		t.Fatalf("Expected only c2 to remain, got %+v", chats)
	}

	// Clearing a missing chat is a silent no-op.
	if err := repo.ClearChat(ctx, "missing"); err != nil {
		t.Fatalf("Expected no error for missing chat, got %v", err)
	}
}

func TestClearChatWrongOwner(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	bobRepo := newRepoOver(t, client, identity.NewStatic("bob"))
	ctx := context.Background()

	if err := aliceRepo.SaveChat(ctx, testChat("c1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := bobRepo.ClearChat(ctx, "c1"); err != nil {
		t.Fatalf("Expected silent no-op, got %v", err)
	}
	got, _ := aliceRepo.GetChat(ctx, "c1")
	if got == nil {
		t.Fatal("Foreign clear must not delete the chat")
	}
}

func TestClearChats(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	bobRepo := newRepoOver(t, client, identity.NewStatic("bob"))
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		if err := aliceRepo.SaveChat(ctx, testChat(id)); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
	}
	if err := bobRepo.SaveChat(ctx, testChat("b1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := aliceRepo.ClearChats(ctx); err != nil {
		t.Fatalf("Failed to clear chats: %v", err)
	}

	if chats := aliceRepo.GetChats(ctx); len(chats) != 0 {
		t.Fatalf("Expected alice to have no chats, got %d", len(chats))
	}
	if chats := bobRepo.GetChats(ctx); len(chats) != 1 {
		t.Fatalf("Expected bob's chats untouched, got %d", len(chats))
	}

	// Clearing an empty list is a no-op.
	if err := aliceRepo.ClearChats(ctx); err != nil {
		t.Fatalf("Expected no error on empty clear, got %v", err)
	}
}

func TestShareAndGetSharedChat(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStatic("alice"))
	ctx := context.Background()

	if err := repo.SaveChat(ctx, testChat("s1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// Unshared chats are invisible through the public path.
	got, err := repo.GetSharedChat(ctx, "s1")
	if err != nil || got != nil {
		t.Fatalf("Expected nil for unshared chat, got %+v, %v", got, err)
	}

	shared, err := repo.ShareChat(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to share: %v", err)
	}
	if shared == nil || shared.SharePath != "/share/s1" {
		t.Fatalf("Expected share path '/share/s1', got %+v", shared)
	}
	if !shared.Shared() {
		t.Fatal("Expected chat to report as shared")
	}

	got, err = repo.GetSharedChat(ctx, "s1")
	if err != nil || got == nil {
		t.Fatalf("Expected shared chat, got %+v, %v", got, err)
	}
	if got.ID != "s1" || len(got.Messages) != 2 {
		t.Fatalf("Shared chat mismatch: %+v", got)
	}

	// Sharing a missing chat returns nil, nil.
	shared, err = repo.ShareChat(ctx, "missing")
	if err != nil || shared != nil {
		t.Fatalf("Expected nil, nil for missing chat, got %+v, %v", shared, err)
	}
}

func TestShareChatWrongOwner(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	bobRepo := newRepoOver(t, client, identity.NewStatic("bob"))
	ctx := context.Background()

	if err := aliceRepo.SaveChat(ctx, testChat("s1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	shared, err := bobRepo.ShareChat(ctx, "s1")
	if err != nil || shared != nil {
		t.Fatalf("Expected foreign share to look absent, got %+v, %v", shared, err)
	}
}

func TestCorruptMessagesDegradeToEmpty(t *testing.T) {
	repo, client := newTestRepo(t, identity.NewStatic("alice"))
	ctx := context.Background()

	if err := repo.SaveChat(ctx, testChat("c1")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// Corrupt the serialized transcript behind the repository's back.
	if err := client.HSet(ctx, makeChatKey("c1"), fieldMessages, "{not json"); err != nil {
		t.Fatalf("Failed to corrupt record: %v", err)
	}

	got, err := repo.GetChat(ctx, "c1")
	if err != nil {
		t.Fatalf("Corrupt transcript must not error: %v", err)
	}
	if got == nil {
		t.Fatal("Expected chat despite corrupt transcript")
	}
	if len(got.Messages) != 0 {
		t.Fatalf("Expected empty messages, got %d", len(got.Messages))
	}
	if got.Title != "Hello there" {
		t.Fatalf("Metadata should survive corruption, got '%s'", got.Title)
	}
}

func TestAdoptAnonymousChats(t *testing.T) {
	client, err := newMemoryClient(t)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	anonRepo := newRepoOver(t, client, identity.NewStaticAnonymous())
	aliceRepo := newRepoOver(t, client, identity.NewStatic("alice"))
	ctx := context.Background()

	for _, id := range []string{"g1", "g2"} {
		if err := anonRepo.SaveChat(ctx, testChat(id)); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if err := aliceRepo.SaveChat(ctx, testChat("own")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	adopted, err := aliceRepo.AdoptAnonymousChats(ctx)
	if err != nil {
		t.Fatalf("Failed to adopt: %v", err)
	}
	if adopted != 2 {
		t.Fatalf("Expected 2 adopted chats, got %d", adopted)
	}

	if chats := anonRepo.GetChats(ctx); len(chats) != 0 {
		t.Fatalf("Expected anonymous list emptied, got %d", len(chats))
	}

	chats := aliceRepo.GetChats(ctx)
	if len(chats) != 3 {
		t.Fatalf("Expected 3 chats after adoption, got %d", len(chats))
	}
	for _, c := range chats {
		if c.UserID != "alice" {
			t.Fatalf("Expected alice to own %s, got '%s'", c.ID, c.UserID)
		}
	}

	// Adopted chats land at the top, preserving their relative order.
	if chats[0].ID != "g2" || chats[1].ID != "g1" || chats[2].ID != "own" {
		t.Fatalf("Unexpected order after adoption: %s, %s, %s",
			chats[0].ID, chats[1].ID, chats[2].ID)
	}

	// Second adoption finds nothing.
	adopted, err = aliceRepo.AdoptAnonymousChats(ctx)
	if err != nil || adopted != 0 {
		t.Fatalf("Expected 0 adopted on repeat, got %d, %v", adopted, err)
	}
}

func TestAdoptRequiresAuthenticated(t *testing.T) {
	repo, _ := newTestRepo(t, identity.NewStaticAnonymous())

	_, err := repo.AdoptAnonymousChats(context.Background())
	if err != ErrNotAuthenticated {
		t.Fatalf("Expected ErrNotAuthenticated, got %v", err)
	}
}
