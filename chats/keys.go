package chats

import "strings"

// Key layout in the store
const (
	// chatKeyPrefix prefixes the hash holding one chat record.
	chatKeyPrefix = "chat:"

	// userChatVersion versions the per-user index layout. Bump only
	// with a migration of existing sorted sets.
	userChatVersion = "v2"
)

// makeChatKey generates the hash key for a chat record.
// Format: chat:<id>
func makeChatKey(id string) string {
	return chatKeyPrefix + id
}

// makeUserChatKey generates the sorted-set key indexing an owner's
// chats, scored by last-save time in milliseconds.
// Format: user:v2:chat:<ownerKey>
func makeUserChatKey(ownerKey string) string {
	return "user:" + userChatVersion + ":chat:" + ownerKey
}

// chatIDFromKey recovers the chat id from a chat hash key. Sorted-set
// members are full chat keys, not bare ids.
func chatIDFromKey(key string) string {
	return strings.TrimPrefix(key, chatKeyPrefix)
}

// makeSharePath generates the public sharing path stamped onto a
// shared chat record.
func makeSharePath(id string) string {
	return "/share/" + id
}
