package core

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// NewChatID generates a new opaque chat identifier.
// The identifier is a 16-character lowercase hex string derived from a
// BLAKE2b digest of random bytes and the current time. It is used as the
// suffix of the "chat:<id>" storage key.
func NewChatID() string {
	var seed [24]byte
	if _, err := rand.Read(seed[:16]); err != nil {
		// crypto/rand failure means the platform RNG is broken;
		// there is no reasonable way to continue.
		panic(err)
	}
	binary.LittleEndian.PutUint64(seed[16:], uint64(time.Now().UnixNano()))

	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(seed[:])
	return hex.EncodeToString(h.Sum(nil))
}
