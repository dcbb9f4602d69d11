package badger

import (
	"encoding/binary"
	"math"
)

// Key prefixes for the two data shapes the store exposes
const (
	hashPrefix      = "h"
	zsetEntryPrefix = "z"
	zsetScorePrefix = "zm"
)

// makeHashFieldKey generates the key holding one field of a hash.
// Format: h:<key>:<field>
func makeHashFieldKey(key, field string) []byte {
	return []byte(hashPrefix + ":" + key + ":" + field)
}

// makeHashPrefix generates the iteration prefix covering every field
// of a hash.
func makeHashPrefix(key string) []byte {
	return []byte(hashPrefix + ":" + key + ":")
}

// makeZSetEntryKey generates a composite key for a sorted-set entry.
// Format: z:<key>:<score><member>
// The score is written big-endian and order-preserving so that
// lexicographic iteration yields ascending score order; ties fall back
// to member byte order, which is stable.
func makeZSetEntryKey(key string, score float64, member string) []byte {
	prefix := makeZSetEntryPrefix(key)
	buf := make([]byte, len(prefix)+8+len(member))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], encodeScore(score))
	offset += 8
	copy(buf[offset:], member)
	return buf
}

// makeZSetEntryPrefix generates the iteration prefix covering every
// entry of a sorted set.
func makeZSetEntryPrefix(key string) []byte {
	return []byte(zsetEntryPrefix + ":" + key + ":")
}

// makeZSetScoreKey generates the key holding a member's current score,
// used to locate and replace the entry on re-add and removal.
// Format: zm:<key>:<member>
func makeZSetScoreKey(key, member string) []byte {
	return []byte(zsetScorePrefix + ":" + key + ":" + member)
}

// encodeScore maps a float64 to a uint64 whose unsigned big-endian
// byte order matches the numeric order of the input. Standard IEEE-754
// trick: flip the sign bit for non-negative values, flip all bits for
// negative ones.
func encodeScore(score float64) uint64 {
	bits := math.Float64bits(score)
	if bits&(1<<63) == 0 {
		return bits | (1 << 63)
	}
	return ^bits
}

// decodeScore is the inverse of encodeScore.
func decodeScore(encoded uint64) float64 {
	if encoded&(1<<63) != 0 {
		return math.Float64frombits(encoded &^ (1 << 63))
	}
	return math.Float64frombits(^encoded)
}

// marshalScore returns the 8-byte big-endian encoding of a score.
func marshalScore(score float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, encodeScore(score))
	return buf
}

// unmarshalScore decodes an 8-byte big-endian score.
func unmarshalScore(data []byte) float64 {
	return decodeScore(binary.BigEndian.Uint64(data))
}
