// Package uuid generates UUIDv7 identifiers for database primary keys.
// UUIDv7 embeds a millisecond timestamp in the high bits, so ids created
// later sort later, which keeps btree inserts append-mostly.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string.
//
// Layout per RFC 9562: 48 bits of Unix milliseconds, then the version
// nibble (7), 12 random bits, the variant bits (10), and 62 random bits.
func New() string {
	var id [16]byte

	ms := uint64(time.Now().UnixMilli())
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	binary.BigEndian.PutUint32(id[2:6], uint32(ms))

	if _, err := rand.Read(id[6:]); err != nil {
		// A random UUIDv4 keeps id generation working at the cost
		// of time ordering.
		return googleuuid.New().String()
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	var out [36]byte
	hex.Encode(out[:8], id[:4])
	out[8] = '-'
	hex.Encode(out[9:13], id[4:6])
	out[13] = '-'
	hex.Encode(out[14:18], id[6:8])
	out[18] = '-'
	hex.Encode(out[19:23], id[8:10])
	out[23] = '-'
	hex.Encode(out[24:], id[10:])
	return string(out[:])
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
