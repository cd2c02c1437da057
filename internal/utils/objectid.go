package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

var (
	objectIDMachine = newMachineID()
	objectIDPid     = uint16(os.Getpid())
	objectIDCounter = newCounterSeed()
)

// NewObjectID returns a 24 character hex id in the layout the game uses for
// every entity: 4 bytes of unix seconds, 3 machine bytes, 2 process bytes and
// a 3 byte counter.
func NewObjectID() string {
	return objectIDAt(time.Now())
}

func objectIDAt(t time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(t.Unix()))
	copy(b[4:7], objectIDMachine[:])
	binary.BigEndian.PutUint16(b[7:9], objectIDPid)
	n := atomic.AddUint32(&objectIDCounter, 1)
	b[9] = byte(n >> 16)
	b[10] = byte(n >> 8)
	b[11] = byte(n)
	return hex.EncodeToString(b[:])
}

// ObjectIDTime extracts the creation time of an id. ok is false for ids that
// are not 24 hex characters.
func ObjectIDTime(id string) (time.Time, bool) {
	if len(id) != 24 {
		return time.Time{}, false
	}
	raw, err := hex.DecodeString(id[:8])
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(int64(binary.BigEndian.Uint32(raw)), 0).UTC(), true
}

func newMachineID() [3]byte {
	var m [3]byte
	_, _ = rand.Read(m[:])
	return m
}

func newCounterSeed() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint32(b[:]) & 0xffffff
}
