package utils

import (
	"crypto/rand"
	mrand "math/rand"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
)

// NewRoomCode returns a random 6-character room code over A-Z0-9.
func NewRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// Fallback if crypto/rand is unavailable.
		for i := range buf {
			buf[i] = roomCodeAlphabet[mrand.Intn(len(roomCodeAlphabet))]
		}
		return string(buf)
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf)
}
