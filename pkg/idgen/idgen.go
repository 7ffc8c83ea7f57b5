// Package idgen produces the short random identifiers handed to clients.
package idgen

import (
	"strconv"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	base36     = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenSize  = 9
	roomPrefix = "room-"
)

var token = mustGenerator(base36, tokenSize)

func mustGenerator(alphabet string, size int) func() string {
	gen, err := nanoid.CustomASCII(alphabet, size)
	if err != nil {
		panic(err)
	}
	return gen
}

// RoomID returns a generated room identifier such as "room-k3j9x0a2b".
func RoomID() string {
	return roomPrefix + token()
}

// FileID returns a random token followed by the upload time in base36.
func FileID(now time.Time) string {
	return token() + strconv.FormatInt(now.UnixMilli(), 36)
}

// MessageID returns "<unix millis>-<token>".
func MessageID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + token()
}
