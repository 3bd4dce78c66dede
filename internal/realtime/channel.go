package realtime

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedChannel is returned for channel names not of the form "<scope>.<roomId>".
var ErrMalformedChannel = errors.New("malformed channel name")

// Channel is a parsed channel name.
type Channel struct {
	Name   string
	Scope  string
	RoomID uint64
}

// ParseChannel splits name at the first "." into scope and room id. When
// prefix is not empty the scope must equal it.
func ParseChannel(name, prefix string) (Channel, error) {
	scope, rawID, ok := strings.Cut(name, ".")
	if !ok || scope == "" || rawID == "" {
		return Channel{}, ErrMalformedChannel
	}

	if prefix != "" && scope != prefix {
		return Channel{}, ErrMalformedChannel
	}

	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return Channel{}, ErrMalformedChannel
	}

	return Channel{Name: name, Scope: scope, RoomID: id}, nil
}
