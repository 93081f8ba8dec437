package chat

import "errors"

// ErrMissingParticipant is returned when a room is resolved with an absent id.
// Joining a room derived from an empty id would silently create a malformed
// channel shared by every client with the same bug, so resolution refuses.
var ErrMissingParticipant = errors.New("chat: room requires two participant ids")

// Resolve derives the canonical room id for a two-party conversation: the two
// participant ids sorted and joined with an underscore. Both sides of a
// conversation compute the same id independently, with no coordination:
// Resolve(a, b) == Resolve(b, a).
func Resolve(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", ErrMissingParticipant
	}
	if a > b {
		a, b = b, a
	}
	return a + "_" + b, nil
}
