package chat

import (
	"errors"
	"testing"
)

func TestResolveIsOrderIndependent(t *testing.T) {
	cases := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"42", "7"},
		{"u-1000", "u-999"},
	}
	for _, c := range cases {
		ab, err := Resolve(c[0], c[1])
		if err != nil {
			t.Fatalf("Resolve(%q, %q) returned error: %v", c[0], c[1], err)
		}
		ba, err := Resolve(c[1], c[0])
		if err != nil {
			t.Fatalf("Resolve(%q, %q) returned error: %v", c[1], c[0], err)
		}
		if ab != ba {
			t.Errorf("Resolve(%q, %q) = %q but Resolve(%q, %q) = %q", c[0], c[1], ab, c[1], c[0], ba)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	room, err := Resolve("bob", "alice")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if room != "alice_bob" {
		t.Errorf("Resolve(\"bob\", \"alice\") = %q, want %q", room, "alice_bob")
	}
}

func TestResolveRejectsMissingParticipant(t *testing.T) {
	for _, c := range [][2]string{{"", "bob"}, {"alice", ""}, {"", ""}} {
		if _, err := Resolve(c[0], c[1]); !errors.Is(err, ErrMissingParticipant) {
			t.Errorf("Resolve(%q, %q) error = %v, want ErrMissingParticipant", c[0], c[1], err)
		}
	}
}
