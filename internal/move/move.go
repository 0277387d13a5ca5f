// Package move decodes the textual move tokens used by sequence files into
// per-tick input vectors.
package move

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedMove is returned when a token contains none of the
// recognized move symbols.
var ErrUnrecognizedMove = errors.New("unrecognized move")

// RestartToken is the literal token that requests a level restart (Ctrl+A).
const RestartToken = "CA"

// Input is the set of independent input axes applied for exactly one tick.
type Input struct {
	Up      bool
	Down    bool
	Left    bool
	Right   bool
	Shift   bool
	Restart bool
}

// IsZero reports whether no axis is set.
func (in Input) IsZero() bool {
	return in == Input{}
}

// String renders the input back into token form.
// The zero input renders as ".".
func (in Input) String() string {
	if in.Restart {
		return RestartToken
	}

	var sb strings.Builder
	if in.Up {
		sb.WriteByte('U')
	}
	if in.Down {
		sb.WriteByte('D')
	}
	if in.Left {
		sb.WriteByte('L')
	}
	if in.Right {
		sb.WriteByte('R')
	}
	if in.Shift {
		sb.WriteByte('S')
	}
	if sb.Len() == 0 {
		return "."
	}
	return sb.String()
}

// Decode converts a move token into an Input.
// Decoding always starts from the all-false vector; every direction letter
// found anywhere in the token sets its axis.
func Decode(token string) (Input, error) {
	var in Input
	recognized := false

	if strings.Contains(token, ".") {
		recognized = true
	}
	if strings.Contains(token, "R") {
		in.Right = true
		recognized = true
	}
	if strings.Contains(token, "L") {
		in.Left = true
		recognized = true
	}
	if strings.Contains(token, "U") {
		in.Up = true
		recognized = true
	}
	if strings.Contains(token, "D") {
		in.Down = true
		recognized = true
	}
	if strings.Contains(token, "S") {
		in.Shift = true
		recognized = true
	}
	if token == RestartToken {
		in.Restart = true
		recognized = true
	}

	if !recognized {
		return Input{}, fmt.Errorf("move: %q: %w", token, ErrUnrecognizedMove)
	}
	return in, nil
}

// MustDecode is like Decode but panics on unrecognized tokens.
// Intended for tests and static tables.
func MustDecode(token string) Input {
	in, err := Decode(token)
	if err != nil {
		panic(err)
	}
	return in
}
