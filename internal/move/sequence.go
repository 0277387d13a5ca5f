package move

import (
	"fmt"
	"os"
	"strings"
)

// Delimiter separates tokens in a sequence file.
const Delimiter = " "

// Sequence is an eagerly parsed move list. The final token is a terminator
// and is never played.
type Sequence struct {
	tokens []string
}

// ParseSequence splits sequence text on the single-space delimiter.
func ParseSequence(text string) Sequence {
	return Sequence{tokens: strings.Split(text, Delimiter)}
}

// LoadSequence reads and parses a sequence file.
func LoadSequence(path string) (Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sequence{}, fmt.Errorf("move: cannot read sequence %s: %w", path, err)
	}
	return ParseSequence(string(data)), nil
}

// NewSequence builds a sequence from already-split tokens plus a terminator.
func NewSequence(tokens ...string) Sequence {
	t := make([]string, 0, len(tokens)+1)
	t = append(t, tokens...)
	t = append(t, "")
	return Sequence{tokens: t}
}

// Len returns the number of playable moves (token count minus the terminator).
func (s Sequence) Len() int {
	if len(s.tokens) == 0 {
		return 0
	}
	return len(s.tokens) - 1
}

// Token returns the raw token at index i. The terminator is addressable so
// displays can show it for the last frame.
func (s Sequence) Token(i int) string {
	if i < 0 || i >= len(s.tokens) {
		return ""
	}
	return s.tokens[i]
}

// Input decodes the playable move at index i.
func (s Sequence) Input(i int) (Input, error) {
	if i < 0 || i >= s.Len() {
		return Input{}, fmt.Errorf("move: index %d out of range [0,%d)", i, s.Len())
	}
	in, err := Decode(s.tokens[i])
	if err != nil {
		return Input{}, fmt.Errorf("move: step %d: %w", i, err)
	}
	return in, nil
}

// Tokens returns a copy of all tokens including the terminator.
func (s Sequence) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// String joins the tokens back into file form.
func (s Sequence) String() string {
	return strings.Join(s.tokens, Delimiter)
}
