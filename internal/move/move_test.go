package move

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		token string
		want  Input
	}{
		{".", Input{}},
		{"UR", Input{Up: true, Right: true}},
		{"R", Input{Right: true}},
		{"LS", Input{Left: true, Shift: true}},
		{"DRS", Input{Down: true, Right: true, Shift: true}},
		{".U", Input{Up: true}},
		{"CA", Input{Restart: true}},
	}

	for _, tt := range tests {
		got, err := Decode(tt.token)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", tt.token, err)
		}
		if got != tt.want {
			t.Errorf("Decode(%q) = %+v, want %+v", tt.token, got, tt.want)
		}
	}
}

func TestDecodeUnrecognized(t *testing.T) {
	for _, token := range []string{"Z", "", "ca", "X1", "C"} {
		_, err := Decode(token)
		if !errors.Is(err, ErrUnrecognizedMove) {
			t.Errorf("Decode(%q) error = %v, want ErrUnrecognizedMove", token, err)
		}
	}
}

func TestDecodeDoesNotAccumulate(t *testing.T) {
	first := MustDecode("ULS")
	second := MustDecode(".")

	if !first.Up || !first.Left || !first.Shift {
		t.Fatalf("first decode missing axes: %+v", first)
	}
	if !second.IsZero() {
		t.Errorf("second decode should be all-false, got %+v", second)
	}
}

func TestInputString(t *testing.T) {
	tests := []struct {
		in   Input
		want string
	}{
		{Input{}, "."},
		{Input{Up: true, Right: true}, "UR"},
		{Input{Restart: true}, "CA"},
		{Input{Down: true, Left: true, Shift: true}, "DLS"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.in, got, tt.want)
		}
		back := MustDecode(tt.in.String())
		if back != tt.in {
			t.Errorf("decode of %q = %+v, want %+v", tt.want, back, tt.in)
		}
	}
}

func TestParseSequence(t *testing.T) {
	seq := ParseSequence(". R R UR .")

	if seq.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", seq.Len())
	}
	if seq.Token(3) != "UR" {
		t.Errorf("Token(3) = %q, want UR", seq.Token(3))
	}

	in, err := seq.Input(3)
	if err != nil {
		t.Fatalf("Input(3) failed: %v", err)
	}
	if !in.Up || !in.Right {
		t.Errorf("Input(3) = %+v, want up+right", in)
	}

	// The terminator is addressable but not playable.
	if _, err := seq.Input(4); err == nil {
		t.Error("Input(4) should fail for the terminator")
	}
}

func TestSequenceBadToken(t *testing.T) {
	seq := ParseSequence("R Q R end")
	if _, err := seq.Input(1); !errors.Is(err, ErrUnrecognizedMove) {
		t.Errorf("Input(1) error = %v, want ErrUnrecognizedMove", err)
	}
}

func TestNewSequence(t *testing.T) {
	seq := NewSequence("R", "R", "U")
	if seq.Len() != 3 {
		t.Errorf("Len() = %d, want 3", seq.Len())
	}
	if got := ParseSequence(seq.String()); got.Len() != 3 {
		t.Errorf("round trip Len() = %d, want 3", got.Len())
	}
}
