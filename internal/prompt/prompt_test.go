package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestUserID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid first try", "12345\n", "12345"},
		{"reprompts until digits", "peppy\n12.5\n 8927994 \n", "8927994"},
		{"empty line rejected", "\n123\n", "123"},
		{"eof without answer", "not-a-number\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)
			if got := p.UserID(); got != tt.want {
				t.Errorf("UserID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserID_RepromptMessage(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n42\n"), &out)
	p.UserID()
	if !strings.Contains(out.String(), "Invalid input. Please enter numeric osu! user ID:") {
		t.Errorf("missing re-prompt in output %q", out.String())
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     int
		want    int
		warning bool
	}{
		{"parses answer", "25\n", 10, 25, false},
		{"negative accepted", "-5\n", 10, -5, false},
		{"garbage defaults", "ten\n", 10, 10, true},
		{"empty line defaults", "\n", 10, 10, true},
		{"eof defaults silently", "", 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)
			if got := p.Int("How many?", tt.def); got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
			warned := strings.Contains(out.String(), "Invalid input. Defaulting to")
			if warned != tt.warning {
				t.Errorf("warning printed = %v, want %v (output %q)", warned, tt.warning, out.String())
			}
		})
	}
}

func TestYesNo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"yes", "y\n", false, true},
		{"no", "n\n", true, false},
		{"uppercase", "Y\n", false, true},
		{"empty uses default yes", "\n", true, true},
		{"empty uses default no", "\n", false, false},
		{"eof uses default", "", true, true},
		{"reprompts until valid", "maybe\nsure\nn\n", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)
			if got := p.YesNo("Remove video?", tt.def); got != tt.want {
				t.Errorf("YesNo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYesNo_ShowsDefaultChoice(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n"), &out)
	p.YesNo("Remove video?", true)
	if !strings.Contains(out.String(), "Remove video? (y/n) [default: y]: ") {
		t.Errorf("prompt output = %q", out.String())
	}
}
