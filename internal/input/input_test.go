package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in   string
		want Input
	}{
		{" ", Input{Start: true}},
		{"\r", Input{Start: true}},
		{"t", Input{Theme: true}},
		{"?", Input{Help: true}},
		{"q", Input{Quit: true}},
		{"\x03", Input{Quit: true}},
		{"\x1bx", Input{Escape: true}},
		{"x", Input{}},
	}
	for _, tt := range tests {
		got, rest := Parse([]byte(tt.in))
		if len(rest) != 0 {
			t.Errorf("%q left %q", tt.in, rest)
		}
		if got.Start != tt.want.Start || got.Theme != tt.want.Theme || got.Help != tt.want.Help ||
			got.Quit != tt.want.Quit || got.Escape != tt.want.Escape {
			t.Errorf("Parse(%q) = %+v", tt.in, got)
		}
		if len(got.Pressed) == 0 {
			t.Errorf("Parse(%q) recorded no activity", tt.in)
		}
	}
}

func TestParseMouse(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		click []Click
	}{
		{"left press", "\x1b[<0;12;7M", []Click{{12, 7}}},
		{"left release", "\x1b[<0;12;7m", nil},
		{"right press", "\x1b[<2;3;4M", nil},
		{"drag", "\x1b[<32;3;4M", nil},
		{"wheel", "\x1b[<64;3;4M", nil},
		{"ctrl left press", "\x1b[<16;100;40M", []Click{{100, 40}}},
		{"two presses", "\x1b[<0;1;1M\x1b[<0;1;1m\x1b[<0;5;6M", []Click{{1, 1}, {5, 6}}},
		{"arrow key", "\x1b[A", nil},
		{"garbage params", "\x1b[<0;x;1M", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := Parse([]byte(tt.in))
			if len(rest) != 0 {
				t.Fatalf("left %q", rest)
			}
			if len(got.Clicks) != len(tt.click) {
				t.Fatalf("clicks = %v, want %v", got.Clicks, tt.click)
			}
			for i := range tt.click {
				if got.Clicks[i] != tt.click[i] {
					t.Fatalf("clicks = %v, want %v", got.Clicks, tt.click)
				}
			}
			if got.Escape {
				t.Fatalf("escape sequence reported as Escape key")
			}
		})
	}
}

func TestParseMixedWithKeys(t *testing.T) {
	got, _ := Parse([]byte("t\x1b[<0;2;3Mq"))
	if !got.Theme || !got.Quit || len(got.Clicks) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseIncompleteSequence(t *testing.T) {
	got, rest := Parse([]byte(" \x1b[<0;12"))
	if !got.Start {
		t.Fatalf("key before partial sequence lost")
	}
	if string(rest) != "\x1b[<0;12" {
		t.Fatalf("rest = %q", rest)
	}

	got, rest = Parse(append(rest, []byte(";9M")...))
	if len(rest) != 0 || len(got.Clicks) != 1 || got.Clicks[0] != (Click{12, 9}) {
		t.Fatalf("joined sequence = %+v, rest %q", got, rest)
	}
}

func TestTrailingEscapeIsDeferred(t *testing.T) {
	got, rest := Parse([]byte("\x1b"))
	if got.Escape || string(rest) != "\x1b" {
		t.Fatalf("got %+v rest %q", got, rest)
	}

	s := &Stream{ch: make(chan byte), pending: rest}
	if in := ReadInput(s); !in.Escape {
		t.Fatalf("lone ESC with nothing following should be Escape")
	}
}

func TestReadInputCarriesPartialSequence(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}
	for _, b := range []byte(" \x1b[<0;4") {
		s.ch <- b
	}
	first := ReadInput(s)
	if !first.Start || len(first.Clicks) != 0 {
		t.Fatalf("first read = %+v", first)
	}

	for _, b := range []byte(";2M") {
		s.ch <- b
	}
	second := ReadInput(s)
	if len(second.Clicks) != 1 || second.Clicks[0] != (Click{4, 2}) {
		t.Fatalf("second read = %+v", second)
	}
}

func TestStartStreamClosesOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in := ReadInput(s); in.Quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("quit key never delivered")
}
