package input

import (
	"bufio"
	"bytes"
)

// maxPending bounds how many bytes of an unfinished escape sequence are
// carried into the next read.
const maxPending = 32

// Click is a left-button press at a 1-based terminal cell.
type Click struct {
	Col, Row int
}

// Input is everything the terminal sent since the previous read.
type Input struct {
	Quit    bool
	Start   bool // Space or Enter
	Theme   bool
	Help    bool
	Escape  bool
	Clicks  []Click
	Pressed []byte // Raw bytes, for activity tracking
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// Nothing arrived after a lone ESC: it was the Escape key.
	if len(buf) == 1 && buf[0] == '\x1b' {
		return Input{Escape: true, Pressed: buf}
	}

	in, rest := Parse(buf)
	if len(rest) > 0 && len(rest) <= maxPending {
		s.pending = append([]byte(nil), rest...)
	}
	return in
}

// Parse decodes keys and SGR mouse reports from buf. rest holds a trailing
// escape sequence that is not complete yet.
func Parse(buf []byte) (in Input, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			in.Pressed = append(in.Pressed, b)
			applyKey(&in, b)
			continue
		}

		// A trailing ESC may be the start of a sequence still in flight.
		if i+1 >= len(buf) {
			return in, buf[i:]
		}
		if buf[i+1] != '[' {
			in.Pressed = append(in.Pressed, b)
			in.Escape = true
			continue
		}

		n, complete := skipCSI(buf[i:])
		if !complete {
			return in, buf[i:]
		}
		seq := buf[i : i+n]
		in.Pressed = append(in.Pressed, seq...)
		if click, ok := parseSGRMouse(seq); ok {
			in.Clicks = append(in.Clicks, click)
		}
		i += n - 1
	}
	return in, nil
}

func applyKey(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case ' ', '\n', '\r':
		in.Start = true
	case 't', 'T':
		in.Theme = true
	case '?':
		in.Help = true
	}
}

// skipCSI returns the length of the CSI sequence at the start of seq.
// seq starts with ESC '['.
func skipCSI(seq []byte) (n int, complete bool) {
	for j := 2; j < len(seq); j++ {
		// Final byte of a control sequence is in 0x40..0x7e.
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			return j + 1, true
		}
	}
	return 0, false
}

// parseSGRMouse decodes ESC [ < Btn ; X ; Y M. Only left-button presses are
// reported; releases (m), drags, wheel and other buttons are ignored.
func parseSGRMouse(seq []byte) (Click, bool) {
	if len(seq) < 9 || seq[2] != '<' || seq[len(seq)-1] != 'M' {
		return Click{}, false
	}
	parts := bytes.Split(seq[3:len(seq)-1], []byte{';'})
	if len(parts) != 3 {
		return Click{}, false
	}
	var vals [3]int
	for i, p := range parts {
		v, ok := atoi(p)
		if !ok {
			return Click{}, false
		}
		vals[i] = v
	}

	btn := vals[0]
	isMotion := btn&32 != 0
	isScroll := btn&64 != 0
	if isMotion || isScroll || btn&0x03 != 0 {
		return Click{}, false
	}
	return Click{Col: vals[1], Row: vals[2]}, true
}

func atoi(b []byte) (int, bool) {
	if len(b) == 0 || len(b) > 6 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
