package ptt

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SerialLine is the cheapest possible PTT hookup: the RTS or DTR modem
// control line of the same serial port the KISS host protocol already
// uses, read-modify-written through a TIOCMGET/TIOCMSET ioctl pair, the
// same primitive the teacher's ptt.go _TIOCM helper wraps.
type SerialLine struct {
	fd   int
	bit  int
	line string
}

// SerialLineRTS and SerialLineDTR pick which control line to key.
const (
	SerialLineRTS = "rts"
	SerialLineDTR = "dtr"
)

// OpenSerialLine keys transmitter PTT through fd's RTS or DTR line.
func OpenSerialLine(fd uintptr, line string) (*SerialLine, error) {
	var bit int
	switch line {
	case SerialLineRTS:
		bit = unix.TIOCM_RTS
	case SerialLineDTR:
		bit = unix.TIOCM_DTR
	default:
		return nil, fmt.Errorf("ptt: unknown serial control line %q", line)
	}
	return &SerialLine{fd: int(fd), bit: bit, line: line}, nil
}

func (s *SerialLine) Set(keyed bool) error {
	bits, err := unix.IoctlGetInt(s.fd, unix.TIOCMGET)
	if err != nil {
		return fmt.Errorf("ptt: get modem bits: %w", err)
	}
	if keyed {
		bits |= s.bit
	} else {
		bits &^= s.bit
	}
	if err := unix.IoctlSetInt(s.fd, unix.TIOCMSET, bits); err != nil {
		return fmt.Errorf("ptt: set %s: %w", s.line, err)
	}
	return nil
}

func (s *SerialLine) Close() error { return nil }
