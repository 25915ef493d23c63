package hostio

import (
	"fmt"

	"github.com/pkg/term"
)

// supportedBauds mirrors serial_port_open's switch statement exactly: an
// unrecognised rate falls back to 4800 rather than failing the open.
var supportedBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// Serial is a host link over a local serial port (or a Bluetooth RFCOMM
// device presenting as one), opened in raw mode so no line discipline
// mangles KISS's FEND/FESC framing bytes.
type Serial struct {
	fd *term.Term
}

// OpenSerial opens device at baud. baud of 0 leaves the port's current
// speed alone, matching the teacher's "leave it alone" case.
func OpenSerial(device string, baud int) (*Serial, error) {
	fd, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("hostio: open serial port %s: %w", device, err)
	}

	switch {
	case baud == 0:
	case supportedBauds[baud]:
		if err := fd.SetSpeed(baud); err != nil {
			fd.Close()
			return nil, fmt.Errorf("hostio: set speed %d on %s: %w", baud, device, err)
		}
	default:
		if err := fd.SetSpeed(4800); err != nil {
			fd.Close()
			return nil, fmt.Errorf("hostio: set fallback speed on %s: %w", device, err)
		}
	}

	return &Serial{fd: fd}, nil
}

func (s *Serial) Read(p []byte) (int, error)  { return s.fd.Read(p) }
func (s *Serial) Write(p []byte) (int, error) { return s.fd.Write(p) }
func (s *Serial) Close() error                { return s.fd.Close() }

// Fd exposes the underlying file descriptor for ptt.SerialLine, which keys the
// transmitter via this same port's RTS or DTR modem control line instead
// of a separate GPIO or CAT connection.
func (s *Serial) Fd() uintptr { return s.fd.Fd() }
