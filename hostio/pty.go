package hostio

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// PTY is a host link over a pseudo-terminal pair: the daemon owns the
// master end, and prints the slave's path so a host application (or a
// symlink like /dev/ttyKISS0) can open it as if it were a real serial TNC
// — the same trick the teacher's kisspt_open_pt plays for applications
// that only know how to talk to a serial port.
type PTY struct {
	master *os.File
	slave  *os.File
}

// OpenPTY allocates a new pseudo-terminal pair and returns it along with
// the slave side's device path for the caller to advertise.
func OpenPTY() (link *PTY, slavePath string, err error) {
	ptmx, pts, err := pty.Open()
	if err != nil {
		return nil, "", fmt.Errorf("hostio: open pty: %w", err)
	}
	return &PTY{master: ptmx, slave: pts}, pts.Name(), nil
}

func (p *PTY) Read(b []byte) (int, error)  { return p.master.Read(b) }
func (p *PTY) Write(b []byte) (int, error) { return p.master.Write(b) }

func (p *PTY) Close() error {
	p.slave.Close()
	return p.master.Close()
}
