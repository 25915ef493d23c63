package hostio

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSerialReadWrite drives hostio.Serial against the master end of a pty
// pair instead of a real device, the same substitution the teacher's own
// test harnesses make for serial code (creack/pty stands in for hardware).
func TestSerialReadWrite(t *testing.T) {
	peer, slavePath, err := OpenPTY()
	require.NoError(t, err)
	defer peer.Close()

	s, err := OpenSerial(slavePath, 0)
	require.NoError(t, err)
	defer s.Close()

	n, err := peer.Write([]byte("FEND"))
	require.NoError(t, err)
	require.Equal(t, 4, n)

	buf := make([]byte, 4)
	n, err = s.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "FEND", string(buf[:n]))

	n, err = s.Write([]byte("ACK"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	buf = make([]byte, 3)
	n, err = peer.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ACK", string(buf[:n]))
}

// TestSerialFdMatchesOpenFile verifies ptt.SerialLine's sharing contract:
// Fd returns a live descriptor for the same device node OpenSerial opened.
func TestSerialFdMatchesOpenFile(t *testing.T) {
	peer, slavePath, err := OpenPTY()
	require.NoError(t, err)
	defer peer.Close()

	s, err := OpenSerial(slavePath, 0)
	require.NoError(t, err)
	defer s.Close()

	require.NotZero(t, s.Fd())

	var got, want syscall.Stat_t
	require.NoError(t, syscall.Fstat(int(s.Fd()), &got))
	require.NoError(t, syscall.Stat(slavePath, &want))
	require.Equal(t, want.Rdev, got.Rdev)
}

// TestSerialUnrecognisedBaudFallsBack exercises the "fall back to 4800"
// branch of OpenSerial without asserting on the line speed the kernel pty
// driver reports back, since a pty has no real baud rate — it only needs to
// not error on an unsupported value.
func TestSerialUnrecognisedBaudFallsBack(t *testing.T) {
	peer, slavePath, err := OpenPTY()
	require.NoError(t, err)
	defer peer.Close()

	s, err := OpenSerial(slavePath, 300)
	require.NoError(t, err)
	defer s.Close()
}
