package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingHandler struct {
	frames []*Frame
}

func (c *capturingHandler) OnFrameReceived(f *Frame) {
	c.frames = append(c.frames, f)
}

// loopbackSend encodes a frame with one AX25 instance and feeds the
// resulting escaped byte stream directly into a second instance, modelling
// spec.md's S3 "bypass modem" KISS transmit scenario end-to-end.
func loopbackSend(t *testing.T, dst, src Address, repeaters []Address, payload []byte) *Frame {
	t.Helper()
	rx := NewByteFIFO(4096)
	txHandler := &capturingHandler{}
	tx := NewAX25(NewByteFIFO(1), rx, txHandler)
	tx.Send(dst, src, repeaters, payload)

	rxHandler := &capturingHandler{}
	rxax := NewAX25(rx, NewByteFIFO(1), rxHandler)
	rxax.Poll()

	require.Len(t, rxHandler.frames, 1)
	return rxHandler.frames[0]
}

func TestAX25RoundTripEmptyPayload(t *testing.T) {
	dst := Address{Call: "APRS", SSID: 0}
	src := Address{Call: "NOCALL", SSID: 0}
	f := loopbackSend(t, dst, src, nil, nil)

	assert.Equal(t, "APRS", f.Dest.Call)
	assert.Equal(t, 0, f.Dest.SSID)
	assert.Equal(t, "NOCALL", f.Src.Call)
	assert.Equal(t, 0, f.Src.SSID)
	assert.Empty(t, f.Repeaters)
	assert.Empty(t, f.Payload)
	assert.Equal(t, byte(CtrlUI), f.Control)
	assert.Equal(t, byte(PIDNoLayer3), f.PID)
}

func TestAX25RoundTripTwoHopDigipeaterPosition(t *testing.T) {
	dst := Address{Call: "APRS", SSID: 0}
	src := Address{Call: "N0CALL", SSID: 9}
	path := []Address{{Call: "WIDE1", SSID: 1}, {Call: "WIDE2", SSID: 2}}
	payload := []byte("=4903.50N/07201.75W-Test")

	f := loopbackSend(t, dst, src, path, payload)

	require.Len(t, f.Repeaters, 2)
	assert.Equal(t, "WIDE1", f.Repeaters[0].Call)
	assert.Equal(t, 1, f.Repeaters[0].SSID)
	assert.Equal(t, "WIDE2", f.Repeaters[1].Call)
	assert.Equal(t, 2, f.Repeaters[1].SSID)
	assert.Equal(t, payload, f.Payload)
}

func TestAX25RoundTripPayloadContainingFlagByte(t *testing.T) {
	dst := Address{Call: "APRS", SSID: 0}
	src := Address{Call: "NOCALL", SSID: 0}
	payload := []byte{0x01, FLAG, 0x02, RESET, ESC, 0x03}

	f := loopbackSend(t, dst, src, nil, payload)
	assert.Equal(t, payload, f.Payload)
}

func TestAX25DecodeSpecS1Vector(t *testing.T) {
	// Scenario S1: on-air address+control+PID bytes for dest APRS-0 (SSID
	// byte with the command bit set), src NOCALL-0 (last-address bit set),
	// no digipeaters, empty payload.
	body := []byte{
		0x82, 0xA0, 0xA4, 0xA6, 0x40, 0x40, 0xE0,
		0x9C, 0x9E, 0x86, 0x82, 0x98, 0x98, 0x61,
		0x03, 0xF0,
	}
	fcs := FCS(body)
	full := append(append([]byte{}, body...), fcs[0], fcs[1])

	handler := &capturingHandler{}
	a := NewAX25(NewByteFIFO(len(full)+2), NewByteFIFO(1), handler)
	a.handleByte(FLAG)
	for _, b := range full {
		a.handleByte(b)
	}
	a.handleByte(FLAG)

	require.Len(t, handler.frames, 1)
	f := handler.frames[0]
	assert.Equal(t, "APRS", f.Dest.Call)
	assert.Equal(t, 0, f.Dest.SSID)
	assert.Equal(t, "NOCALL", f.Src.Call)
	assert.Equal(t, 0, f.Src.SSID)
	assert.Empty(t, f.Payload)
}

func TestAX25RejectsBadCRC(t *testing.T) {
	dst := Address{Call: "APRS", SSID: 0}
	src := Address{Call: "NOCALL", SSID: 0}

	rx := NewByteFIFO(4096)
	tx := NewAX25(NewByteFIFO(1), rx, nil)
	tx.Send(dst, src, nil, []byte("hello"))

	// Corrupt one byte inside the frame (skip the leading FLAG).
	corrupted := NewByteFIFO(rx.Cap())
	first := true
	for {
		b, ok := rx.Pop()
		if !ok {
			break
		}
		if first && b != FLAG {
			b ^= 0xFF
			first = false
		}
		corrupted.Push(b)
	}

	handler := &capturingHandler{}
	rxax := NewAX25(corrupted, NewByteFIFO(1), handler)
	rxax.Poll()
	assert.Empty(t, handler.frames, "a frame with a corrupted body must be silently discarded")
}
