package modem

import (
	"strings"
)

// AX.25 control/PID bytes for UI frames (spec.md DATA MODEL).
const (
	CtrlUI      = 0x03
	PIDNoLayer3 = 0xF0
)

const (
	addrFieldLen  = 7 // 6 shifted call-sign characters + 1 SSID/control byte
	maxRepeaters  = 8
	minFrameLen   = 18  // spec.md DATA MODEL: minimum valid on-air frame length
	maxFrameLen   = 330 // default configurable maximum
	frameBufLimit = 792 // absolute ceiling a deployment may configure up to
)

// Address is a six-character callsign plus SSID, optionally marked as
// having repeated a frame when it appears in a digipeater path.
type Address struct {
	Call     string
	SSID     int
	Repeated bool
}

// Frame is a fully decoded AX.25 UI frame (spec.md DATA MODEL: "received
// message").
type Frame struct {
	Dest      Address
	Src       Address
	Repeaters []Address
	Control   byte
	PID       byte
	Payload   []byte
}

// FrameHandler is notified whenever the AX.25 layer finishes decoding a
// valid frame (spec.md DESIGN NOTES: "the AX.25 layer exposes a
// frame-received hook").
type FrameHandler interface {
	OnFrameReceived(f *Frame)
}

// AX25 consumes the escaped byte pipe emitted by the HDLC deframer (C6),
// reassembles frame bodies, validates their CRC, and decodes them; it also
// encodes outgoing UI frames (and raw pre-built bodies) onto the modulator's
// escaped byte pipe (spec.md §4.7).
type AX25 struct {
	in  *ByteFIFO // escaped bytes from the HDLC receiver
	out *ByteFIFO // escaped bytes to the modulator/bit-stuffer

	escape bool
	synced bool
	body   []byte
	crcIn  uint16

	handler FrameHandler
}

// NewAX25 binds the layer to its input (receive) and output (transmit)
// escaped byte pipes and registers the frame-received callback.
func NewAX25(in, out *ByteFIFO, handler FrameHandler) *AX25 {
	return &AX25{in: in, out: out, crcIn: crcCCITTInit, handler: handler}
}

// Poll drains every byte currently available on the receive pipe, walking
// the AX.25 frame state machine. Must be called often enough that the
// receive FIFO never fills (spec.md CONCURRENCY & RESOURCE MODEL).
func (a *AX25) Poll() {
	for {
		c, ok := a.in.Pop()
		if !ok {
			return
		}
		a.handleByte(c)
	}
}

func (a *AX25) handleByte(c byte) {
	if !a.escape && c == FLAG {
		if len(a.body) >= minFrameLen {
			if a.crcIn == crcMagic {
				a.decode(a.body)
			}
		}
		a.synced = true
		a.crcIn = crcCCITTInit
		a.body = a.body[:0]
		return
	}

	if !a.escape && c == RESET {
		a.synced = false
		return
	}

	if !a.escape && c == ESC {
		a.escape = true
		return
	}

	if a.synced {
		if len(a.body) < frameBufLimit {
			a.body = append(a.body, c)
			a.crcIn = UpdateCRC(c, a.crcIn)
		} else {
			a.synced = false
		}
	}
	a.escape = false
}

// decode parses a validated frame body (addresses, control, PID, payload;
// the two trailing FCS bytes are still present and stripped here) and
// invokes the frame handler. Non-UI control values are reported but not
// decoded further (spec.md §4.7 / Non-goals).
func (a *AX25) decode(body []byte) {
	buf := body
	dst, buf, _, ok := decodeAddress(buf)
	if !ok {
		return
	}
	src, buf, last, ok := decodeAddress(buf)
	if !ok {
		return
	}

	var repeaters []Address
	for !last && len(repeaters) < maxRepeaters {
		if len(buf) < addrFieldLen {
			return
		}
		repeated := buf[addrFieldLen-1]&0x80 != 0
		rpt, rest, rptLast, ok := decodeAddress(buf)
		if !ok {
			return
		}
		rpt.Repeated = repeated
		repeaters = append(repeaters, rpt)
		buf = rest
		last = rptLast
	}

	if len(buf) < 2+2 { // control + pid + 2 FCS bytes
		return
	}
	control := buf[0]
	pid := buf[1]
	payload := buf[2 : len(buf)-2]

	frame := &Frame{
		Dest:      dst,
		Src:       src,
		Repeaters: repeaters,
		Control:   control,
		PID:       pid,
		Payload:   append([]byte(nil), payload...),
	}

	if control != CtrlUI {
		// Only UI frames are interpreted; pass-through is the caller's
		// responsibility (spec.md Non-goals).
		if a.handler != nil {
			a.handler.OnFrameReceived(frame)
		}
		return
	}

	if a.handler != nil {
		a.handler.OnFrameReceived(frame)
	}
}

// decodeAddress reads one 7-byte AX.25 address field: six shifted-ASCII
// characters (space-padded, trimmed) and an SSID/control byte. The returned
// bool reports the SSID byte's bit 0 ("last address") — set iff this field
// ends the address list (original_source/bertos/net/ax25.c:86).
func decodeAddress(buf []byte) (Address, []byte, bool, bool) {
	if len(buf) < addrFieldLen {
		return Address{}, buf, false, false
	}
	var call [6]byte
	for i := 0; i < 6; i++ {
		call[i] = buf[i] >> 1
	}
	ssid := int(buf[6]>>1) & 0x0F
	last := buf[6]&0x01 != 0
	return Address{
		Call: strings.TrimRight(string(call[:]), " "),
		SSID: ssid,
	}, buf[addrFieldLen:], last, true
}

// EncodeBody reconstructs the raw AX.25 frame body (addresses through
// payload, no FCS, no flags) for a decoded Frame — used to forward a
// received frame to a KISS host exactly as S3/S4 describe sending one,
// without re-deriving it from the original bitstream. SSID bytes are
// rebuilt with the reserved bits set and each repeater's has-been-repeated
// bit restored; the original command/response bits are not preserved.
func (f *Frame) EncodeBody() []byte {
	body := make([]byte, 0, 2*addrFieldLen+len(f.Repeaters)*addrFieldLen+2+len(f.Payload))
	body = encodeAddress(body, f.Dest.Call, f.Dest.SSID, false)
	body = encodeAddress(body, f.Src.Call, f.Src.SSID, len(f.Repeaters) == 0)
	for i, r := range f.Repeaters {
		body = encodeAddress(body, r.Call, r.SSID, i == len(f.Repeaters)-1)
		if r.Repeated {
			body[len(body)-1] |= 0x80
		}
	}
	body = append(body, f.Control, f.PID)
	body = append(body, f.Payload...)
	return body
}

// encodeAddress appends the on-air form of an address: space-padded,
// upper-cased, left-shifted call characters, then the SSID byte with
// reserved bits 6:5 set and bit 0 ("last address") set iff last.
func encodeAddress(dst []byte, call string, ssid int, last bool) []byte {
	call = strings.ToUpper(call)
	for i := 0; i < 6; i++ {
		var c byte = ' '
		if i < len(call) {
			c = call[i]
		}
		dst = append(dst, c<<1)
	}
	b := byte(0x60) | byte(ssid<<1)
	if last {
		b |= 0x01
	}
	return append(dst, b)
}

// Send builds and transmits a complete UI frame: destination, source,
// 0-8 repeaters, control 0x03, PID 0xF0, and payload, computing and
// appending the FCS, wrapped in flags (spec.md §4.7 "Encoding").
func (a *AX25) Send(dst, src Address, repeaters []Address, payload []byte) {
	body := make([]byte, 0, 2*addrFieldLen+len(repeaters)*addrFieldLen+2+len(payload))
	body = encodeAddress(body, dst.Call, dst.SSID, false)
	body = encodeAddress(body, src.Call, src.SSID, len(repeaters) == 0)
	for i, r := range repeaters {
		body = encodeAddress(body, r.Call, r.SSID, i == len(repeaters)-1)
	}
	body = append(body, CtrlUI, PIDNoLayer3)
	body = append(body, payload...)
	a.SendRaw(body)
}

// SendRaw wraps a pre-built HDLC body (addresses through payload, no FCS)
// with its CRC and framing flags and pushes the escaped result onto the
// modulator's byte pipe. Used directly by the KISS host pipeline, which
// already received a complete AX.25 frame body from the host
// (spec.md §4.7 / §4.8 S3).
func (a *AX25) SendRaw(body []byte) {
	a.emit(FLAG)
	for _, b := range body {
		a.emitEscaped(b)
	}
	fcs := FCS(body)
	a.emitEscaped(fcs[0])
	a.emitEscaped(fcs[1])
	a.emit(FLAG)
}

func (a *AX25) emit(b byte) {
	a.out.Push(b)
}

// emitEscaped precedes b with ESC if it collides with FLAG/RESET/ESC, the
// same escape convention the HDLC receiver uses on input.
func (a *AX25) emitEscaped(b byte) {
	if b == FLAG || b == RESET || b == ESC {
		a.out.Push(ESC)
	}
	a.out.Push(b)
}
