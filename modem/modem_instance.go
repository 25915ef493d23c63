package modem

import "runtime"

// Config bundles the build-time/runtime parameters that shape a Modem
// instance: sample rate, frame size limits, and the channel-access
// parameters KISS can adjust at runtime (spec.md §6, §4.9).
type Config struct {
	SampleRate  int // must be an integer multiple of 1200; default 9600
	RxFIFOBytes int
	TxFIFOBytes int
	PreambleMs  int
	TailMs      int
	KISS        KISSConfig

	// PhaseThresholdNum/Den express the PLL early-late gate's decision point
	// as a fraction of PHASE_MAX (spec.md §4.4, DESIGN NOTES open question:
	// the original ports disagree between 1/2 and 5/8). Default 1/2.
	PhaseThresholdNum int
	PhaseThresholdDen int
}

// DefaultConfig returns the spec's fixed defaults: 9600 Hz sample rate,
// 350ms preamble (spec.md DESIGN NOTES fixes the safer of the two values
// the original disagreed on), 50ms tail, default CSMA parameters, and the
// PHASE_MAX/2 threshold (the safer of the two disagreeing original ports).
func DefaultConfig() Config {
	return Config{
		SampleRate:        9600,
		RxFIFOBytes:       1024,
		TxFIFOBytes:       1024,
		PreambleMs:        350,
		TailMs:            50,
		KISS:              DefaultKISSConfig(),
		PhaseThresholdNum: 1,
		PhaseThresholdDen: 2,
	}
}

// Modem is a full modem instance: the sample-rate DSP/HDLC path, the AX.25
// layer, and the byte FIFOs that are the only state shared between the
// sample-rate context and the host context (spec.md DATA MODEL).
type Modem struct {
	cfg Config

	RxFIFO *ByteFIFO // escaped bytes recovered from the air, for AX.25 to read
	TxFIFO *ByteFIFO // escaped bytes for the modulator to send

	HDLC *HDLCReceiver
	AX25 *AX25

	orch *Orchestrator
}

// NewModem constructs a modem instance bound to a frame handler that is
// invoked (from host context, during Poll) whenever a frame is decoded.
func NewModem(cfg Config, handler FrameHandler) *Modem {
	m := &Modem{cfg: cfg}
	m.RxFIFO = NewByteFIFO(cfg.RxFIFOBytes)
	m.TxFIFO = NewByteFIFO(cfg.TxFIFOBytes)
	m.HDLC = NewHDLCReceiver(m.RxFIFO)
	demod := NewDemodulator(m.HDLC, cfg.SampleRate, cfg.PhaseThresholdNum, cfg.PhaseThresholdDen)
	mod := NewModulator(m.TxFIFO, cfg.SampleRate)
	m.orch = NewOrchestrator(demod, mod)
	m.AX25 = NewAX25(m.RxFIFO, m.TxFIFO, handler)
	return m
}

// Tick runs one sample period (spec.md §4.10); the caller's sample-rate
// context must invoke this exactly once per ADC/DAC cycle.
func (m *Modem) Tick(adcSample int8) (dacCode uint8, keyed bool) {
	return m.orch.Tick(adcSample)
}

func (m *Modem) Ticks() uint64 {
	return m.orch.Ticks()
}

// Poll drains the receive FIFO through the AX.25 layer; call often enough
// that it never fills (spec.md CONCURRENCY & RESOURCE MODEL).
func (m *Modem) Poll() {
	m.AX25.Poll()
}

// TxStart arms the modulator for a transmission already queued in TxFIFO.
func (m *Modem) TxStart() {
	m.orch.Mod.TxStart(m.cfg.PreambleMs, m.cfg.TailMs, 1200)
}

// IsSending reports whether the modulator has a transmission in flight.
func (m *Modem) IsSending() bool {
	return m.orch.Mod.IsSending()
}

// Receiving reports whether the HDLC receiver is currently synchronised
// inside an incoming frame (used by CSMA carrier sense).
func (m *Modem) Receiving() bool {
	return m.HDLC.Receiving()
}

// Overrun and ClearOverrun expose the receive FIFO's RX_OVERRUN status bit
// (spec.md §6 "Exit codes / error surface").
func (m *Modem) Overrun() bool {
	return m.RxFIFO.Overrun()
}

func (m *Modem) ClearOverrun() {
	m.RxFIFO.ClearOverrun()
}

// Write appends bytes to the transmit FIFO, busy-waiting (yielding the Go
// scheduler rather than the sample-rate context, which never calls this)
// whenever it is full — the host-context analogue of MicroAPRS's
// afsk_write (spec.md §5: "acceptable because the sample-rate context
// drains it deterministically").
func (m *Modem) Write(data []byte) {
	for _, b := range data {
		for !m.TxFIFO.Push(b) {
			runtime.Gosched()
		}
	}
}

// FlushWait busy-waits until the modulator finishes the in-flight
// transmission (MicroAPRS's afsk_flush).
func (m *Modem) FlushWait() {
	for m.IsSending() {
		runtime.Gosched()
	}
}
