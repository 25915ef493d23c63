package modem

// Modulator emits one DAC code per sample tick: a direct digital
// synthesiser producing mark/space AFSK tones, fed by an NRZI-encoded,
// bit-stuffed byte stream pulled from the transmit FIFO, wrapped in
// preamble and tail flag runs (spec.md §4.6).
type Modulator struct {
	sampleRate int
	markInc    uint16
	spaceInc   uint16

	sampleIndex int // samples remaining in the current symbol
	phaseAcc    uint16
	phaseInc    uint16 // current tone's DDS increment

	currentByte byte
	txBit       byte // mask selecting the next bit of currentByte, 0 means "need a new byte"

	bitstuffCount  int
	bitStuffActive bool

	preambleRemaining int
	tailRemaining     int
	tailTarget        int // recomputed tail length, latched at TxStart

	sending bool

	tx *ByteFIFO
}

// NewModulator constructs a modulator bound to the given transmit FIFO at
// the given sample rate.
func NewModulator(tx *ByteFIFO, sampleRate int) *Modulator {
	return &Modulator{
		sampleRate: sampleRate,
		markInc:    ToneIncrement(MarkFreqHz, sampleRate),
		spaceInc:   ToneIncrement(SpaceFreqHz, sampleRate),
		tx:         tx,
	}
}

// PreambleBytes converts a preamble/tail duration in milliseconds to a byte
// count at the given bitrate: round(ms * bitrate / 8000) (spec.md §4.6).
func PreambleBytes(ms, bitrateBps int) int {
	num := ms * bitrateBps
	return (num + 4000) / 8000
}

// IsSending reports whether the modulator currently has a frame (or its
// preamble/tail) in flight; the orchestrator uses this to decide whether to
// drive the PTT line and call Step.
func (m *Modulator) IsSending() bool {
	return m.sending
}

// TxStart arms the modulator: it will emit preambleMs worth of flags, then
// drain the transmit FIFO, then tailMs worth of flags, then stop. Safe to
// call while already sending (e.g. to extend the tail), matching
// afsk_txStart's "recompute the tail atomically even mid-transmission"
// behaviour.
func (m *Modulator) TxStart(preambleMs, tailMs, bitrateBps int) {
	if !m.sending {
		m.phaseInc = m.markInc
		m.phaseAcc = 0
		m.bitstuffCount = 0
		m.sending = true
		m.preambleRemaining = PreambleBytes(preambleMs, bitrateBps)
		m.sampleIndex = 0
		m.txBit = 0
	}
	m.tailTarget = PreambleBytes(tailMs, bitrateBps)
	m.tailRemaining = m.tailTarget
}

// Step advances the modulator by one sample tick and returns the DAC code
// to emit. It must only be called while IsSending is true; once the
// transmit FIFO and tail are both exhausted it clears sending and returns
// the neutral code (128, DC) on that final call.
func (m *Modulator) Step() uint8 {
	if !m.sending {
		return 128
	}

	if m.sampleIndex == 0 {
		if m.txBit == 0 {
			if !m.fetchNextByte() {
				return 128
			}
			m.txBit = 0x01
		}

		if m.bitStuffActive && m.bitstuffCount >= 5 {
			m.bitstuffCount = 0
			m.phaseInc = switchTone(m.phaseInc, m.markInc, m.spaceInc)
		} else {
			if m.currentByte&m.txBit != 0 {
				m.bitstuffCount++
			} else {
				m.phaseInc = switchTone(m.phaseInc, m.markInc, m.spaceInc)
				m.bitstuffCount = 0
			}
			m.txBit <<= 1
		}

		m.sampleIndex = m.bitPeriodDivisor()
	}

	m.phaseAcc = (m.phaseAcc + m.phaseInc) % SinLen
	m.sampleIndex--
	return SinSample(m.phaseAcc)
}

// bitPeriodDivisor recovers "samples per bit" from sampleRate/bitrate
// without storing bitrate separately; 1200 baud is fixed by spec.md.
func (m *Modulator) bitPeriodDivisor() int {
	return m.sampleRate / 1200
}

// fetchNextByte loads currentByte (and the bit-stuff enable flag for it)
// from preamble, the transmit FIFO, or the tail, in that priority order.
// It returns false when there is nothing left to send at all, meaning the
// modulator should stop.
func (m *Modulator) fetchNextByte() bool {
	if m.preambleRemaining > 0 {
		m.preambleRemaining--
		m.currentByte = FLAG
		m.bitStuffActive = false
		return true
	}

	if !m.tx.IsEmpty() {
		b, _ := m.tx.Pop()
		if b == ESC {
			// Escape marker: the next popped byte is data that happens to
			// collide with FLAG/RESET/ESC and must be bit-stuffed normally.
			data, ok := m.tx.Pop()
			if !ok {
				m.stop()
				return false
			}
			m.currentByte = data
			m.bitStuffActive = true
			return true
		}
		m.currentByte = b
		m.bitStuffActive = b != FLAG && b != RESET
		return true
	}

	if m.tailRemaining > 0 {
		m.tailRemaining--
		m.currentByte = FLAG
		m.bitStuffActive = false
		return true
	}

	m.stop()
	return false
}

func (m *Modulator) stop() {
	m.sending = false
}

func switchTone(current, mark, space uint16) uint16 {
	if current == mark {
		return space
	}
	return mark
}
