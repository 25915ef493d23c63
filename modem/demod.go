package modem

// Fixed demodulator tuning per spec.md §4.4. PhaseBits and PhaseInc never
// vary; samplesPerBit (and therefore phaseMax, phaseThreshold, and the
// delay-line length) are derived from the configured sample rate, which
// must be an integer multiple of 1200 (spec.md §6). At the default 9600 Hz
// this reproduces the spec's literal constants: samplesPerBit=8,
// phaseMax=64, phaseThreshold=32, delay line of 4 samples.
const (
	PhaseBits = 8
	PhaseInc  = 1
)

// BitSink receives one decoded NRZI-resolved bit per symbol period from the
// demodulator. The HDLC deframer (C6) implements this.
type BitSink interface {
	ReceiveBit(bit bool)
}

// Demodulator recovers a clock-synchronised bitstream from 8-bit signed
// AFSK audio samples: mixer, single-pole IIR low-pass, slicer, and an
// early-late PLL phase tracker (spec.md §4.4).
//
// All arithmetic is integer, matching the bit-exact behaviour the original
// firmware relies on (spec.md DESIGN NOTES: "Do not silently widen to
// floating point").
type Demodulator struct {
	samplesPerBit  int
	phaseMax       int
	phaseThreshold int

	delay    []int8
	delayPos int

	iirX [2]int16
	iirY [2]int16

	sampledBits uint8
	actualBits  uint8
	phase       int

	sink BitSink
}

// NewDemodulator returns a demodulator for the given sample rate, with its
// delay line pre-filled with zeros — matching spec.md's "no cold-start
// phase" guarantee (half a bit's worth of history is simply silence).
//
// thresholdNum/thresholdDen express the PLL's early-late decision point as a
// fraction of phaseMax (spec.md DESIGN NOTES: the original ports disagree
// between 1/2 and 5/8); pass 1, 2 for the spec's default.
func NewDemodulator(sink BitSink, sampleRate, thresholdNum, thresholdDen int) *Demodulator {
	spb := sampleRate / 1200
	phaseMax := spb * PhaseBits
	return &Demodulator{
		samplesPerBit:  spb,
		phaseMax:       phaseMax,
		phaseThreshold: phaseMax * thresholdNum / thresholdDen,
		delay:          make([]int8, spb/2),
		sink:           sink,
	}
}

// pushDelay returns the oldest sample in the delay line and pushes x in,
// emulating MicroAPRS's delayFifo (fifo_pop then fifo_push every sample).
func (d *Demodulator) pushDelay(x int8) int8 {
	old := d.delay[d.delayPos]
	d.delay[d.delayPos] = x
	d.delayPos++
	if d.delayPos == len(d.delay) {
		d.delayPos = 0
	}
	return old
}

// Step processes one signed 8-bit audio sample, updates the internal DSP
// state, and on every completed symbol period delivers exactly one decoded
// bit to the BitSink.
func (d *Demodulator) Step(x int8) {
	delayed := d.pushDelay(x)

	d.iirX[0] = d.iirX[1]
	d.iirX[1] = int16(int32(delayed)*int32(x)) >> 2

	d.iirY[0] = d.iirY[1]
	d.iirY[1] = d.iirX[0] + d.iirX[1] + (d.iirY[0] >> 1)

	d.sampledBits <<= 1
	if d.iirY[1] > 0 {
		d.sampledBits |= 1
	}

	if transitionFound(d.sampledBits) {
		if d.phase < d.phaseThreshold {
			d.phase += PhaseInc
		} else {
			d.phase -= PhaseInc
		}
	}

	d.phase += PhaseBits
	if d.phase >= d.phaseMax {
		d.phase -= d.phaseMax

		d.actualBits <<= 1
		if majorityVote(d.sampledBits & 0x07) {
			d.actualBits |= 1
		}

		// NRZI decode: no transition between the last two decided bits is
		// a logical 1, a transition is a logical 0.
		bit := !transitionFound(d.actualBits)
		if d.sink != nil {
			d.sink.ReceiveBit(bit)
		}
	}
}

// transitionFound reports whether the two least-significant bits of bits
// differ, the early-late gate's edge detector.
func transitionFound(bits uint8) bool {
	return (bits^(bits>>1))&0x01 != 0
}

// majorityVote decides a symbol from the last three sampled-bit values:
// true (1) if at least two of the three low bits are set.
func majorityVote(bits uint8) bool {
	switch bits & 0x07 {
	case 0x07, 0x06, 0x05, 0x03:
		return true
	default:
		return false
	}
}
