package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionFound(t *testing.T) {
	assert.False(t, transitionFound(0x00))
	assert.False(t, transitionFound(0x03)) // ...011, low two bits equal
	assert.True(t, transitionFound(0x02))  // ...010, low two bits differ
	assert.True(t, transitionFound(0x01))  // ...001, low two bits differ
}

func TestMajorityVote(t *testing.T) {
	ones := map[uint8]bool{0x07: true, 0x06: true, 0x05: true, 0x03: true}
	for b := uint8(0); b < 8; b++ {
		assert.Equal(t, ones[b], majorityVote(b), "bits=%03b", b)
	}
}

type capturingSink struct {
	bits []bool
}

func (c *capturingSink) ReceiveBit(bit bool) {
	c.bits = append(c.bits, bit)
}

func TestDemodulatorDelayLineSize(t *testing.T) {
	d := NewDemodulator(nil, 9600, 1, 2)
	require.Len(t, d.delay, 4)
}

func TestDemodulatorProducesOneBitPerSymbolPeriod(t *testing.T) {
	sink := &capturingSink{}
	d := NewDemodulator(sink, 9600, 1, 2)

	const samplesPerBit = 8
	const symbols = 50
	for n := 0; n < samplesPerBit*symbols; n++ {
		sample := int8(40)
		if (n/4)%2 == 0 {
			sample = -40
		}
		d.Step(sample)
	}

	// One bit should be delivered roughly every samplesPerBit samples; the
	// PLL's phase offset means the exact count can be off by one.
	assert.InDelta(t, symbols, len(sink.bits), 2)
}
