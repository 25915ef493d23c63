package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorIdleDACIsMidpoint(t *testing.T) {
	demod := NewDemodulator(&capturingSink{}, 9600, 1, 2)
	mod := NewModulator(NewByteFIFO(16), 9600)
	o := NewOrchestrator(demod, mod)

	dac, keyed := o.Tick(0)
	assert.Equal(t, uint8(128), dac)
	assert.False(t, keyed)
}

func TestOrchestratorKeysWhileModulatorSending(t *testing.T) {
	demod := NewDemodulator(&capturingSink{}, 9600, 1, 2)
	mod := NewModulator(NewByteFIFO(16), 9600)
	mod.TxStart(10, 0, 1200)
	o := NewOrchestrator(demod, mod)

	require.True(t, mod.IsSending())
	_, keyed := o.Tick(0)
	assert.True(t, keyed)
}

func TestOrchestratorTicksMonotonic(t *testing.T) {
	demod := NewDemodulator(&capturingSink{}, 9600, 1, 2)
	mod := NewModulator(NewByteFIFO(16), 9600)
	o := NewOrchestrator(demod, mod)

	assert.Equal(t, uint64(0), o.Ticks())
	for i := 0; i < 10; i++ {
		o.Tick(0)
	}
	assert.Equal(t, uint64(10), o.Ticks())
}
