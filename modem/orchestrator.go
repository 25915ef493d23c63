package modem

// Orchestrator wires the demodulator and modulator to a single sample-rate
// tick (C10): every tick it feeds one ADC sample to the demodulator and, if
// a transmission is in progress, pulls one DAC code from the modulator.
// This is the only place sample handling happens; everything else in the
// package operates on bits or bytes (spec.md §4.10).
type Orchestrator struct {
	Demod *Demodulator
	Mod   *Modulator

	ticks uint64
}

func NewOrchestrator(demod *Demodulator, mod *Modulator) *Orchestrator {
	return &Orchestrator{Demod: demod, Mod: mod}
}

// Tick runs one sample period: feed the signed 8-bit sample (already
// scaled by the audio backend) to the demodulator, and if armed advance
// the modulator. Returns the DAC code to output and whether the PTT line
// should be driven high. Must complete in well under one sample period and
// must never allocate or block (spec.md §5).
func (o *Orchestrator) Tick(adcSample int8) (dacCode uint8, keyed bool) {
	o.Demod.Step(adcSample)

	dacCode = 128
	if o.Mod.IsSending() {
		dacCode = o.Mod.Step()
		keyed = o.Mod.IsSending() // Step may have just finished the transmission
	}

	o.ticks++
	return dacCode, keyed
}

// Ticks returns the monotonic sample-rate tick count, used by the CSMA
// slot timer and transmit-complete wait loops (spec.md §4.10).
func (o *Orchestrator) Ticks() uint64 {
	return o.ticks
}
