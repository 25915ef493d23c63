// Package audio provides the sample-rate context's ADC/DAC boundary: the
// thing that calls modem.Modem.Tick once per sample period. Two backends
// are provided, chosen by the daemon's --wav-in/--wav-out flags: a live
// PortAudio device for real hardware, and a WAV file pair for offline
// encode/decode, the role the teacher's gen_tone and decode_aprs tools play.
package audio

// Device is anything that can deliver ADC samples and accept DAC codes at
// a fixed sample rate. Samples use the modem package's internal int8/uint8
// resolution (spec.md §2: the DSP core runs entirely on 8-bit samples);
// backends are responsible for any conversion to their native resolution.
type Device interface {
	// Run drives the sample loop, calling tick once per sample period with
	// the next ADC sample and writing back the returned DAC code, until
	// the device is closed or an error occurs.
	Run(tick func(adc int8) (dac uint8, keyed bool)) error
	Close() error
}
