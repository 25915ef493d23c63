// Package ptt drives the transmitter keying line. It implements the
// "keyed" side of the boundary spec.md §4.10 assigns to the orchestrator:
// Modem.Tick's second return value goes high for the duration of a
// transmission, and something here must turn that into a real PTT assert.
package ptt

// Backend keys and unkeys the transmitter. Set is called once per sample
// tick by the orchestrator loop, so implementations must be cheap to call
// when the line is already in the requested state.
type Backend interface {
	Set(keyed bool) error
	Close() error
}
