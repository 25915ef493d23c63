package ptt

// Null is the no-op backend: used for loopback testing, offline WAV
// encode/decode, and any configuration with no keyed transmitter attached.
type Null struct{}

func (Null) Set(keyed bool) error { return nil }
func (Null) Close() error         { return nil }
