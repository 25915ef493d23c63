package modem

import "math/rand"

// Transmitter glues the KISS host protocol's completed data frames to
// channel access (C9) and framing/modulation: a frame handed to SendFrame
// waits its turn under p-persistent CSMA, then is wrapped with CRC and
// flags by the AX.25 layer and handed to the modulator (spec.md §4.9,
// S3/S4 scenarios).
type Transmitter struct {
	modem *Modem
	csma  *CSMA
}

// NewTransmitter builds a Transmitter bound to modem, with its own CSMA
// instance sharing modem's carrier-sense/overrun/tick state and the
// KISS-configurable persistence and slot time in cfg.
func NewTransmitter(modem *Modem, cfg *KISSConfig) *Transmitter {
	t := &Transmitter{modem: modem}
	t.csma = NewCSMA(cfg, modem, modem.RxFIFO, modem, defaultRandomByte, modem.Poll)
	return t
}

func defaultRandomByte() byte {
	return byte(rand.Intn(256))
}

// SendFrame implements KISSSender: it is called once a full AX.25 frame
// body has arrived from the host KISS data command.
func (t *Transmitter) SendFrame(body []byte) {
	if !t.csma.Ready(t.modem.cfg.SampleRate) {
		return
	}
	t.modem.AX25.SendRaw(body)
	// Preamble and tail come from the KISS-adjustable config, so a host
	// TxDelay/TxTail command applies to the next transmission.
	t.modem.orch.Mod.TxStart(t.csma.cfg.TxDelayMs, t.csma.cfg.TxTailMs, 1200)
}
