package modem

// RandomByte is the uniform byte source the p-persistent check draws from;
// overridable in tests so convergence can be checked deterministically.
// Production wiring sets it to a real PRNG (see transmit.go).
type RandomByte func() byte

// Carrier reports whether the receiver is currently synchronised inside an
// incoming frame; HDLCReceiver (and Modem, through it) satisfies it. The
// receive-overrun status is reported separately by OverrunChecker.
type Carrier interface {
	Receiving() bool
}

// OverrunChecker reports and clears the receive-overrun status bit.
type OverrunChecker interface {
	Overrun() bool
	ClearOverrun()
}

// Ticker is the system tick counter driven by the sample-rate orchestrator
// (C10); CSMA's slot timer busy-waits against it rather than a wall clock,
// matching spec.md's "no suspension, no timeouts" concurrency model.
type Ticker interface {
	Ticks() uint64
}

// CSMA implements p-persistent carrier-sense multiple access (spec.md
// §4.9): before keying the transmitter, wait out any in-flight receive,
// then repeatedly roll a persistence check against a slot timer.
type CSMA struct {
	cfg     *KISSConfig
	carrier Carrier
	overrun OverrunChecker
	ticker  Ticker
	random  RandomByte
	poll    func() // drains the receive FIFO through the AX.25 state machine
}

func NewCSMA(cfg *KISSConfig, carrier Carrier, overrun OverrunChecker, ticker Ticker, random RandomByte, poll func()) *CSMA {
	return &CSMA{cfg: cfg, carrier: carrier, overrun: overrun, ticker: ticker, random: random, poll: poll}
}

// ticksPerSlot converts the configured slot time to sample-rate ticks.
func (c *CSMA) ticksPerSlot(sampleRate int) uint64 {
	return uint64(c.cfg.SlotTimeMs) * uint64(sampleRate) / 1000
}

// Ready blocks (busy-waiting against the tick counter, never sleeping or
// yielding to the OS scheduler) until the channel access algorithm decides
// it is time to transmit, or until the in-flight receive overruns, in which
// case it reports false and the caller must drop the pending transmission
// (spec.md §4.9 step 1).
func (c *CSMA) Ready(sampleRate int) bool {
	for c.carrier.Receiving() {
		if c.poll != nil {
			c.poll()
		}
		if c.overrun.Overrun() {
			return false
		}
	}

	slot := c.ticksPerSlot(sampleRate)
	if slot == 0 {
		slot = 1
	}

	for {
		if c.random() < c.cfg.Persist {
			return true
		}
		target := c.ticker.Ticks() + slot
		for c.ticker.Ticks() < target {
			if c.carrier.Receiving() {
				// Carrier reappeared mid-slot: go back to waiting it out.
				for c.carrier.Receiving() {
					if c.poll != nil {
						c.poll()
					}
					if c.overrun.Overrun() {
						return false
					}
				}
			}
		}
	}
}
