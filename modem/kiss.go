package modem

// KISS host framing bytes (spec.md §4.8 / GLOSSARY).
const (
	FEND  = 0xC0
	FESC  = 0xDB
	TFEND = 0xDC
	TFESC = 0xDD
)

// KISS command nibbles. 0x0F is a vendor extension of this implementation,
// not part of the original KISS spec (spec.md §4.8).
const (
	CmdData         = 0x00
	CmdTxDelay      = 0x01
	CmdPersistence  = 0x02
	CmdSlotTime     = 0x03
	CmdTxTail       = 0x04
	CmdFullDuplex   = 0x05
	CmdSetHardware  = 0x06
	CmdReady        = 0x0F
	cmdUnknown      = 0xFF
)

// KISSConfig holds the channel-access and timing parameters the host can
// adjust via KISS command frames (spec.md §4.8).
type KISSConfig struct {
	TxDelayMs  int
	Persist    byte
	SlotTimeMs int
	TxTailMs   int
	ReadyAcks  bool // vendor extension, see CmdReady
}

// DefaultKISSConfig matches spec.md's fixed defaults: 350ms preamble,
// persistence 63, and the slot time MicroAPRS's CONFIG_AFSK defaults use.
func DefaultKISSConfig() KISSConfig {
	return KISSConfig{
		TxDelayMs:  350,
		Persist:    63,
		SlotTimeMs: 100,
		TxTailMs:   50,
	}
}

// KISSSender is whatever accepts a fully-formed AX.25 frame body for
// transmission once the host has sent a complete data command — in this
// module, the Transmitter, which runs the CSMA layer (C9) before sending.
type KISSSender interface {
	SendFrame(body []byte)
}

// KISSParser implements the host-side KISS protocol (spec.md §4.8): FEND
// framed, FESC/TFEND/TFESC escaped, one command byte (low nibble; the high
// nibble, the port id, is ignored — this system hardcodes a single port).
type KISSParser struct {
	cfg    *KISSConfig
	sender KISSSender

	inFrame bool
	escaped bool
	command byte
	buf     []byte
}

// NewKISSParser constructs a parser that applies configuration changes to
// cfg and hands completed data frames to sender.
func NewKISSParser(cfg *KISSConfig, sender KISSSender) *KISSParser {
	return &KISSParser{cfg: cfg, sender: sender, command: cmdUnknown}
}

// Feed processes one byte arriving from the host.
func (k *KISSParser) Feed(b byte) {
	switch {
	case b == FEND && !k.inFrame:
		k.inFrame = true
		k.command = cmdUnknown
		k.buf = k.buf[:0]
		k.escaped = false
	case b == FEND && k.inFrame:
		if k.command == CmdData {
			if k.sender != nil {
				k.sender.SendFrame(append([]byte(nil), k.buf...))
			}
		}
		k.inFrame = false
	case k.inFrame && k.command == cmdUnknown:
		k.command = b & 0x0F
	case k.inFrame && k.command == CmdData:
		k.feedData(b)
	case k.inFrame:
		k.applyParameter(b)
	}
}

func (k *KISSParser) feedData(b byte) {
	if k.escaped {
		switch b {
		case TFEND:
			b = FEND
		case TFESC:
			b = FESC
		default:
			// Lenient per spec.md §7: treat as data rather than error.
		}
		k.escaped = false
		k.buf = append(k.buf, b)
		return
	}
	if b == FESC {
		k.escaped = true
		return
	}
	k.buf = append(k.buf, b)
}

func (k *KISSParser) applyParameter(b byte) {
	switch k.command {
	case CmdTxDelay:
		k.cfg.TxDelayMs = int(b) * 10
	case CmdPersistence:
		k.cfg.Persist = b
	case CmdSlotTime:
		k.cfg.SlotTimeMs = int(b) * 10
	case CmdTxTail:
		k.cfg.TxTailMs = int(b) * 10
	case CmdFullDuplex, CmdSetHardware:
		// Accepted, no effect in this core.
	case CmdReady:
		k.cfg.ReadyAcks = b != 0
	}
	// Malformed/unrecognised command bytes are silently ignored
	// (spec.md §7: "Malformed command bytes are ignored").
}

// KISSEncoder writes received frames and transmit-complete acknowledgements
// back to the host in KISS format.
type KISSEncoder struct {
	write func(b byte)
}

func NewKISSEncoder(write func(b byte)) *KISSEncoder {
	return &KISSEncoder{write: write}
}

// EncodeFrame re-encodes a received AX.25 frame body (without its trailing
// FCS bytes) to the host as a KISS data command.
func (e *KISSEncoder) EncodeFrame(body []byte) {
	e.write(FEND)
	e.write(CmdData)
	for _, b := range body {
		switch b {
		case FEND:
			e.write(FESC)
			e.write(TFEND)
		case FESC:
			e.write(FESC)
			e.write(TFESC)
		default:
			e.write(b)
		}
	}
	e.write(FEND)
}

// EncodeReady writes the vendor flow-control acknowledgement frame
// (FEND 0x0F 0x01 FEND). The transmit path does not call it: a completed
// transmission sends no acknowledgement to the host, and
// KISSConfig.ReadyAcks only records the host's setting.
func (e *KISSEncoder) EncodeReady() {
	e.write(FEND)
	e.write(CmdReady)
	e.write(0x01)
	e.write(FEND)
}
