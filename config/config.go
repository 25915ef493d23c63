// Package config holds the persistent and command-line configuration for
// the modem daemon: the Go-native analogue of MicroAPRS's EEPROM-backed
// config struct (Modem/config.h), serialised with YAML instead of a raw
// memory block, and overlaid with a pflag.FlagSet the way the teacher's
// cmd/direwolf/main.go and kissutil.go both build their CLI surface.
package config

import "github.com/n0call/aprsmodem/modem"

// configMagic plays the role of MicroAPRS's single EEPROM magic byte: it
// distinguishes a deliberately-saved config file from a missing or
// unrelated one so Load can reject it rather than trusting garbage (the
// daemon then falls back to Default).
const configMagic = "aprsmodem-config-v1"

// HostProtocol selects between the two host-facing wire formats MicroAPRS's
// main.c picked between at compile time via #ifdef.
type HostProtocol string

const (
	ProtocolKISS    HostProtocol = "kiss"
	ProtocolTextual HostProtocol = "textual"
)

// PTTBackend selects how the transmitter's keying line is driven.
type PTTBackend string

const (
	PTTBackendNone   PTTBackend = "none"
	PTTBackendGPIO   PTTBackend = "gpio"
	PTTBackendHamlib PTTBackend = "hamlib"
	PTTBackendSerial PTTBackend = "serial"
)

// HostTransport selects how KISS/textual bytes reach the host application.
type HostTransport string

const (
	TransportSerial HostTransport = "serial"
	TransportTCP    HostTransport = "tcp"
	TransportPTY    HostTransport = "pty"
)

// PrintFlags mirrors the textual protocol's p{s,d,p,m,i}{0,1} options
// (spec.md §6): consulted only by host-side logging and forwarding (the
// daemon's frame handler and the textual session), never by the modem core.
type PrintFlags struct {
	Sent     bool
	Decoded  bool
	Packets  bool
	Monitor  bool
	InfoOnly bool
}

// Config is the full set of tunables a deployment can adjust. Everything
// the hard real-time core (package modem) needs is copied out into
// modem.Config / modem.KISSConfig at startup; nothing here is read from the
// per-sample hot path.
type Config struct {
	Magic string `yaml:"magic"`

	Callsign    string `yaml:"callsign"`
	SSID        int    `yaml:"ssid"`
	Destination string `yaml:"destination"`
	DestSSID    int    `yaml:"dest_ssid"`
	Path1       string `yaml:"path1"`
	Path1SSID   int    `yaml:"path1_ssid"`
	Path2       string `yaml:"path2"`
	Path2SSID   int    `yaml:"path2_ssid"`

	SampleRate int `yaml:"sample_rate"`
	PreambleMs int `yaml:"preamble_ms"`
	TailMs     int `yaml:"tail_ms"`

	// PhaseThresholdNum/Den recover the PLL early-late gate's decision
	// point as a fraction of PHASE_MAX; the two original ports disagree
	// between 1/2 and 5/8 (spec.md DESIGN NOTES). Default 1/2.
	PhaseThresholdNum int `yaml:"phase_threshold_num"`
	PhaseThresholdDen int `yaml:"phase_threshold_den"`

	Persist    byte `yaml:"persist"`
	SlotTimeMs int  `yaml:"slot_time_ms"`

	HostProtocol HostProtocol  `yaml:"host_protocol"`
	Transport    HostTransport `yaml:"transport"`
	SerialDevice string        `yaml:"serial_device"`
	SerialBaud   int           `yaml:"serial_baud"`
	TCPListen    string        `yaml:"tcp_listen"`
	Advertise    bool          `yaml:"advertise"`

	PTTBackend    PTTBackend `yaml:"ptt_backend"`
	PTTGPIOChip   string     `yaml:"ptt_gpio_chip"`
	PTTGPIOLine   int        `yaml:"ptt_gpio_line"`
	PTTRigModel   int        `yaml:"ptt_rig_model"`
	PTTRigPort    string     `yaml:"ptt_rig_port"`
	PTTSerialLine string     `yaml:"ptt_serial_line"` // "rts" or "dtr", when PTTBackend is serial

	Verbosity  int        `yaml:"verbosity"`
	PrintFlags PrintFlags `yaml:"print_flags"`

	KISSReadyAcks bool `yaml:"kiss_ready_acks"`
}

// Default matches spec.md's fixed defaults, with the Open-Question decision
// recorded in DESIGN.md: preamble 350ms, 9600Hz sample rate.
func Default() Config {
	return Config{
		Magic: configMagic,

		Callsign:    "N0CALL",
		SSID:        0,
		Destination: "APRS",
		DestSSID:    0,

		SampleRate: 9600,
		PreambleMs: 350,
		TailMs:     50,

		PhaseThresholdNum: 1,
		PhaseThresholdDen: 2,

		Persist:    63,
		SlotTimeMs: 100,

		HostProtocol: ProtocolKISS,
		Transport:    TransportSerial,
		SerialDevice: "/dev/ttyUSB0",
		SerialBaud:   9600,
		TCPListen:    ":8001",

		PTTBackend:    PTTBackendNone,
		PTTSerialLine: "rts",

		Verbosity: 0,
	}
}

// ModemConfig converts the persistent configuration into the structures the
// real-time core consumes.
func (c Config) ModemConfig() modem.Config {
	mc := modem.DefaultConfig()
	mc.SampleRate = c.SampleRate
	mc.PreambleMs = c.PreambleMs
	mc.TailMs = c.TailMs
	mc.PhaseThresholdNum = c.PhaseThresholdNum
	mc.PhaseThresholdDen = c.PhaseThresholdDen
	mc.KISS.TxDelayMs = c.PreambleMs
	mc.KISS.Persist = c.Persist
	mc.KISS.SlotTimeMs = c.SlotTimeMs
	mc.KISS.TxTailMs = c.TailMs
	mc.KISS.ReadyAcks = c.KISSReadyAcks
	return mc
}
