package config

import (
	"github.com/spf13/pflag"
)

// FlagSet builds a pflag.FlagSet pre-bound to cfg's fields, in the shape of
// the teacher's cmd/direwolf/main.go: every persisted setting can be
// overridden for a single run without touching the saved YAML file.
// Apply must be called after fs.Parse to copy the parsed values back.
type FlagSet struct {
	fs  *pflag.FlagSet
	cfg *Config

	callsign    *string
	ssid        *int
	destination *string
	destSSID    *int
	path1       *string
	path1SSID   *int
	path2       *string
	path2SSID   *int

	sampleRate        *int
	preambleMs        *int
	tailMs            *int
	phaseThresholdNum *int
	phaseThresholdDen *int

	persist    *int
	slotTimeMs *int

	hostProtocol *string
	transport    *string
	serialDevice *string
	serialBaud   *int
	tcpListen    *string
	advertise    *bool

	pttBackend  *string
	pttGPIOChip *string
	pttGPIOLine *int
	pttRigModel   *int
	pttRigPort    *string
	pttSerialLine *string

	verbosity *int
}

// NewFlagSet registers one flag per overridable Config field, defaulted
// from cfg (typically the result of Load).
func NewFlagSet(name string, cfg *Config) *FlagSet {
	return RegisterOn(pflag.NewFlagSet(name, pflag.ExitOnError), cfg)
}

// RegisterOn registers the same flags onto a caller-supplied FlagSet, so a
// daemon's own top-level flags (config file path, WAV file overrides) can
// share a single pflag.CommandLine with the configuration overlay.
func RegisterOn(fs *pflag.FlagSet, cfg *Config) *FlagSet {
	f := &FlagSet{fs: fs, cfg: cfg}

	f.callsign = fs.String("callsign", cfg.Callsign, "station callsign")
	f.ssid = fs.Int("ssid", cfg.SSID, "station SSID (0-15)")
	f.destination = fs.String("dest", cfg.Destination, "destination callsign")
	f.destSSID = fs.Int("dest-ssid", cfg.DestSSID, "destination SSID (0-15)")
	f.path1 = fs.String("path1", cfg.Path1, "first digipeater callsign")
	f.path1SSID = fs.Int("path1-ssid", cfg.Path1SSID, "first digipeater SSID")
	f.path2 = fs.String("path2", cfg.Path2, "second digipeater callsign")
	f.path2SSID = fs.Int("path2-ssid", cfg.Path2SSID, "second digipeater SSID")

	f.sampleRate = fs.Int("sample-rate", cfg.SampleRate, "ADC/DAC sample rate in Hz, must be a multiple of 1200")
	f.preambleMs = fs.Int("preamble-ms", cfg.PreambleMs, "transmit preamble duration in milliseconds")
	f.tailMs = fs.Int("tail-ms", cfg.TailMs, "transmit tail duration in milliseconds")
	f.phaseThresholdNum = fs.Int("phase-threshold-num", cfg.PhaseThresholdNum, "PLL early-late gate decision point, numerator of a fraction of PHASE_MAX")
	f.phaseThresholdDen = fs.Int("phase-threshold-den", cfg.PhaseThresholdDen, "PLL early-late gate decision point, denominator of a fraction of PHASE_MAX")

	f.persist = fs.Int("persist", int(cfg.Persist), "p-persistent CSMA persistence parameter (0-255)")
	f.slotTimeMs = fs.Int("slot-time-ms", cfg.SlotTimeMs, "p-persistent CSMA slot time in milliseconds")

	f.hostProtocol = fs.StringP("protocol", "p", string(cfg.HostProtocol), "host protocol: kiss or textual")
	f.transport = fs.StringP("transport", "t", string(cfg.Transport), "host transport: serial, tcp, or pty")
	f.serialDevice = fs.String("serial-device", cfg.SerialDevice, "serial device path")
	f.serialBaud = fs.Int("serial-baud", cfg.SerialBaud, "serial baud rate")
	f.tcpListen = fs.String("tcp-listen", cfg.TCPListen, "TCP listen address for KISS-over-TCP")
	f.advertise = fs.Bool("advertise", cfg.Advertise, "advertise the TCP KISS service via mDNS/DNS-SD")

	f.pttBackend = fs.String("ptt", string(cfg.PTTBackend), "PTT backend: none, gpio, hamlib, or serial")
	f.pttGPIOChip = fs.String("ptt-gpio-chip", cfg.PTTGPIOChip, "gpiocdev chip name for PTT, e.g. gpiochip0")
	f.pttGPIOLine = fs.Int("ptt-gpio-line", cfg.PTTGPIOLine, "gpiocdev line offset for PTT")
	f.pttRigModel = fs.Int("ptt-rig-model", cfg.PTTRigModel, "Hamlib rig model number for CAT-controlled PTT")
	f.pttRigPort = fs.String("ptt-rig-port", cfg.PTTRigPort, "Hamlib rig control port")
	f.pttSerialLine = fs.String("ptt-serial-line", cfg.PTTSerialLine, "modem control line to key for the serial PTT backend: rts or dtr")

	f.verbosity = fs.CountP("verbose", "v", "increase diagnostic verbosity (repeatable)")

	return f
}

func (f *FlagSet) Pflag() *pflag.FlagSet { return f.fs }

// Apply copies parsed flag values back onto the bound Config. Call after
// fs.Parse(os.Args[1:]).
func (f *FlagSet) Apply() Config {
	cfg := *f.cfg
	cfg.Callsign = *f.callsign
	cfg.SSID = *f.ssid
	cfg.Destination = *f.destination
	cfg.DestSSID = *f.destSSID
	cfg.Path1 = *f.path1
	cfg.Path1SSID = *f.path1SSID
	cfg.Path2 = *f.path2
	cfg.Path2SSID = *f.path2SSID

	cfg.SampleRate = *f.sampleRate
	cfg.PreambleMs = *f.preambleMs
	cfg.TailMs = *f.tailMs
	cfg.PhaseThresholdNum = *f.phaseThresholdNum
	cfg.PhaseThresholdDen = *f.phaseThresholdDen

	cfg.Persist = byte(*f.persist)
	cfg.SlotTimeMs = *f.slotTimeMs

	cfg.HostProtocol = HostProtocol(*f.hostProtocol)
	cfg.Transport = HostTransport(*f.transport)
	cfg.SerialDevice = *f.serialDevice
	cfg.SerialBaud = *f.serialBaud
	cfg.TCPListen = *f.tcpListen
	cfg.Advertise = *f.advertise

	cfg.PTTBackend = PTTBackend(*f.pttBackend)
	cfg.PTTGPIOChip = *f.pttGPIOChip
	cfg.PTTGPIOLine = *f.pttGPIOLine
	cfg.PTTRigModel = *f.pttRigModel
	cfg.PTTRigPort = *f.pttRigPort
	cfg.PTTSerialLine = *f.pttSerialLine

	if *f.verbosity > 0 {
		cfg.Verbosity = *f.verbosity
	}
	return cfg
}
