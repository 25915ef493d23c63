package main

import (
	"fmt"
	"io"

	"github.com/n0call/aprsmodem/config"
	"github.com/n0call/aprsmodem/hostio"
	applog "github.com/n0call/aprsmodem/log"
	"github.com/n0call/aprsmodem/modem"
)

// loggingHandler is the AX.25 layer's frame-received hook (spec.md DESIGN
// NOTES: "a capability ... registered at construction"). It logs decoded
// frames per the configured print flags and forwards each one to whatever
// host encoder is currently attached.
type loggingHandler struct {
	cfg    *config.Config
	encode func(f *modem.Frame)
}

func newLoggingHandler(cfg *config.Config, encode func(f *modem.Frame)) *loggingHandler {
	return &loggingHandler{cfg: cfg, encode: encode}
}

func (h *loggingHandler) OnFrameReceived(f *modem.Frame) {
	if h.cfg.PrintFlags.Decoded {
		applog.Decoded(f.Src.Call, f.Dest.Call, len(f.Payload))
	}
	if h.encode != nil {
		h.encode(f)
	}
}

// broadcaster is whatever can fan a byte slice out to every attached host
// connection: a single serial link, or every client of a TCPServer.
type broadcaster interface {
	Broadcast(p []byte)
}

type singleLinkBroadcaster struct{ link hostio.Link }

func (b singleLinkBroadcaster) Broadcast(p []byte) { b.link.Write(p) }

// newEncoderForProtocol builds the callback loggingHandler uses to forward
// a decoded frame to the host, in the configured protocol. It captures bc
// by pointer indirection (set once the transport is known) since the
// frame handler must exist before the host transport is opened.
func newEncoderForProtocol(cfg *config.Config, mdm *modem.Modem) func(*modem.Frame) {
	return func(f *modem.Frame) {
		bc := currentBroadcaster
		if bc == nil {
			return
		}
		switch cfg.HostProtocol {
		case config.ProtocolTextual:
			if cfg.PrintFlags.Packets {
				line := fmt.Sprintf("%s>%s:%s\n", f.Src.Call, f.Dest.Call, f.Payload)
				bc.Broadcast([]byte(line))
			}
		default:
			var out []byte
			enc := modem.NewKISSEncoder(func(b byte) { out = append(out, b) })
			enc.EncodeFrame(f.EncodeBody())
			bc.Broadcast(out)
		}
	}
}

// currentBroadcaster is set once serveHost has opened the configured
// transport; OnFrameReceived can fire at any time afterward from the
// sample-rate-driven poll loop's goroutine.
var currentBroadcaster broadcaster

// serveHost opens the configured transport and protocol and blocks
// forever (or until a fatal transport error) serving host clients.
// kissCfg is the same KISSConfig the transmitter's CSMA layer reads, so a
// host KISS command changing TxDelay/Persist/SlotTime (S4) takes effect
// immediately rather than updating a disconnected copy.
// preopenedSerial, when non-nil, is a serial link main already opened to
// derive a serial-line PTT backend's file descriptor; serveHost then reuses
// it instead of opening the configured serial device a second time.
func serveHost(cfg *config.Config, mdm *modem.Modem, tx *modem.Transmitter, kissCfg *modem.KISSConfig, preopenedSerial *hostio.Serial) error {
	if preopenedSerial != nil {
		return serveOpenSerial(cfg, mdm, tx, kissCfg, preopenedSerial)
	}
	switch cfg.Transport {
	case config.TransportTCP:
		return serveTCP(cfg, mdm, tx, kissCfg)
	case config.TransportPTY:
		return servePTY(cfg, mdm, tx, kissCfg)
	default:
		return serveSerial(cfg, mdm, tx, kissCfg)
	}
}

// servePTY opens a pseudo-terminal pair and serves it exactly like a
// serial link, printing the slave path so a host application that only
// knows how to open a serial device (gqrx, Xastir, soundmodem) can attach
// without any real hardware present.
func servePTY(cfg *config.Config, mdm *modem.Modem, tx *modem.Transmitter, kissCfg *modem.KISSConfig) error {
	link, slavePath, err := hostio.OpenPTY()
	if err != nil {
		return err
	}
	defer link.Close()
	applog.Info("KISS pseudo-terminal ready", "path", slavePath)
	currentBroadcaster = singleLinkBroadcaster{link: link}

	return serveLink(cfg, mdm, tx, kissCfg, link)
}

// openSerialTransport resolves "auto" against udev and opens the serial
// port, without starting to serve it — so main can derive a serial-line
// PTT backend from the same file descriptor before the read loop starts.
func openSerialTransport(cfg *config.Config) (*hostio.Serial, error) {
	device := cfg.SerialDevice
	if device == "auto" {
		found, err := resolveAutoSerialDevice()
		if err != nil {
			return nil, err
		}
		device = found
	}
	return hostio.OpenSerial(device, cfg.SerialBaud)
}

func serveSerial(cfg *config.Config, mdm *modem.Modem, tx *modem.Transmitter, kissCfg *modem.KISSConfig) error {
	link, err := openSerialTransport(cfg)
	if err != nil {
		return err
	}
	defer link.Close()
	return serveOpenSerial(cfg, mdm, tx, kissCfg, link)
}

// serveOpenSerial serves an already-opened serial link, used both by
// serveSerial and by main when it had to open the port early to wire up
// serial-line PTT.
func serveOpenSerial(cfg *config.Config, mdm *modem.Modem, tx *modem.Transmitter, kissCfg *modem.KISSConfig, link *hostio.Serial) error {
	currentBroadcaster = singleLinkBroadcaster{link: link}
	return serveLink(cfg, mdm, tx, kissCfg, link)
}

func serveTCP(cfg *config.Config, mdm *modem.Modem, tx *modem.Transmitter, kissCfg *modem.KISSConfig) error {
	srv, err := hostio.ListenTCP(cfg.TCPListen)
	if err != nil {
		return err
	}
	defer srv.Close()
	currentBroadcaster = srv

	if cfg.Advertise {
		cancel, err := hostio.Advertise("aprsmodem", tcpPort(cfg.TCPListen))
		if err != nil {
			applog.Error("dnssd advertise failed", "err", err)
		} else {
			defer cancel()
		}
	}

	for {
		link, ok := srv.Accept()
		if !ok {
			return fmt.Errorf("cmd/aprsmodem: TCP listener closed")
		}
		go func() {
			if err := serveLink(cfg, mdm, tx, kissCfg, link); err != nil && err != io.EOF {
				applog.Info("KISS TCP client disconnected", "err", err)
			}
		}()
	}
}

// serveLink runs one host connection's read loop until it errors or
// closes, dispatching bytes to the configured protocol's parser. Each TCP
// client gets its own KISSParser instance (independent framing state) but
// they all share kissCfg, so a parameter change from any one client
// affects the whole station (matching a single physical TNC's behaviour).
func serveLink(cfg *config.Config, mdm *modem.Modem, tx *modem.Transmitter, kissCfg *modem.KISSConfig, link hostio.Link) error {
	if cfg.HostProtocol == config.ProtocolTextual {
		session := hostio.NewTextualSession(link, mdm, cfg)
		return session.Serve()
	}

	parser := modem.NewKISSParser(kissCfg, tx)
	buf := make([]byte, 4096)
	for {
		n, err := link.Read(buf)
		for i := 0; i < n; i++ {
			parser.Feed(buf[i])
		}
		if err != nil {
			return err
		}
	}
}

// resolveAutoSerialDevice picks the first tty device udev currently knows
// about, for a "--serial-device auto" deployment that doesn't want to hunt
// down /dev/ttyUSBn assignments.
func resolveAutoSerialDevice() (string, error) {
	devices, err := hostio.ListSerialDevices()
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("cmd/aprsmodem: no serial devices found via udev")
	}
	applog.Info("udev: auto-selecting serial device", "node", devices[0].Node, "vendor", devices[0].Vendor, "product", devices[0].Product)
	return devices[0].Node, nil
}

// tcpPort extracts the numeric port from a ":NNNN" or "host:NNNN" listen
// address for DNS-SD announcement.
func tcpPort(addr string) int {
	var port int
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			fmt.Sscanf(addr[i+1:], "%d", &port)
			break
		}
	}
	return port
}
