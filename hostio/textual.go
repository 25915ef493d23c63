package hostio

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/n0call/aprsmodem/config"
	"github.com/n0call/aprsmodem/modem"

	applog "github.com/n0call/aprsmodem/log"
)

// TextualSession implements the line-based alternative host protocol
// (spec.md §6): a leading character selects an action, for terminals and
// scripts that would rather not speak KISS. It is optional and not part of
// the modem core; dropping this file entirely costs nothing but this
// convenience layer.
type TextualSession struct {
	link Link
	r    *bufio.Reader
	mdm  *modem.Modem

	cfg *config.Config

	repeaters []modem.Address
}

// NewTextualSession wraps link with the textual command parser, using and
// mutating cfg in place so the session's S/L/C/H commands can persist it.
func NewTextualSession(link Link, mdm *modem.Modem, cfg *config.Config) *TextualSession {
	return &TextualSession{link: link, r: bufio.NewReader(link), mdm: mdm, cfg: cfg}
}

// Serve reads one line at a time until the link closes or errors.
func (s *TextualSession) Serve() error {
	for {
		line, err := s.r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			s.handleLine(line)
		}
		if err != nil {
			return err
		}
	}
}

func (s *TextualSession) handleLine(line string) {
	lead := line[0]
	rest := line[1:]

	switch lead {
	case '!':
		s.sendRaw([]byte(rest))
	case '@':
		s.sendRaw([]byte(rest))
	case '#':
		s.sendRaw([]byte(rest))
	case 'c':
		s.cfg.Callsign = rest
	case 'd':
		s.cfg.Destination = rest
	case '1':
		s.cfg.Path1 = rest
	case '2':
		s.cfg.Path2 = rest
	case 's':
		s.setSSID(rest)
	case 'p':
		s.setPrintFlag(rest)
	case 'v', 'V':
		if n, err := strconv.Atoi(rest); err == nil {
			s.cfg.Verbosity = n
		}
	case 'w', 'W':
		s.setTiming(lead, rest)
	case 'S':
		if err := config.Save(rest, *s.cfg); err != nil {
			applog.Error("textual: save config failed", "err", err)
		}
	case 'L':
		if loaded, err := config.Load(rest); err == nil {
			*s.cfg = loaded
		} else {
			applog.Error("textual: load config failed", "err", err)
		}
	case 'C':
		*s.cfg = config.Default()
	case 'H':
		applog.Info("textual: configuration", "cfg", fmt.Sprintf("%+v", *s.cfg))
	default:
		applog.Info("textual: unrecognised command", "line", line)
	}
}

// setSSID handles s{c,d,1,2}N.
func (s *TextualSession) setSSID(rest string) {
	if len(rest) < 2 {
		return
	}
	n, err := strconv.Atoi(rest[1:])
	if err != nil {
		return
	}
	switch rest[0] {
	case 'c':
		s.cfg.SSID = n
	case 'd':
		s.cfg.DestSSID = n
	case '1':
		s.cfg.Path1SSID = n
	case '2':
		s.cfg.Path2SSID = n
	}
}

// setPrintFlag handles p{s,d,p,m,i}{0,1}.
func (s *TextualSession) setPrintFlag(rest string) {
	if len(rest) != 2 {
		return
	}
	on := rest[1] == '1'
	switch rest[0] {
	case 's':
		s.cfg.PrintFlags.Sent = on
	case 'd':
		s.cfg.PrintFlags.Decoded = on
	case 'p':
		s.cfg.PrintFlags.Packets = on
	case 'm':
		s.cfg.PrintFlags.Monitor = on
	case 'i':
		s.cfg.PrintFlags.InfoOnly = on
	}
}

// setTiming handles w/W for preamble/tail in milliseconds, "w<n>" for
// preamble and "W<n>" for tail.
func (s *TextualSession) setTiming(lead byte, rest string) {
	n, err := strconv.Atoi(rest)
	if err != nil {
		return
	}
	if lead == 'w' {
		s.cfg.PreambleMs = n
	} else {
		s.cfg.TailMs = n
	}
}

func (s *TextualSession) sendRaw(payload []byte) {
	dst := modem.Address{Call: s.cfg.Destination, SSID: s.cfg.DestSSID}
	src := modem.Address{Call: s.cfg.Callsign, SSID: s.cfg.SSID}
	var repeaters []modem.Address
	if s.cfg.Path1 != "" {
		repeaters = append(repeaters, modem.Address{Call: s.cfg.Path1, SSID: s.cfg.Path1SSID})
	}
	if s.cfg.Path2 != "" {
		repeaters = append(repeaters, modem.Address{Call: s.cfg.Path2, SSID: s.cfg.Path2SSID})
	}
	s.mdm.AX25.Send(dst, src, repeaters, payload)
	s.mdm.TxStart()
	if s.cfg.PrintFlags.Sent {
		applog.Xmit(src.Call, dst.Call, len(payload))
	}
}
