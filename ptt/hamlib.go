package ptt

import (
	"fmt"

	"github.com/xylo04/goHamlib"
)

// Hamlib keys a transmitter through CAT control rather than a discrete
// keying line, for rigs whose only PTT path is their control port (the
// teacher's hardware never needed this; it is this module's extension for
// rigs without a separate PTT pin).
type Hamlib struct {
	rig *goHamlib.Rig
}

// OpenHamlib opens a rig of the given Hamlib model number on port (e.g.
// "/dev/ttyUSB0" or "localhost:4532" for rigctld), ready to key PTT on the
// rig's currently selected VFO.
func OpenHamlib(model int, port string) (*Hamlib, error) {
	rig := &goHamlib.Rig{}
	if err := rig.Init(model); err != nil {
		return nil, fmt.Errorf("ptt: hamlib init model %d: %w", model, err)
	}
	rig.SetConf("rig_pathname", port)
	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("ptt: hamlib open %s: %w", port, err)
	}
	return &Hamlib{rig: rig}, nil
}

func (h *Hamlib) Set(keyed bool) error {
	return h.rig.SetPTT(goHamlib.RIG_VFO_CURR, keyed)
}

func (h *Hamlib) Close() error {
	h.rig.Close()
	return nil
}
