package hostio

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"

	applog "github.com/n0call/aprsmodem/log"
)

// SerialDevice describes one tty device udev knows about: its device node
// (what config.Config.SerialDevice should be set to) and, when the kernel
// driver exposes them, the attached USB device's vendor/product strings —
// enough to tell a CP2102-based TNC apart from an FTDI-based CAT cable
// without the user having to know the underlying /dev/ttyUSBn assignment.
type SerialDevice struct {
	Node    string
	Vendor  string
	Product string
}

// ListSerialDevices enumerates every currently-present tty device, the
// udev equivalent of grepping /sys/class/tty at boot.
func ListSerialDevices() ([]SerialDevice, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("hostio: udev match subsystem: %w", err)
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("hostio: udev enumerate: %w", err)
	}

	var out []SerialDevice
	for _, d := range devices {
		node := d.Devnode()
		if node == "" {
			continue
		}
		out = append(out, SerialDevice{
			Node:    node,
			Vendor:  d.PropertyValue("ID_VENDOR"),
			Product: d.PropertyValue("ID_MODEL"),
		})
	}
	return out, nil
}

// WatchSerialDevices reports tty devices as they are plugged in, until ctx
// is cancelled, letting the daemon attach to a TNC the moment its USB
// cable is connected rather than requiring a restart.
func WatchSerialDevices(ctx context.Context, onAdd func(SerialDevice)) error {
	u := udev.Udev{}
	m := u.NewMonitorFromNetlink("udev")
	if err := m.FilterAddMatchSubsystem("tty"); err != nil {
		return fmt.Errorf("hostio: udev monitor filter: %w", err)
	}

	ch, _, err := m.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("hostio: udev monitor start: %w", err)
	}

	for d := range ch {
		if d.Action() != "add" {
			continue
		}
		node := d.Devnode()
		if node == "" {
			continue
		}
		applog.Info("udev: serial device attached", "node", node)
		onAdd(SerialDevice{
			Node:    node,
			Vendor:  d.PropertyValue("ID_VENDOR"),
			Product: d.PropertyValue("ID_MODEL"),
		})
	}
	return ctx.Err()
}
