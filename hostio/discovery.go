package hostio

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"

	applog "github.com/n0call/aprsmodem/log"
)

// dnssdServiceType is the same service type the teacher's dns_sd.go
// registers, so existing KISS-over-TCP client discovery (Xastir, APRSIS32,
// mobile APRS apps) finds this daemon without any client-side change.
const dnssdServiceType = "_kiss-tnc._tcp"

// Advertise announces a KISS-over-TCP listener on port under name via
// mDNS/DNS-SD, returning once the responder goroutine is running. The
// returned cancel function stops advertising.
func Advertise(name string, port int) (cancel func(), err error) {
	cfg := dnssd.Config{
		Name: name,
		Type: dnssdServiceType,
		Port: port,
	}
	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("hostio: dnssd new service: %w", err)
	}
	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("hostio: dnssd new responder: %w", err)
	}
	if _, err := rp.Add(sv); err != nil {
		return nil, fmt.Errorf("hostio: dnssd add service: %w", err)
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			applog.Error("dnssd responder stopped", "err", err)
		}
	}()

	applog.Info("advertising KISS TCP service", "name", name, "port", port)
	return cancelCtx, nil
}
