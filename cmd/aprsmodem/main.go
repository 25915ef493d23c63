// Command aprsmodem is the daemon: it wires an audio device, a PTT
// backend, and a host transport around a modem.Modem instance, in the
// shape of the teacher's cmd/direwolf entry point.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/n0call/aprsmodem/audio"
	"github.com/n0call/aprsmodem/config"
	"github.com/n0call/aprsmodem/hostio"
	applog "github.com/n0call/aprsmodem/log"
	"github.com/n0call/aprsmodem/modem"
	"github.com/n0call/aprsmodem/ptt"
)

func main() {
	configFile := pflag.StringP("config-file", "c", "aprsmodem.yaml", "configuration file")
	wavIn := pflag.String("wav-in", "", "decode from a WAV file instead of a live audio device (the daemon keeps running after the file ends)")
	wavOut := pflag.String("wav-out", "", "encode any transmission to a WAV file instead of a live audio device")
	saveConfig := pflag.Bool("save-config", false, "write the resolved configuration back to --config-file and exit")

	loaded, err := config.Load(*configFile)
	if err != nil {
		applog.Error("invalid configuration, falling back to defaults", "err", err)
		loaded = config.Default()
	}

	cfgFlags := config.RegisterOn(pflag.CommandLine, &loaded)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	cfg := cfgFlags.Apply()

	applog.Init(cfg.Verbosity)

	if *saveConfig {
		if err := config.Save(*configFile, cfg); err != nil {
			applog.Error("save config failed", "err", err)
			os.Exit(1)
		}
		return
	}

	mc := cfg.ModemConfig()

	// A serial-line PTT backend needs a file descriptor on the same port
	// the KISS/textual host transport will serve, so when both are
	// configured to use serial, open it once here and hand the link down
	// to serveHost instead of letting it open the device again.
	var preopenedSerial *hostio.Serial
	if cfg.PTTBackend == config.PTTBackendSerial && cfg.Transport == config.TransportSerial {
		link, err := openSerialTransport(&cfg)
		if err != nil {
			applog.Error("open serial port for host transport and PTT failed", "err", err)
			os.Exit(1)
		}
		preopenedSerial = link
	}

	var pttBackend ptt.Backend = ptt.Null{}
	switch cfg.PTTBackend {
	case config.PTTBackendGPIO:
		b, err := ptt.OpenGPIO(cfg.PTTGPIOChip, cfg.PTTGPIOLine)
		if err != nil {
			applog.Error("ptt gpio open failed, falling back to no-op", "err", err)
		} else {
			pttBackend = b
		}
	case config.PTTBackendHamlib:
		b, err := ptt.OpenHamlib(cfg.PTTRigModel, cfg.PTTRigPort)
		if err != nil {
			applog.Error("ptt hamlib open failed, falling back to no-op", "err", err)
		} else {
			pttBackend = b
		}
	case config.PTTBackendSerial:
		if preopenedSerial != nil {
			b, err := ptt.OpenSerialLine(preopenedSerial.Fd(), cfg.PTTSerialLine)
			if err != nil {
				applog.Error("ptt serial line open failed, falling back to no-op", "err", err)
			} else {
				pttBackend = b
			}
		} else {
			applog.Error("ptt serial backend requires --transport serial, falling back to no-op")
		}
	}
	defer pttBackend.Close()

	var mdm *modem.Modem
	frameHandler := newLoggingHandler(&cfg, nil)
	mdm = modem.NewModem(mc, frameHandler)
	frameHandler.encode = newEncoderForProtocol(&cfg, mdm)

	transmitter := modem.NewTransmitter(mdm, &mc.KISS)

	var dev audio.Device
	switch {
	case *wavIn != "":
		dev, err = audio.OpenWaveFileReader(*wavIn)
	case *wavOut != "":
		dev = audio.NewWaveFileWriter(*wavOut)
	default:
		dev, err = audio.OpenPortAudioDevice(cfg.SampleRate)
	}
	if err != nil {
		applog.Error("open audio device failed", "err", err)
		os.Exit(1)
	}
	defer dev.Close()

	go func() {
		err := dev.Run(func(adc int8) (uint8, bool) {
			dac, keyed := mdm.Tick(adc)
			pttBackend.Set(keyed)
			return dac, keyed
		})
		if err != nil {
			applog.Error("audio loop exited", "err", err)
		}
	}()

	go pollLoop(mdm)

	if err := serveHost(&cfg, mdm, transmitter, &mc.KISS, preopenedSerial); err != nil {
		applog.Error("host transport failed", "err", err)
		os.Exit(1)
	}
}

// pollLoop drains the receive FIFO through the AX.25 state machine often
// enough that it never fills (spec.md §5), handing off to the Go scheduler
// between passes. runtime.Gosched does not sleep, so the loop stays
// runnable and spins while the channel is idle.
func pollLoop(mdm *modem.Modem) {
	for {
		mdm.Poll()
		if mdm.Overrun() {
			applog.Warn("receive FIFO overrun")
			mdm.ClearOverrun()
		}
		runtime.Gosched()
	}
}
