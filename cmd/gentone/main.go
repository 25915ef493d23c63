// Command gentone is an offline frame-encoding tool: it builds a single
// AX.25 UI frame, modulates it exactly the way the daemon would, and
// writes the result to a WAV file with no audio hardware involved — the
// role the teacher's cmd/gen_tone plays, generalised from a fixed-tone
// generator into a full encoded frame.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/n0call/aprsmodem/audio"
	"github.com/n0call/aprsmodem/modem"
)

func main() {
	out := pflag.StringP("out", "o", "tone.wav", "output WAV file path")
	src := pflag.String("src", "N0CALL", "source callsign")
	srcSSID := pflag.Int("src-ssid", 0, "source SSID")
	dst := pflag.String("dst", "APRS", "destination callsign")
	dstSSID := pflag.Int("dst-ssid", 0, "destination SSID")
	payload := pflag.StringP("payload", "m", "=4903.50N/07201.75W-Test", "frame payload text")
	sampleRate := pflag.Int("sample-rate", 9600, "sample rate in Hz, must be a multiple of 1200")
	preambleMs := pflag.Int("preamble-ms", 350, "preamble duration in milliseconds")
	tailMs := pflag.Int("tail-ms", 50, "tail duration in milliseconds")
	pflag.Parse()

	txFIFO := modem.NewByteFIFO(8192)
	mod := modem.NewModulator(txFIFO, *sampleRate)

	ax := modem.NewAX25(modem.NewByteFIFO(1), txFIFO, nil)
	ax.Send(
		modem.Address{Call: *dst, SSID: *dstSSID},
		modem.Address{Call: *src, SSID: *srcSSID},
		nil,
		[]byte(*payload),
	)

	mod.TxStart(*preambleMs, *tailMs, 1200)

	dev := audio.NewWaveFileWriter(*out)
	for mod.IsSending() {
		dev.AppendDAC(mod.Step())
	}
	if err := dev.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", *out)
}
