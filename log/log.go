// Package log reproduces the shape of the teacher's text_color_set/dw_printf
// diagnostic output — one call per severity, plus tagged receive/transmit
// events — backed by github.com/charmbracelet/log instead of hand-rolled
// ANSI color codes.
package log

import (
	"os"

	"github.com/charmbracelet/log"
)

// Level mirrors the color tags text_color_set switched on: Info, Error, Rec
// (received frame), Decoded, Xmit (transmitted frame), Debug.
type Level int

const (
	LevelInfo Level = iota
	LevelError
	LevelRec
	LevelDecoded
	LevelXmit
	LevelDebug
)

var base = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// Init sets the verbosity level: 0 (or less) shows Info, Warn and Error
// messages; any higher value also shows Debug messages, mirroring the
// DEBUG1..DEBUG5 macros gating trace output in the teacher's demod code.
func Init(verbosity int) {
	if verbosity <= 0 {
		base.SetLevel(log.InfoLevel)
		return
	}
	base.SetLevel(log.DebugLevel)
}

func Info(msg string, kv ...any)  { base.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { base.Warn(msg, kv...) }
func Error(msg string, kv ...any) { base.Error(msg, kv...) }
func Debug(msg string, kv ...any) { base.Debug(msg, kv...) }

// Rec logs a raw frame arriving off the air, before AX.25 decoding — the
// teacher's DW_COLOR_REC tag.
func Rec(channel string, length int) {
	base.With("channel", channel, "bytes", length).Info("rec")
}

// Decoded logs a successfully decoded AX.25 frame — DW_COLOR_DECODED.
func Decoded(src, dst string, payloadLen int) {
	base.With("src", src, "dst", dst, "payload", payloadLen).Info("decoded")
}

// Xmit logs a frame handed to the modulator — DW_COLOR_XMIT.
func Xmit(src, dst string, payloadLen int) {
	base.With("src", src, "dst", dst, "payload", payloadLen).Info("xmit")
}
