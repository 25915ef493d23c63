package hostio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0call/aprsmodem/config"
	"github.com/n0call/aprsmodem/modem"
)

// pipeLink is an in-memory Link backed by one buffer read and discarded,
// enough to drive TextualSession.handleLine without any real transport.
type pipeLink struct {
	r *bytes.Reader
}

func (p *pipeLink) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeLink) Write(b []byte) (int, error) { return len(b), nil }
func (p *pipeLink) Close() error                { return nil }

func newSession(t *testing.T, lines string) (*TextualSession, *config.Config) {
	t.Helper()
	cfg := config.Default()
	mc := cfg.ModemConfig()
	mdm := modem.NewModem(mc, noopHandler{})
	link := &pipeLink{r: bytes.NewReader([]byte(lines))}
	return NewTextualSession(link, mdm, &cfg), &cfg
}

type noopHandler struct{}

func (noopHandler) OnFrameReceived(*modem.Frame) {}

func TestTextualSessionSetsCallsignAndSSID(t *testing.T) {
	session, cfg := newSession(t, "cKC1ABC\nsc7\n")
	err := session.Serve()
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "KC1ABC", cfg.Callsign)
	assert.Equal(t, 7, cfg.SSID)
}

func TestTextualSessionSetsPrintFlagsAndTiming(t *testing.T) {
	session, cfg := newSession(t, "pd1\nw500\nW75\n")
	require.ErrorIs(t, session.Serve(), io.EOF)

	assert.True(t, cfg.PrintFlags.Decoded)
	assert.Equal(t, 500, cfg.PreambleMs)
	assert.Equal(t, 75, cfg.TailMs)
}

func TestTextualSessionClearResetsToDefault(t *testing.T) {
	session, cfg := newSession(t, "cKC1ABC\nC\n")
	require.ErrorIs(t, session.Serve(), io.EOF)

	assert.Equal(t, config.Default().Callsign, cfg.Callsign)
}

func TestTextualSessionIgnoresMalformedSSID(t *testing.T) {
	session, cfg := newSession(t, "scNOTANUMBER\n")
	require.ErrorIs(t, session.Serve(), io.EOF)

	assert.Equal(t, config.Default().SSID, cfg.SSID, "a malformed SSID command must not change the config")
}
