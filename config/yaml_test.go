package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aprsmodem.yaml")

	cfg := Default()
	cfg.Callsign = "KC1ABC"
	cfg.SSID = 7
	cfg.Transport = TransportTCP
	cfg.TCPListen = ":8123"
	cfg.PTTBackend = PTTBackendSerial
	cfg.PTTSerialLine = SerialLineDTRForTest

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.yaml")
	require.NoError(t, os.WriteFile(path, []byte("magic: not-ours\ncallsign: X\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "a file with a foreign or missing magic must not be trusted as ours")
}

// SerialLineDTRForTest avoids importing package ptt from a config test
// (which would be a cyclic-looking dependency for no real reason); the
// value itself is just the "dtr" string ptt.SerialLineDTR also uses.
const SerialLineDTRForTest = "dtr"
