package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRCEmptyIsInit(t *testing.T) {
	assert.Equal(t, crcCCITTInit, CRC(nil))
}

func TestCRCClosesToMagic(t *testing.T) {
	// spec.md TESTABLE PROPERTIES #2: for any body, the FCS-closed running
	// CRC equals the fixed magic 0xF0B8.
	for _, body := range [][]byte{
		{},
		{0x00},
		{0x82, 0xA0, 0xA4, 0xA6, 0x40, 0x40, 0xE0, 0x03, 0xF0},
		make([]byte, 256),
	} {
		fcs := FCS(body)
		crc := CRC(body)
		crc = UpdateCRC(fcs[0], crc)
		crc = UpdateCRC(fcs[1], crc)
		assert.Equal(t, crcMagic, crc, "body len %d", len(body))
	}
}

func TestFCSComplementsCRC(t *testing.T) {
	body := []byte("NOCALL")
	fcs := FCS(body)
	crc := CRC(body)
	comp := ^crc
	assert.Equal(t, byte(comp), fcs[0])
	assert.Equal(t, byte(comp>>8), fcs[1])
}
