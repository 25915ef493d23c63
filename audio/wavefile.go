package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// waveHeaderLen is the canonical 44-byte PCM WAV header size used by both
// the reader and the writer below.
const waveHeaderLen = 44

// WaveFileDevice is the offline analogue of PortAudioDevice: it reads ADC
// samples from a 16-bit mono PCM WAV file and/or writes DAC samples to one,
// the role the teacher's gen_tone (encode-only) and decode_aprs
// (decode-only) tools play without needing a sound card.
type WaveFileDevice struct {
	in     *bufio.Reader
	inFile *os.File

	outPath string
	out     []byte
}

// OpenWaveFileReader opens path for reading and validates it is a 16-bit
// PCM mono WAV, skipping straight past the 44-byte canonical header (the
// spec's fixed test vectors and the teacher's sample captures never carry
// extension chunks).
func OpenWaveFileReader(path string) (*WaveFileDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	header := make([]byte, waveHeaderLen)
	if _, err := io.ReadFull(f, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: read %s header: %w", path, err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		f.Close()
		return nil, fmt.Errorf("audio: %s is not a RIFF/WAVE file", path)
	}
	bitDepth := binary.LittleEndian.Uint16(header[34:36])
	if bitDepth != 16 {
		f.Close()
		return nil, fmt.Errorf("audio: %s has %d-bit samples, want 16", path, bitDepth)
	}
	return &WaveFileDevice{in: bufio.NewReader(f), inFile: f}, nil
}

// NewWaveFileWriter buffers DAC output in memory, written to path as a
// valid WAV file on Close.
func NewWaveFileWriter(path string) *WaveFileDevice {
	return &WaveFileDevice{outPath: path}
}

// Run reads 16-bit little-endian samples until EOF, ticking the modem once
// per sample and accumulating any DAC output, then returns nil. A device
// opened only for writing (no input reader) calls tick with a steady
// mid-scale ADC input, the silence a real receiver sees on an idle channel.
func (d *WaveFileDevice) Run(tick func(adc int8) (dac uint8, keyed bool)) error {
	var buf [2]byte
	for {
		adc := int8(0)
		if d.in != nil {
			if _, err := io.ReadFull(d.in, buf[:]); err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					return nil
				}
				return fmt.Errorf("audio: read sample: %w", err)
			}
			adc = int8(int16(binary.LittleEndian.Uint16(buf[:])) >> 8)
		}
		dac, _ := tick(adc)
		if d.outPath != "" {
			d.AppendDAC(dac)
		}
		if d.in == nil && d.outPath == "" {
			return nil
		}
	}
}

// AppendDAC converts one 8-bit unsigned DAC code to a 16-bit little-endian
// sample and buffers it for the eventual Close. Exposed directly for
// offline tools that step a Modulator themselves rather than driving it
// through Run's tick loop.
func (d *WaveFileDevice) AppendDAC(dac uint8) {
	var out [2]byte
	binary.LittleEndian.PutUint16(out[:], uint16(int16(dac-128)<<8))
	d.out = append(d.out, out[:]...)
}

func (d *WaveFileDevice) Close() error {
	if d.inFile != nil {
		d.inFile.Close()
	}
	if d.outPath == "" {
		return nil
	}
	return writeWaveFile(d.outPath, d.out, 1)
}

// writeWaveFile builds a canonical 44-byte PCM header around raw 16-bit
// little-endian samples, following the same field layout as the teacher
// pack's WAV encoder (RIFF/WAVE/fmt /data chunks, PCM format code 1).
func writeWaveFile(path string, samples []byte, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", path, err)
	}
	defer f.Close()

	const channels = 1
	const bitDepth = 16
	byteRate := sampleRate * channels * bitDepth / 8
	blockAlign := channels * bitDepth / 8

	header := make([]byte, waveHeaderLen)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(samples)+waveHeaderLen-8))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitDepth)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(samples)))

	if _, err := f.Write(header); err != nil {
		return err
	}
	_, err = f.Write(samples)
	return err
}
