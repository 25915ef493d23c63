package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// framesPerBuffer mirrors the teacher's choice of a short, fixed-size
// blocking I/O buffer rather than the callback API: latency matters more
// than throughput for a half-duplex CSMA channel.
const framesPerBuffer = 256

// PortAudioDevice drives the default system input/output device using
// 16-bit native samples, scaled down to the modem core's internal 8-bit
// resolution on the way in and back up on the way out.
type PortAudioDevice struct {
	stream *portaudio.Stream
	in     []int16
	out    []int16
	closed bool
}

// OpenPortAudioDevice opens the system default audio device at sampleRate,
// one channel in and out. Initialize/Terminate bracket every call into the
// underlying PortAudio library per its own usage contract.
func OpenPortAudioDevice(sampleRate int) (*PortAudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: portaudio init: %w", err)
	}

	d := &PortAudioDevice{
		in:  make([]int16, framesPerBuffer),
		out: make([]int16, framesPerBuffer),
	}
	stream, err := portaudio.OpenDefaultStream(1, 1, float64(sampleRate), framesPerBuffer, d.in, d.out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: open default stream: %w", err)
	}
	d.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: start stream: %w", err)
	}
	return d, nil
}

// Run reads a buffer, ticks the modem once per sample translating between
// 16-bit hardware samples and the core's 8-bit resolution, writes the
// buffer back, and repeats until Close is called.
func (d *PortAudioDevice) Run(tick func(adc int8) (dac uint8, keyed bool)) error {
	for !d.closed {
		if err := d.stream.Read(); err != nil {
			if d.closed {
				return nil
			}
			return fmt.Errorf("audio: read: %w", err)
		}
		for i := range d.in {
			adc := int8(d.in[i] >> 8)
			dac, _ := tick(adc)
			d.out[i] = int16(dac-128) << 8
		}
		if err := d.stream.Write(); err != nil {
			if d.closed {
				return nil
			}
			return fmt.Errorf("audio: write: %w", err)
		}
	}
	return nil
}

func (d *PortAudioDevice) Close() error {
	d.closed = true
	err := d.stream.Close()
	portaudio.Terminate()
	return err
}
