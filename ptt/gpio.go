package ptt

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIO keys a transmitter through a single gpiocdev output line, the
// role MicroAPRS's PTT_PIN macro plays directly in hardware: here it is a
// line on any Linux gpiochip rather than a fixed AVR port bit.
type GPIO struct {
	line *gpiocdev.Line
}

// OpenGPIO requests line as an output, initially unkeyed (logical low).
func OpenGPIO(chip string, line int) (*GPIO, error) {
	l, err := gpiocdev.RequestLine(chip, line, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("ptt: request %s:%d: %w", chip, line, err)
	}
	return &GPIO{line: l}, nil
}

func (g *GPIO) Set(keyed bool) error {
	v := 0
	if keyed {
		v = 1
	}
	return g.line.SetValue(v)
}

func (g *GPIO) Close() error {
	return g.line.Close()
}
