package modem

// SinLen is the full-cycle length of the DDS phase space (spec.md DATA
// MODEL: SIN_LEN = 512).
const SinLen = 512

// quarterSine holds one quarter-wave of an 8-bit-unsigned sine, centred at
// 128, for indices [0, SinLen/4). The rest of the cycle is reconstructed by
// reflection/inversion in SinSample. Values taken from MicroAPRS's
// Modem/afsk.c sin_table (same 128-entry table, same bias).
var quarterSine = [SinLen / 4]uint8{
	128, 129, 131, 132, 134, 135, 137, 138, 140, 142, 143, 145, 146, 148, 149, 151,
	152, 154, 155, 157, 158, 160, 162, 163, 165, 166, 167, 169, 170, 172, 173, 175,
	176, 178, 179, 181, 182, 183, 185, 186, 188, 189, 190, 192, 193, 194, 196, 197,
	198, 200, 201, 202, 203, 205, 206, 207, 208, 210, 211, 212, 213, 214, 215, 217,
	218, 219, 220, 221, 222, 223, 224, 225, 226, 227, 228, 229, 230, 231, 232, 233,
	234, 234, 235, 236, 237, 238, 238, 239, 240, 241, 241, 242, 243, 243, 244, 245,
	245, 246, 246, 247, 248, 248, 249, 249, 250, 250, 250, 251, 251, 252, 252, 252,
	253, 253, 253, 253, 254, 254, 254, 254, 254, 255, 255, 255, 255, 255, 255, 255,
}

// SinSample returns the DAC code for DDS phase i, where i is taken modulo
// SinLen. It exploits quarter-wave symmetry: fold into the first half
// cycle, mirror into the first quarter if beyond it, then invert around 255
// if the original phase was in the second half cycle.
func SinSample(i uint16) uint8 {
	i %= SinLen
	half := i % (SinLen / 2)
	if half >= SinLen/4 {
		half = SinLen/2 - half - 1
	}
	s := quarterSine[half]
	if i >= SinLen/2 {
		return 255 - s
	}
	return s
}

// ToneIncrement returns the DDS phase increment for a tone of the given
// frequency at the given sample rate: round(SinLen * f / sampleRate).
func ToneIncrement(freqHz, sampleRate int) uint16 {
	num := int64(SinLen) * int64(freqHz)
	den := int64(sampleRate)
	return uint16((num + den/2) / den)
}

const (
	MarkFreqHz  = 1200
	SpaceFreqHz = 2200
)
