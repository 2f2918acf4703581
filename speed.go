package gbplayer

// Speed sets the tempo during pattern playback. Its unit is frames per row in
// Q4.4 fixed point, e.g. 0x18 is 1.5 frames per row. Speeds with a fractional
// part have some rows take an extra frame.
type Speed uint8

const (
	SpeedMin     Speed = 0x10 // 1.0 frames per row
	SpeedMax     Speed = 0xF0 // 15.0 frames per row
	DefaultSpeed Speed = 0x60
)

func (s Speed) clamp() Speed {
	if s < SpeedMin {
		return SpeedMin
	}
	if s > SpeedMax {
		return SpeedMax
	}
	return s
}

// Frames returns the speed as a fractional number of frames per row.
func (s Speed) Frames() float64 {
	return float64(s) / 16
}

// Accumulator converts a Speed into whole frame counts, one row at a time.
// The fractional part of the speed is carried between rows so the long run
// average matches the speed exactly.
type Accumulator struct {
	fraction uint8
}

// Advance returns the number of frames the next row lasts at speed s. The
// result is always the integer part of s or one more than that.
func (a *Accumulator) Advance(s Speed) uint8 {
	frames := uint8(s >> 4)
	a.fraction += uint8(s & 0xF)
	if a.fraction > 0xF {
		a.fraction &= 0xF
		frames++
	}
	return frames
}

// Reset clears the carried fraction.
func (a *Accumulator) Reset() {
	a.fraction = 0
}
