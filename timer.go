package gbplayer

// Timer counts frames within a row. The length of each row comes from the
// Accumulator, so fractional speeds stretch some rows by a frame.
type Timer struct {
	acc     Accumulator
	speed   Speed
	counter uint8 // frames elapsed in the current row
	frames  uint8 // length of the current row, 0 until the row starts
}

// NewTimer returns a timer at the start of a row.
func NewTimer(speed Speed) Timer {
	return Timer{speed: speed.clamp()}
}

// Speed returns the current speed.
func (t *Timer) Speed() Speed {
	return t.speed
}

// SetSpeed changes the speed, clamping to [SpeedMin, SpeedMax]. When called on
// the first frame of a row the new speed covers that row.
func (t *Timer) SetSpeed(speed Speed) {
	t.speed = speed.clamp()
}

// Active reports whether the current frame is the first frame of a row.
func (t *Timer) Active() bool {
	return t.counter == 0
}

// Tick advances the timer by one frame. It returns true when the current row
// has elapsed, in which case the next frame begins a new row.
func (t *Timer) Tick() bool {
	if t.counter == 0 {
		t.frames = t.acc.Advance(t.speed)
	}
	t.counter++
	if t.counter >= t.frames {
		t.counter = 0
		return true
	}
	return false
}

// Reset puts the timer back at the start of a row and clears any carried
// fraction.
func (t *Timer) Reset() {
	t.acc.Reset()
	t.counter = 0
	t.frames = 0
}
