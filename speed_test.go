package gbplayer

import (
	"math"
	"testing"
)

func TestAccumulatorFloorOrCeil(t *testing.T) {
	for s := int(SpeedMin); s <= int(SpeedMax); s++ {
		var acc Accumulator
		floor := uint8(s >> 4)
		for i := 0; i < 64; i++ {
			f := acc.Advance(Speed(s))
			if f != floor && f != floor+1 {
				t.Fatalf("speed %02X row %d: got %d frames, want %d or %d", s, i, f, floor, floor+1)
			}
		}
	}
}

func TestAccumulatorConverges(t *testing.T) {
	const rows = 1000
	for s := int(SpeedMin); s <= int(SpeedMax); s++ {
		var acc Accumulator
		total := 0
		for i := 0; i < rows; i++ {
			total += int(acc.Advance(Speed(s)))
		}
		avg := float64(total) / rows
		if diff := math.Abs(avg - Speed(s).Frames()); diff > 1.0/rows {
			t.Errorf("speed %02X: average %f frames per row, want %f (off by %f)", s, avg, Speed(s).Frames(), diff)
		}
	}
}

func TestAccumulatorFractionalPattern(t *testing.T) {
	// 0x18 is 1.5 frames per row, alternating 1 and 2 frames
	var acc Accumulator
	expected := []uint8{1, 2, 1, 2, 1, 2}
	for i, want := range expected {
		if got := acc.Advance(0x18); got != want {
			t.Errorf("row %d: got %d frames, want %d", i, got, want)
		}
	}

	// 0x16 is 1.375 frames per row, 3 rows in 8 get the extra frame
	acc.Reset()
	total := 0
	for i := 0; i < 8; i++ {
		total += int(acc.Advance(0x16))
	}
	if total != 11 {
		t.Errorf("speed 16 over 8 rows: got %d frames, want 11", total)
	}
}

func TestSpeedClamp(t *testing.T) {
	tests := []struct {
		in, want Speed
	}{
		{0x00, SpeedMin},
		{0x0F, SpeedMin},
		{0x10, 0x10},
		{0x6A, 0x6A},
		{0xF0, 0xF0},
		{0xFF, SpeedMax},
	}
	for _, tc := range tests {
		timer := NewTimer(0x20)
		timer.SetSpeed(tc.in)
		if timer.Speed() != tc.want {
			t.Errorf("SetSpeed(%02X): got %02X, want %02X", tc.in, timer.Speed(), tc.want)
		}
	}
}
