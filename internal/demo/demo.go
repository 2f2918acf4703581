// Package demo holds a short song and instrument set used by the command line
// tools when no song is given.
package demo

import (
	"fmt"

	"github.com/chriskillpack/gbplayer"
)

const Title = "gbplayer demo"

// Instrument programs in their binary form, one 5 byte instruction per line:
// duration, ctrl, settings, envelope, note offset.
var programs = map[int][]byte{
	// Lead, retriggered duty sweep
	1: {
		0x01, 0x98, 0x02, 0xF3, 0x00,
		0x04, 0x28, 0x01, 0x00, 0x00,
		0x04, 0x48, 0x02, 0x00, 0x00,
	},
	// Bass
	2: {
		0x02, 0x98, 0x03, 0xC1, 0x00,
		0x01, 0x08, 0x00, 0x00, 0x00,
	},
	// Major chord
	3: {
		0x02, 0x90, 0x02, 0xA0, 0x00,
		0x01, 0x20, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x04,
		0x01, 0x40, 0x00, 0x00, 0x07,
	},
	// Hat
	4: {
		0x01, 0x98, 0x00, 0xA1, 0x00,
		0x01, 0x18, 0x01, 0x00, 0x00,
	},
	// Kick, drops an octave
	5: {
		0x01, 0x98, 0x00, 0xF1, 0x00,
		0x02, 0x00, 0x00, 0x00, 0xF4,
	},
	// Wave pad, left only
	6: {
		0x01, 0x9D, 0x01, 0x20, 0x00,
	},
}

var tracks = [gbplayer.ChannelCount][]string{
	// Pulse 1
	{`
C-4 01 ... ... F48
... .. ... ... ...
E-4 01 ... ... ...
... .. ... ... ...
G-4 01 448 502 ...
... .. ... ... ...
... .. ... ... ...
C-5 01 ... ... S04
... .. ... ... ...
A-4 01 ... ... ...
... .. ... ... ...
G-4 01 306 ... ...
... .. ... ... ...
E-4 01 Q32 ... ...
... .. ... ... ...
... .. 300 ... ...
`, `
C-5 01 037 ... ...
... .. 037 ... ...
... .. ... ... ...
A#4 01 ... ... ...
... .. ... ... ...
G-4 01 ... ... ...
... .. 110 ... ...
... .. ... ... ...
--- .. ... ... ...
... .. ... ... ...
F-4 01 P84 ... ...
... .. ... ... ...
G-4 01 P80 G03 ...
... .. ... ... ...
... .. 208 ... ...
... .. ... ... ...
`},
	// Pulse 2
	{`
C-3 03 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
A-2 03 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
F-2 03 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
G-2 03 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
`, `
C-3 03 I11 ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
A#2 03 I10 ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
F-2 03 I01 ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
G-2 03 I11 V00 ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
`},
	// Wave
	{`
C-2 02 ... ... ...
... .. ... ... ...
C-3 02 ... ... ...
... .. ... ... ...
A-2 02 ... ... ...
... .. ... ... ...
A-3 02 ... ... ...
... .. ... ... ...
F-2 02 ... ... ...
... .. ... ... ...
F-3 02 ... ... ...
... .. ... ... ...
G-2 02 ... ... ...
... .. ... ... ...
G-3 02 R13 ... ...
... .. ... ... ...
`, `
C-2 06 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
F-2 06 E40 ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
G-2 06 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... F50
`},
	// Noise
	{`
C-2 05 ... ... ...
... .. ... ... ...
C-6 04 ... ... ...
... .. ... ... ...
C-2 05 ... ... ...
... .. ... ... ...
C-6 04 ... ... ...
C-6 04 ... ... ...
C-2 05 ... ... ...
... .. ... ... ...
C-6 04 ... ... ...
... .. ... ... ...
C-2 05 ... ... ...
C-2 05 ... ... ...
C-6 04 ... ... ...
C-6 04 ... ... ...
`, `
C-2 05 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
C-4 04 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
C-2 05 ... ... ...
... .. ... ... ...
... .. ... ... ...
... .. ... ... ...
C-4 04 ... ... ...
... .. ... ... ...
C-4 04 ... ... ...
... .. ... ... B01
`},
}

// Song returns a new copy of the demo song. It plays order 0 once and then
// loops orders 1 to 3.
func Song() *gbplayer.Song {
	song := &gbplayer.Song{
		Title:        Title,
		Speed:        0x48,
		RowsPerTrack: 16,
		Orders: []gbplayer.Order{
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{1, 1, 1, 0},
			{1, 1, 1, 1},
		},
	}
	for ch := range tracks {
		for ti, text := range tracks[ch] {
			track, err := gbplayer.ParseTrack(text)
			if err != nil {
				panic(fmt.Sprintf("demo: channel %d track %d: %v", ch, ti, err))
			}
			song.SetTrack(ch, ti, track)
		}
	}

	return song
}

// Instruments returns the demo instrument table.
func Instruments() gbplayer.InstrumentTable {
	t := make(gbplayer.InstrumentTable, len(programs))
	for id, b := range programs {
		prog, err := gbplayer.NewProgramFromBytes(b)
		if err != nil {
			panic(fmt.Sprintf("demo: instrument %d: %v", id, err))
		}
		t[id] = prog
	}

	return t
}
