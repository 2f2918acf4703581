package gbplayer

import "testing"

// testInstruments are available to every test song.
//
//	1: two frame retrigger then hold
//	2: duty cycle loop, 2 frames then 3 frames
//	3: empty program
var testInstruments = InstrumentTable{
	1: {
		{Duration: 2, Ctrl: CtrlRetrigger | CtrlSetEnvelope, EnvSettings: 0xA0},
		{Duration: 1, Ctrl: CtrlSetEnvelope, EnvSettings: 0x80},
	},
	2: {
		{Duration: 2, Ctrl: CtrlSetTimbre, Settings: 1},
		{Duration: 3, Ctrl: CtrlSetTimbre | CtrlLoop, Settings: 3},
	},
	3: {},
}

// newPlayerWithTestPattern returns a player for a single order song made from
// pattern. Each row is a list of channel columns, see convertTestPatternData.
func newPlayerWithTestPattern(pattern [][]string, t *testing.T) *Player {
	t.Helper()
	return newPlayerWithTestOrders([][][]string{pattern}, t)
}

// newPlayerWithTestOrders returns a player where order i plays track i on every
// channel. All patterns must have the same number of rows.
func newPlayerWithTestOrders(patterns [][][]string, t *testing.T) *Player {
	t.Helper()

	player, err := NewPlayer(newTestSong(patterns), testInstruments, 0, 0)
	if err != nil {
		t.Fatalf("Could not create test player: %v", err)
	}
	return player
}

func newTestSong(patterns [][][]string) *Song {
	song := &Song{
		Title:        "testsong",
		Speed:        0x20,
		RowsPerTrack: len(patterns[0]),
	}
	for i, pattern := range patterns {
		tracks := convertTestPatternData(pattern)
		for ch := range tracks {
			song.SetTrack(ch, i, tracks[ch])
		}
		o := uint8(i)
		song.Orders = append(song.Orders, Order{o, o, o, o})
	}
	return song
}

type position struct {
	order, row int
}

// visitRows steps the player until n rows have started and returns the
// position of each.
func visitRows(plr *Player, n int) []position {
	var visited []position
	for len(visited) < n {
		if plr.timer.Active() {
			visited = append(visited, position{plr.CurrentOrder(), plr.CurrentRow()})
		}
		if plr.Step() {
			break
		}
	}
	return visited
}

// Takes input of the form
// C-4 01 E57 ... ...  - play C-4 with instrument 1 and set envelope 57
// ... .. 047          - arpeggio, no note
// --- .. ...          - note cut
// <empty string>      - skip
func convertTestPatternData(pattern [][]string) [ChannelCount]Track {
	var tracks [ChannelCount]Track
	for ch := range tracks {
		tracks[ch] = make(Track, len(pattern))
	}

	for r, row := range pattern {
		for ch, col := range row {
			if col == "" {
				continue
			}

			cell, err := ParseRow(col)
			if err != nil {
				panic(err)
			}
			tracks[ch][r] = cell
		}
	}

	return tracks
}

func decodeNote(note string) Note {
	n, err := ParseNote(note)
	if err != nil {
		panic(err)
	}
	return n
}

// Advances to the next row, will have processed the first frame of the next
// row on return.
func advanceToNextRow(plr *Player) {
	old := plr.CurrentRow()
	oldOrder := plr.CurrentOrder()
	for old == plr.CurrentRow() && oldOrder == plr.CurrentOrder() {
		if plr.Step() {
			return
		}
	}
	plr.Step()
}

// stepFrames runs n frames and returns the frequency of channel ch for each.
func stepFrames(plr *Player, ch, n int) []uint16 {
	freqs := make([]uint16, n)
	for i := range freqs {
		plr.Step()
		freqs[i] = plr.Output(ch).Frequency
	}
	return freqs
}

func freqOf(note string) uint16 {
	return noteFreqTable[decodeNote(note).index()]
}

func equalFreqs(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
