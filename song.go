package gbplayer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ChannelCount is the number of sound channels. Channels 0 and 1 are pulse
// channels, 2 is the wave channel and 3 is the noise channel.
const ChannelCount = 4

var (
	ErrNilSong         = errors.New("nil song")
	ErrNoOrders        = errors.New("song has no orders")
	ErrNoRows          = errors.New("song has no rows per track")
	ErrInvalidPosition = errors.New("invalid song position")
	ErrInvalidRow      = errors.New("invalid row")
)

// Note is a pitch in pattern data. 0 means no note, 1 is C-2 and 84 is B-8.
type Note uint8

const (
	NoteNone Note = 0
	NoteCut  Note = 0xFF // silence the channel

	noteFirst Note = 1
	noteLast  Note = noteFirst + noteCount - 1
	noteCount      = 84
)

// Literal notes
var noteNames = []string{
	"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-",
}

// NoteFor returns the note for a semitone (0 = C) and octave (2 to 8).
func NoteFor(semitone, octave int) Note {
	return Note((octave-2)*12 + semitone + int(noteFirst))
}

// Valid reports whether n is a playable pitch.
func (n Note) Valid() bool {
	return n >= noteFirst && n <= noteLast
}

// index returns n as an index into the note tables.
func (n Note) index() int {
	return int(n - noteFirst)
}

// String returns the note pitch in name-octave form, e.g. C-4, A#2.
func (n Note) String() string {
	switch {
	case n == NoteNone:
		return "..."
	case n == NoteCut:
		return "---"
	case n.Valid():
		i := n.index()
		return fmt.Sprintf("%s%d", noteNames[i%12], i/12+2)
	default:
		return "???"
	}
}

// ParseNote converts the pattern form of a note, e.g. "C-4", "A#2", "---" or
// "...", into a Note.
func ParseNote(s string) (Note, error) {
	switch s {
	case "...", "":
		return NoteNone, nil
	case "---":
		return NoteCut, nil
	}
	if len(s) != 3 || s[2] < '2' || s[2] > '8' {
		return NoteNone, fmt.Errorf("note %q: %w", s, ErrInvalidRow)
	}
	for i, name := range noteNames {
		if name == s[:2] {
			return NoteFor(i, int(s[2]-'0')), nil
		}
	}
	return NoteNone, fmt.Errorf("note %q: %w", s, ErrInvalidRow)
}

// Row is one line of pattern data for one channel.
type Row struct {
	Note       Note
	Instrument int // 1-based, 0 if no instrument
	Effects    [EffectsPerRow]Effect
}

// String returns a formatted string of the row
func (r *Row) String() string {
	ins := ".."
	if r.Instrument > 0 {
		ins = fmt.Sprintf("%02X", r.Instrument)
	}
	return fmt.Sprintf("%s %s %s %s %s", r.Note, ins, r.Effects[0], r.Effects[1], r.Effects[2])
}

// ParseRow converts the pattern form of a row back into a Row. Trailing
// columns may be left out, "C-4" and "C-4 01 ... ... ..." are the same row.
func ParseRow(s string) (Row, error) {
	var r Row
	fields := strings.Fields(s)
	if len(fields) > 2+EffectsPerRow {
		return r, fmt.Errorf("%q: too many columns: %w", s, ErrInvalidRow)
	}
	if len(fields) == 0 {
		return r, nil
	}

	var err error
	if r.Note, err = ParseNote(fields[0]); err != nil {
		return r, err
	}
	if len(fields) > 1 && fields[1] != ".." {
		ins, err := strconv.ParseUint(fields[1], 16, 8)
		if err != nil {
			return r, fmt.Errorf("instrument %q: %w", fields[1], ErrInvalidRow)
		}
		r.Instrument = int(ins)
	}
	for i := 2; i < len(fields); i++ {
		if r.Effects[i-2], err = ParseEffect(fields[i]); err != nil {
			return r, err
		}
	}

	return r, nil
}

// ParseTrack parses one row per line, see ParseRow. Blank lines are empty rows.
func ParseTrack(s string) (Track, error) {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	t := make(Track, len(lines))
	for i, line := range lines {
		r, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		t[i] = r
	}
	return t, nil
}

// Track is a sequence of rows for one channel.
type Track []Row

// Order selects one track per channel.
type Order [ChannelCount]uint8

// Song is the pattern data played by a Player. The owning application may edit
// it between calls to Player.Step, the player re-validates its position on
// every row.
type Song struct {
	Title        string
	Speed        Speed // initial speed, DefaultSpeed if 0
	RowsPerTrack int
	Orders       []Order

	// Tracks[ch][i] is track i for channel ch. Missing tracks, or rows past
	// the end of a track, read as empty rows.
	Tracks [ChannelCount][]Track
}

var emptyRow Row

// Validate checks the song can be played.
func (s *Song) Validate() error {
	if s == nil {
		return ErrNilSong
	}
	if len(s.Orders) == 0 {
		return ErrNoOrders
	}
	if s.RowsPerTrack <= 0 {
		return ErrNoRows
	}
	return nil
}

// rowAt returns the row data for a channel at a song position. It never fails,
// positions without data read as an empty row.
func (s *Song) rowAt(order, ch, row int) *Row {
	if order < 0 || order >= len(s.Orders) || row < 0 {
		return &emptyRow
	}
	ti := int(s.Orders[order][ch])
	if ti >= len(s.Tracks[ch]) {
		return &emptyRow
	}
	track := s.Tracks[ch][ti]
	if row >= len(track) {
		return &emptyRow
	}
	return &track[row]
}

// SetTrack stores rows as track index ti for channel ch, growing the track
// list as needed.
func (s *Song) SetTrack(ch, ti int, rows Track) {
	for len(s.Tracks[ch]) <= ti {
		s.Tracks[ch] = append(s.Tracks[ch], nil)
	}
	s.Tracks[ch][ti] = rows
}

var dumpW io.Writer = nil

// SetDumpWriter sets a writer that receives a trace of song position changes.
// Pass nil to turn tracing off.
func SetDumpWriter(w io.Writer) { dumpW = w }

func dumpf(format string, a ...interface{}) {
	if dumpW == nil {
		return
	}

	fmt.Fprintf(dumpW, format, a...)
}
