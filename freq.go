package gbplayer

// FreqMax is the largest value of the 11-bit frequency register.
const FreqMax = 0x7FF

var (
	// Frequency register values for each note, C-2 through B-8. A register
	// value r plays at 131072/(2048-r) Hz.
	noteFreqTable = [noteCount]uint16{
		// C-2, C#2, D-2, ..., B-2
		0x02C, 0x09D, 0x107, 0x16B, 0x1C9, 0x223, 0x277, 0x2C7, 0x312, 0x358, 0x39B, 0x3DA,
		// C-3, C#3, D-3, ..., B-3
		0x416, 0x44E, 0x483, 0x4B5, 0x4E5, 0x511, 0x53B, 0x563, 0x589, 0x5AC, 0x5CE, 0x5ED,
		// C-4, C#4, D-4, ..., B-4
		0x60B, 0x627, 0x642, 0x65B, 0x672, 0x689, 0x69E, 0x6B2, 0x6C4, 0x6D6, 0x6E7, 0x6F7,
		// C-5, C#5, D-5, ..., B-5
		0x706, 0x714, 0x721, 0x72D, 0x739, 0x744, 0x74F, 0x759, 0x762, 0x76B, 0x773, 0x77B,
		// C-6, C#6, D-6, ..., B-6
		0x783, 0x78A, 0x790, 0x797, 0x79D, 0x7A2, 0x7A7, 0x7AC, 0x7B1, 0x7B6, 0x7BA, 0x7BE,
		// C-7, C#7, D-7, ..., B-7
		0x7C1, 0x7C5, 0x7C8, 0x7CB, 0x7CE, 0x7D1, 0x7D4, 0x7D6, 0x7D9, 0x7DB, 0x7DD, 0x7DF,
		// C-8, C#8, D-8, ..., B-8
		0x7E1, 0x7E2, 0x7E4, 0x7E6, 0x7E7, 0x7E9, 0x7EA, 0x7EB, 0x7EC, 0x7ED, 0x7EE, 0x7EF,
	}

	// Noise register (NR43) values for notes C-2 through B-6, lowest pitch
	// first. Higher notes use the last entry.
	noiseNoteTable = [...]uint8{
		0xD7, 0xD6, 0xD5, 0xD4, 0xC7, 0xC6, 0xC5, 0xC4, 0xB7, 0xB6, 0xB5, 0xB4,
		0xA7, 0xA6, 0xA5, 0xA4, 0x97, 0x96, 0x95, 0x94, 0x87, 0x86, 0x85, 0x84,
		0x77, 0x76, 0x75, 0x74, 0x67, 0x66, 0x65, 0x64, 0x57, 0x56, 0x55, 0x54,
		0x47, 0x46, 0x45, 0x44, 0x37, 0x36, 0x35, 0x34, 0x27, 0x26, 0x25, 0x24,
		0x17, 0x16, 0x15, 0x14, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x00,
	}
)

func clampNote(i int) int {
	if i < 0 {
		return 0
	}
	if i >= noteCount {
		return noteCount - 1
	}
	return i
}

func noteFreq(i int) int {
	return int(noteFreqTable[clampNote(i)])
}

// noiseFreq returns the noise register value for a note index.
func noiseFreq(i int) uint8 {
	if i < 0 {
		i = 0
	} else if i >= len(noiseNoteTable) {
		i = len(noiseNoteTable) - 1
	}
	return noiseNoteTable[i]
}

type modType int

const (
	modNone modType = iota
	modPortaUp
	modPortaDown
	modTonePorta
	modNoteSlide
)

// FrequencyControl is the pitch state machine for a melodic channel. Each
// frame Step combines the current note with the portamento, arpeggio, tune
// and vibrato effects, in that order, into a frequency register value.
type FrequencyControl struct {
	note int // index into noteFreqTable
	freq int // current frequency with portamento applied
	tune int

	mod        modType
	rate       int
	target     int // tone porta and note slide destination
	targetNote int

	arpOn    bool
	arp      [3]int // semitone offset per phase, arp[0] is always 0
	arpPhase int

	vibSpeed        int
	vibDepth        int
	vibPhase        int // 0 to 63
	vibDelay        int
	vibDelayCounter int
}

// Reset returns the control to its initial state, with no note and no
// effects.
func (fc *FrequencyControl) Reset() {
	*fc = FrequencyControl{}
}

// SetNote changes the note immediately. The arpeggio and vibrato restart and
// any note slide in progress is abandoned.
func (fc *FrequencyControl) SetNote(n Note) {
	fc.note = clampNote(n.index())
	fc.freq = noteFreq(fc.note)
	fc.target = fc.freq
	fc.targetNote = fc.note
	fc.arpPhase = 0
	fc.vibPhase = 0
	fc.vibDelayCounter = fc.vibDelay
	if fc.mod == modNoteSlide {
		fc.mod = modNone
	}
}

// PortaUp slides the frequency up by rate each frame. A rate of 0 stops the
// slide.
func (fc *FrequencyControl) PortaUp(rate uint8) {
	fc.setSlide(modPortaUp, rate)
}

// PortaDown slides the frequency down by rate each frame. A rate of 0 stops
// the slide.
func (fc *FrequencyControl) PortaDown(rate uint8) {
	fc.setSlide(modPortaDown, rate)
}

// TonePorta enables automatic portamento, notes given to SetPortaTarget are
// slid to at rate per frame. A rate of 0 disables it.
func (fc *FrequencyControl) TonePorta(rate uint8) {
	fc.setSlide(modTonePorta, rate)
}

func (fc *FrequencyControl) setSlide(mod modType, rate uint8) {
	if rate == 0 {
		if fc.mod == mod {
			fc.mod = modNone
		}
		return
	}
	fc.mod = mod
	fc.rate = int(rate)
}

// TonePortaActive reports whether new notes slide rather than retrigger.
func (fc *FrequencyControl) TonePortaActive() bool {
	return fc.mod == modTonePorta
}

// SetPortaTarget sets the tone portamento destination. Notes outside the
// table clamp to its bounds.
func (fc *FrequencyControl) SetPortaTarget(n Note) {
	fc.targetNote = clampNote(n.index())
	fc.target = noteFreq(fc.targetNote)
}

// ApplyPortamento slides from the current frequency to target at rate
// frequency units per frame.
func (fc *FrequencyControl) ApplyPortamento(target Note, rate uint8) {
	fc.TonePorta(rate)
	fc.SetPortaTarget(target)
}

// NoteSlide slides to a note param&0xF semitones away, at param>>4 units per
// frame. The note becomes the current note when the slide completes.
func (fc *FrequencyControl) NoteSlide(up bool, param uint8) {
	speed := int(param >> 4)
	semis := int(param & 0xF)
	if speed == 0 || semis == 0 {
		return
	}
	if !up {
		semis = -semis
	}
	fc.targetNote = clampNote(fc.note + semis)
	fc.target = noteFreq(fc.targetNote)
	fc.rate = speed
	fc.mod = modNoteSlide
}

// SetArpeggio cycles the note with note+x and note+y, where param is xy.
// A param of 0 turns the arpeggio off.
func (fc *FrequencyControl) SetArpeggio(param uint8) {
	if param == 0 {
		fc.ClearArpeggio()
		return
	}
	if !fc.arpOn {
		fc.arpPhase = 0
	}
	fc.arpOn = true
	fc.arp = [3]int{0, int(param >> 4), int(param & 0xF)}
}

// ClearArpeggio turns the arpeggio off.
func (fc *FrequencyControl) ClearArpeggio() {
	fc.arpOn = false
	fc.arpPhase = 0
}

// SetVibrato sets the vibrato speed (param>>4) and depth (param&0xF). A depth
// of 0 turns vibrato off.
func (fc *FrequencyControl) SetVibrato(param uint8) {
	if fc.vibDepth == 0 {
		fc.vibPhase = 0
	}
	fc.vibSpeed = int(param >> 4)
	fc.vibDepth = int(param & 0xF)
}

// SetVibratoDelay sets the number of frames after a note triggers before the
// vibrato starts.
func (fc *FrequencyControl) SetVibratoDelay(frames uint8) {
	fc.vibDelay = int(frames)
}

// SetTune offsets the frequency by param-0x80.
func (fc *FrequencyControl) SetTune(param uint8) {
	fc.tune = int(param) - 0x80
}

// Note returns the current note as a table index.
func (fc *FrequencyControl) Note() int {
	return fc.note
}

// Step advances the effects by one frame and returns the frequency register
// value. offset is a relative pitch in semitones from the instrument.
func (fc *FrequencyControl) Step(offset int8) uint16 {
	switch fc.mod {
	case modPortaUp:
		fc.freq += fc.rate
		if fc.freq > FreqMax {
			fc.freq = FreqMax
		}
	case modPortaDown:
		fc.freq -= fc.rate
		if fc.freq < 0 {
			fc.freq = 0
		}
	case modTonePorta, modNoteSlide:
		if fc.freq < fc.target {
			fc.freq += fc.rate
			if fc.freq > fc.target {
				fc.freq = fc.target
			}
		} else if fc.freq > fc.target {
			fc.freq -= fc.rate
			if fc.freq < fc.target {
				fc.freq = fc.target
			}
		}
		if fc.freq == fc.target {
			fc.note = fc.targetNote
			if fc.mod == modNoteSlide {
				fc.mod = modNone
			}
		}
	}

	freq := fc.freq

	semis := int(offset)
	if fc.arpOn {
		semis += fc.arp[fc.arpPhase]
		fc.arpPhase++
		if fc.arpPhase == len(fc.arp) {
			fc.arpPhase = 0
		}
	}
	if semis != 0 {
		freq += noteFreq(fc.note+semis) - noteFreq(fc.note)
	}

	freq += fc.tune

	// The delay runs from the note trigger, whether or not vibrato is on yet
	if fc.vibDelayCounter > 0 {
		fc.vibDelayCounter--
	} else if fc.vibDepth > 0 {
		freq += vibratoTriangle(fc.vibPhase) * fc.vibDepth / 16
		fc.vibPhase = (fc.vibPhase + fc.vibSpeed) & 63
	}

	if freq < 0 {
		freq = 0
	} else if freq > FreqMax {
		freq = FreqMax
	}
	return uint16(freq)
}

// pos runs from 0 to 63, the result from -16 to 16.
func vibratoTriangle(pos int) int {
	switch {
	case pos < 16:
		return pos
	case pos < 48:
		return 32 - pos
	default:
		return pos - 64
	}
}
