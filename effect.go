package gbplayer

import (
	"errors"
	"fmt"
	"strconv"
)

// EffectType identifies an effect command in a row.
type EffectType uint8

const (
	EffectNone EffectType = iota

	// Pattern effects, these act once per row on the whole song.
	EffectJump         // Bxx jump to order xx
	EffectHalt         // C00 stop playback
	EffectPatternBreak // Dxx next order, starting at row xx
	EffectSetSpeed     // Fxx set speed (Q4.4)

	// Frequency effects
	EffectArpeggio      // 0xy
	EffectPortaUp       // 1xx
	EffectPortaDown     // 2xx
	EffectTonePorta     // 3xx, target is the row's note
	EffectVibrato       // 4xy x = speed, y = depth
	EffectVibratoDelay  // 5xx
	EffectTune          // Pxx 0x80 = no tuning
	EffectNoteSlideUp   // Qxy x = speed, y = semitones
	EffectNoteSlideDown // Rxy x = speed, y = semitones

	// Settings effects
	EffectSetEnvelope // Exx
	EffectSetTimbre   // Vxx
	EffectSetPanning  // Ixy x = left, y = right
	EffectNoteDelay   // Gxx
	EffectNoteCut     // Sxx

	effectCount
)

// EffectsPerRow is the number of effect columns in a row.
const EffectsPerRow = 3

var ErrInvalidEffect = errors.New("invalid effect")

// Effect letters as shown in pattern data, indexed by EffectType.
var effectLetters = [effectCount]byte{
	EffectNone:          '.',
	EffectJump:          'B',
	EffectHalt:          'C',
	EffectPatternBreak:  'D',
	EffectSetSpeed:      'F',
	EffectArpeggio:      '0',
	EffectPortaUp:       '1',
	EffectPortaDown:     '2',
	EffectTonePorta:     '3',
	EffectVibrato:       '4',
	EffectVibratoDelay:  '5',
	EffectTune:          'P',
	EffectNoteSlideUp:   'Q',
	EffectNoteSlideDown: 'R',
	EffectSetEnvelope:   'E',
	EffectSetTimbre:     'V',
	EffectSetPanning:    'I',
	EffectNoteDelay:     'G',
	EffectNoteCut:       'S',
}

// Effect is an effect command and its parameter.
type Effect struct {
	Type  EffectType
	Param uint8
}

// IsPattern reports whether e acts on the whole song rather than on a single
// channel.
func (e Effect) IsPattern() bool {
	switch e.Type {
	case EffectJump, EffectHalt, EffectPatternBreak, EffectSetSpeed:
		return true
	}
	return false
}

// String returns the effect in pattern form, e.g. "E57", or "..." when empty.
func (e Effect) String() string {
	if e.Type == EffectNone || e.Type >= effectCount {
		return "..."
	}
	return fmt.Sprintf("%c%02X", effectLetters[e.Type], e.Param)
}

// ParseEffect converts the pattern form of an effect, e.g. "B02", back into an
// Effect. "..." and the empty string are the empty effect.
func ParseEffect(s string) (Effect, error) {
	if s == "" || s == "..." {
		return Effect{}, nil
	}
	if len(s) != 3 {
		return Effect{}, fmt.Errorf("%q: %w", s, ErrInvalidEffect)
	}

	var e Effect
	for et := EffectJump; et < effectCount; et++ {
		if effectLetters[et] == s[0] {
			e.Type = et
			break
		}
	}
	if e.Type == EffectNone {
		return Effect{}, fmt.Errorf("%q: unknown command: %w", s, ErrInvalidEffect)
	}

	param, err := strconv.ParseUint(s[1:], 16, 8)
	if err != nil {
		return Effect{}, fmt.Errorf("%q: %w", s, ErrInvalidEffect)
	}
	e.Param = uint8(param)

	return e, nil
}
