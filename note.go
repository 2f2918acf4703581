package gbplayer

// NoteState is the state of a channel's note.
type NoteState int

const (
	NoteIdle      NoteState = iota // nothing played since reset
	NoteTriggered                  // note started this frame
	NoteSustained                  // note is sounding
	NoteCutOff                     // note was cut
	NoteReleased                   // instrument finished and the channel auto released
)

func (s NoteState) String() string {
	switch s {
	case NoteIdle:
		return "idle"
	case NoteTriggered:
		return "triggered"
	case NoteSustained:
		return "sustained"
	case NoteCutOff:
		return "cut"
	case NoteReleased:
		return "released"
	}
	return "unknown"
}

// NoteAction is what NoteControl.Step asks the channel to do this frame.
type NoteAction int

const (
	NoteActionNone NoteAction = iota
	NoteActionTrigger
	NoteActionCut
)

// NoteControl schedules note triggers and cuts for a channel. Both can be
// delayed by a number of frames, during which the channel keeps its previous
// sound.
type NoteControl struct {
	state NoteState

	note       Note
	instrument int

	triggerPending bool
	triggerIn      int
	pendingNote    Note
	pendingIns     int

	cutPending bool
	cutIn      int
}

// Reset puts the control back in the idle state with nothing scheduled.
func (nc *NoteControl) Reset() {
	*nc = NoteControl{}
}

// Trigger schedules note to play with instrument after delay frames. A delay
// of 0 triggers on the next call to Step. Any pending cut is cancelled.
func (nc *NoteControl) Trigger(note Note, instrument int, delay uint8) {
	nc.triggerPending = true
	nc.triggerIn = int(delay)
	nc.pendingNote = note
	nc.pendingIns = instrument
	nc.cutPending = false
}

// Cut schedules the note to be silenced after the given number of frames.
func (nc *NoteControl) Cut(after uint8) {
	nc.cutPending = true
	nc.cutIn = int(after)
}

// Release marks the sounding note as released.
func (nc *NoteControl) Release() {
	if nc.Playing() {
		nc.state = NoteReleased
	}
}

// Step advances the scheduled trigger and cut by one frame. If both expire on
// the same frame the cut wins.
func (nc *NoteControl) Step() NoteAction {
	action := NoteActionNone

	if nc.state == NoteTriggered {
		nc.state = NoteSustained
	}

	if nc.triggerPending {
		if nc.triggerIn == 0 {
			nc.triggerPending = false
			nc.note = nc.pendingNote
			nc.instrument = nc.pendingIns
			nc.state = NoteTriggered
			action = NoteActionTrigger
		} else {
			nc.triggerIn--
		}
	}

	if nc.cutPending {
		if nc.cutIn == 0 {
			nc.cutPending = false
			nc.state = NoteCutOff
			action = NoteActionCut
		} else {
			nc.cutIn--
		}
	}

	return action
}

// State returns the current note state.
func (nc *NoteControl) State() NoteState {
	return nc.state
}

// Playing reports whether a note is sounding.
func (nc *NoteControl) Playing() bool {
	return nc.state == NoteTriggered || nc.state == NoteSustained
}

// Note returns the last triggered note and its instrument.
func (nc *NoteControl) Note() (Note, int) {
	return nc.note, nc.instrument
}
