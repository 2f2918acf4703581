package gbplayer

import (
	"fmt"
	"reflect"

	clone "github.com/huandu/go-clone/generic"
)

// ChannelKind tells channels apart by capability. The noise channel has no
// frequency control, its note selects a noise register value instead.
type ChannelKind int

const (
	ChannelPulse ChannelKind = iota
	ChannelWave
	ChannelNoise
)

var channelKinds = [ChannelCount]ChannelKind{ChannelPulse, ChannelPulse, ChannelWave, ChannelNoise}

func (k ChannelKind) melodic() bool {
	return k != ChannelNoise
}

func (k ChannelKind) clampTimbre(t uint8) uint8 {
	max := uint8(3)
	if k == ChannelNoise {
		max = 1
	}
	if t > max {
		return max
	}
	return t
}

const (
	defaultEnvelope = 0xF0 // full volume, no envelope sweep
	defaultTimbre   = 2
	panBoth         = CtrlPanLeft | CtrlPanRight
)

type patternCommand int

const (
	commandNone patternCommand = iota
	commandNext
	commandJump
)

// ChannelOutput holds the register values of a channel for the current frame.
type ChannelOutput struct {
	Frequency uint16 // frequency register, channels 1 to 3
	Noise     uint8  // noise register, channel 4
	Envelope  uint8
	Timbre    uint8
	Retrigger bool // the envelope restarts this frame
	Playing   bool
}

type channel struct {
	kind ChannelKind

	nc NoteControl
	fc FrequencyControl
	ir InstrumentRuntime

	instrument  int // instrument used by the next note
	envelope    uint8
	timbre      uint8
	panning     uint8 // CtrlPanLeft | CtrlPanRight
	noiseNote   int
	silenced    bool // bound to an empty program
	autoRelease bool
	clearArp    bool // the pending trigger turns the arpeggio off

	out ChannelOutput
}

func (c *channel) audible() bool {
	return c.nc.Playing() && !c.silenced
}

// Player plays a Song on the four channels, one frame per call to Step. A
// Player plays one song for its entire lifetime and loops back to the first
// order after the last one. It stops only when halted.
//
// Player is not safe for concurrent use. Step does not allocate.
type Player struct {
	*Song
	instruments Instruments

	timer Timer

	// These next fields track player position in the song
	order        int
	row          int
	ordersPlayed int

	command      patternCommand
	commandParam int

	halted       bool
	panningDirty bool
	panningMask  uint8
	mute         uint

	// Maximum number of orders to play before halting, -1 to disable limit
	PlayOrderLimit int

	channels [ChannelCount]channel
}

// ChannelNoteData represents the note data for a channel
type ChannelNoteData struct {
	Note       string // 'A-4', 'C#3', ...
	Instrument int    // 0 if no instrument
	Effects    [EffectsPerRow]string
}

// String returns a formatted string of the note data, in the form read by
// ParseRow.
func (c *ChannelNoteData) String() string {
	ins := ".."
	if c.Instrument > 0 {
		ins = fmt.Sprintf("%02X", c.Instrument)
	}
	return fmt.Sprintf("%s %s %s %s %s", c.Note, ins, c.Effects[0], c.Effects[1], c.Effects[2])
}

// ChannelState holds the current state of a channel
type ChannelState struct {
	Note       Note
	Instrument int
	State      NoteState
	Output     ChannelOutput

	// Position in the instrument program
	Instruction int
	Remaining   int
}

// PlayerState holds player position and channel state
type PlayerState struct {
	Order   int
	Row     int
	Speed   Speed
	Halted  bool
	Panning uint8

	Notes    []ChannelNoteData
	Channels []ChannelState
}

// Snapshot is a deep copy of the player's position and channel state.
type Snapshot struct {
	Order  int
	Row    int
	Speed  Speed
	Halted bool

	channels [ChannelCount]channel
}

// ChannelEqual reports whether channel ch is in the same state in both
// snapshots.
func (s *Snapshot) ChannelEqual(other *Snapshot, ch int) bool {
	return reflect.DeepEqual(s.channels[ch], other.channels[ch])
}

// NewPlayer returns a Player for song, ready to start at the given order and
// row. instruments may be nil if the song uses no instruments.
func NewPlayer(song *Song, instruments Instruments, order, row int) (*Player, error) {
	if err := song.Validate(); err != nil {
		return nil, err
	}
	if order < 0 || order >= len(song.Orders) || row < 0 || row >= song.RowsPerTrack {
		return nil, fmt.Errorf("order %d row %d: %w", order, row, ErrInvalidPosition)
	}
	if instruments == nil {
		instruments = InstrumentTable(nil)
	}

	speed := song.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}

	p := &Player{
		Song:           song,
		instruments:    instruments,
		timer:          NewTimer(speed),
		order:          order,
		row:            row,
		PlayOrderLimit: -1,
		panningDirty:   true,
	}
	for ch := range p.channels {
		p.resetChannel(ch)
	}

	dumpf("Player: %q at order %d row %d, speed %02X\n", song.Title, order, row, uint8(p.timer.Speed()))

	return p, nil
}

// Speed returns the current speed.
func (p *Player) Speed() Speed {
	return p.timer.Speed()
}

// CurrentOrder returns the order being played.
func (p *Player) CurrentOrder() int {
	return p.order
}

// CurrentRow returns the row being played.
func (p *Player) CurrentRow() int {
	return p.row
}

// Halted reports whether the player has stopped.
func (p *Player) Halted() bool {
	return p.halted
}

// Halt stops the player. Subsequent calls to Step do nothing.
func (p *Player) Halt() {
	p.halted = true
}

// SetMute sets the bitmask of muted channels, channel 1 in LSB. Muted channels
// are removed from the panning mask.
func (p *Player) SetMute(mask uint) {
	p.mute = mask
	p.panningDirty = true
}

// SetAutoRelease sets whether a channel silences itself when its instrument
// program ends instead of holding the last instruction.
func (p *Player) SetAutoRelease(ch int, on bool) {
	if ch < 0 || ch >= ChannelCount {
		return
	}
	p.channels[ch].autoRelease = on
}

// Output returns the register values of channel ch for the last frame.
func (p *Player) Output(ch int) ChannelOutput {
	return p.channels[ch].out
}

// Panning returns the panning register value, right enables in bits 0-3 and
// left enables in bits 4-7.
func (p *Player) Panning() uint8 {
	return p.panningMask
}

// Reload resets a channel to idle, leaving the other channels alone.
func (p *Player) Reload(ch int) {
	if ch < 0 || ch >= ChannelCount {
		return
	}
	p.resetChannel(ch)
	p.panningDirty = true
}

// SeekTo moves the player to the start of a row and silences every channel.
// A halted player resumes from the new position.
func (p *Player) SeekTo(order, row int) error {
	if order < 0 || order >= len(p.Orders) || row < 0 || row >= p.RowsPerTrack {
		return fmt.Errorf("order %d row %d: %w", order, row, ErrInvalidPosition)
	}
	p.order = order
	p.row = row
	p.command = commandNone
	p.halted = false
	p.timer.Reset()
	for ch := range p.channels {
		p.resetChannel(ch)
	}
	p.panningDirty = true

	return nil
}

// resetChannel puts a channel back to idle. The auto release setting is kept.
func (p *Player) resetChannel(ch int) {
	c := &p.channels[ch]
	c.kind = channelKinds[ch]
	c.nc.Reset()
	c.fc.Reset()
	c.ir.Unbind()
	c.instrument = 0
	c.envelope = defaultEnvelope
	c.timbre = c.kind.clampTimbre(defaultTimbre)
	c.panning = panBoth
	c.noiseNote = 0
	c.silenced = false
	c.clearArp = false
	c.out = ChannelOutput{}
}

// Step advances the player by one frame and returns true if the player is
// halted.
func (p *Player) Step() bool {
	if p.halted {
		return true
	}

	if p.timer.Active() {
		if p.setRows() {
			p.halted = true
			if dumpW != nil {
				dumpf("Halt: order %d row %d\n", p.order, p.row)
			}
			return true
		}
	}

	for ch := range p.channels {
		p.update(ch)
	}

	if p.panningDirty {
		p.updatePanning()
	}

	if p.timer.Tick() {
		p.nextRow()
	}

	// The order limit may have halted the player
	return p.halted
}

// setRows reads the current row for every channel. It returns true if the
// player should halt.
func (p *Player) setRows() bool {
	// The song may have been edited since the last row
	if p.Song.Validate() != nil {
		return true
	}
	if p.order >= len(p.Orders) {
		p.order = len(p.Orders) - 1
	}
	if p.row >= p.RowsPerTrack {
		p.row = p.RowsPerTrack - 1
	}

	// Pattern effects. The first jump or break wins, Halt stops before any
	// track data is applied.
	latched := false
	for ch := 0; ch < ChannelCount; ch++ {
		r := p.rowAt(p.order, ch, p.row)
		for _, e := range r.Effects {
			if !e.IsPattern() {
				continue
			}
			switch e.Type {
			case EffectHalt:
				return true
			case EffectSetSpeed:
				p.timer.SetSpeed(Speed(e.Param))
			case EffectJump:
				if !latched {
					latched = true
					p.command = commandJump
					p.commandParam = int(e.Param)
				}
			case EffectPatternBreak:
				if !latched {
					latched = true
					p.command = commandNext
					p.commandParam = int(e.Param)
				}
			}
		}
	}

	for ch := range p.channels {
		p.setTrackRow(ch, p.rowAt(p.order, ch, p.row))
	}

	return false
}

func (p *Player) setTrackRow(ch int, r *Row) {
	c := &p.channels[ch]
	melodic := c.kind.melodic()

	var delay uint8
	tonePorta := melodic && c.fc.TonePortaActive()
	arp := false
	for _, e := range r.Effects {
		switch e.Type {
		case EffectNoteDelay:
			delay = e.Param
		case EffectTonePorta:
			tonePorta = melodic && e.Param != 0
		case EffectArpeggio:
			arp = e.Param != 0
		}
	}

	if r.Instrument > 0 {
		c.instrument = r.Instrument
	}

	// With tone portamento a new note on a sounding channel becomes the slide
	// target instead of being triggered.
	slide := r.Note.Valid() && tonePorta && c.nc.Playing()

	switch {
	case r.Note == NoteCut:
		c.nc.Cut(delay)
	case slide:
		c.fc.SetPortaTarget(r.Note)
	case r.Note.Valid():
		// A new note clears the arpeggio when it triggers, unless this row
		// sets it again
		c.clearArp = melodic && !arp
		c.nc.Trigger(r.Note, c.instrument, delay)
	}

	for _, e := range r.Effects {
		p.processTrackEffect(c, e)
	}
}

func (p *Player) processTrackEffect(c *channel, e Effect) {
	switch e.Type {
	case EffectSetEnvelope:
		c.envelope = e.Param
		return
	case EffectSetTimbre:
		c.timbre = c.kind.clampTimbre(e.Param)
		return
	case EffectSetPanning:
		var pan uint8
		if e.Param&0xF0 != 0 {
			pan |= CtrlPanLeft
		}
		if e.Param&0x0F != 0 {
			pan |= CtrlPanRight
		}
		c.panning = pan
		p.panningDirty = true
		return
	case EffectNoteCut:
		c.nc.Cut(e.Param)
		return
	}

	if !c.kind.melodic() {
		return
	}

	fc := &c.fc
	switch e.Type {
	case EffectArpeggio:
		fc.SetArpeggio(e.Param)
	case EffectPortaUp:
		fc.PortaUp(e.Param)
	case EffectPortaDown:
		fc.PortaDown(e.Param)
	case EffectTonePorta:
		fc.TonePorta(e.Param)
	case EffectVibrato:
		fc.SetVibrato(e.Param)
	case EffectVibratoDelay:
		fc.SetVibratoDelay(e.Param)
	case EffectTune:
		fc.SetTune(e.Param)
	case EffectNoteSlideUp:
		fc.NoteSlide(true, e.Param)
	case EffectNoteSlideDown:
		fc.NoteSlide(false, e.Param)
	}
}

// update steps a channel's note control, instrument and frequency control and
// stores the resulting register values.
func (p *Player) update(ch int) {
	c := &p.channels[ch]
	melodic := c.kind.melodic()
	c.out.Retrigger = false

	switch c.nc.Step() {
	case NoteActionTrigger:
		note, ins := c.nc.Note()
		if prog, ok := p.instruments.Program(ins); ok && ins > 0 {
			c.ir.Bind(prog)
			c.silenced = len(prog) == 0
		} else {
			c.ir.Unbind()
			c.silenced = false
		}
		if melodic {
			if c.clearArp {
				c.fc.ClearArpeggio()
			}
			c.fc.SetNote(note)
		} else {
			c.noiseNote = note.index()
		}
		c.clearArp = false
		c.out.Retrigger = true
		p.panningDirty = true
	case NoteActionCut:
		p.panningDirty = true
	}

	if !c.nc.Playing() {
		c.silence()
		return
	}

	var offset int8
	if c.ir.Bound() {
		ins := c.ir.Step()
		if ins.Silenced {
			c.silence()
			return
		}
		if ins.Ctrl&CtrlSetEnvelope != 0 {
			c.envelope = ins.EnvSettings
		}
		if ins.Ctrl&CtrlSetTimbre != 0 {
			c.timbre = c.kind.clampTimbre(ins.Settings)
		}
		if ins.Ctrl&CtrlSetPanning != 0 {
			if pan := ins.Ctrl & panBoth; pan != c.panning {
				c.panning = pan
				p.panningDirty = true
			}
		}
		if ins.Retrigger {
			c.out.Retrigger = true
		}
		if ins.Finished && c.autoRelease {
			c.nc.Release()
			c.silence()
			p.panningDirty = true
			return
		}
		offset = ins.Note
	}

	c.out.Playing = true
	c.out.Envelope = c.envelope
	c.out.Timbre = c.timbre
	if melodic {
		c.out.Frequency = c.fc.Step(offset)
	} else {
		c.out.Noise = noiseFreq(c.noiseNote + int(offset))
	}
}

func (c *channel) silence() {
	c.out.Playing = false
	c.out.Envelope = 0
	c.out.Retrigger = false
}

func (p *Player) updatePanning() {
	var mask uint8
	for ch := range p.channels {
		c := &p.channels[ch]
		if !c.audible() || p.mute&(1<<ch) != 0 {
			continue
		}
		if c.panning&CtrlPanRight != 0 {
			mask |= 1 << ch
		}
		if c.panning&CtrlPanLeft != 0 {
			mask |= 0x10 << ch
		}
	}
	p.panningMask = mask
	p.panningDirty = false
}

// nextRow moves the position to the row played at the next row boundary.
func (p *Player) nextRow() {
	switch p.command {
	case commandJump:
		p.order = p.commandParam
		if p.order >= len(p.Orders) {
			p.order = len(p.Orders) - 1
		}
		p.row = 0
		p.ordersPlayed++
	case commandNext:
		p.row = p.commandParam
		if p.row >= p.RowsPerTrack {
			p.row = p.RowsPerTrack - 1
		}
		p.nextOrder()
	default:
		p.row++
		if p.row >= p.RowsPerTrack {
			p.row = 0
			p.nextOrder()
		}
	}

	if p.command != commandNone && dumpW != nil {
		dumpf("Command %d: order %d row %d\n", p.command, p.order, p.row)
	}
	p.command = commandNone

	if p.PlayOrderLimit != -1 && p.ordersPlayed >= p.PlayOrderLimit {
		p.halted = true
	}
}

// nextOrder advances to the next order, looping back to the first order after
// the last one.
func (p *Player) nextOrder() {
	p.order++
	p.ordersPlayed++
	if p.order >= len(p.Orders) {
		p.order = 0
	}
}

// State returns the current state of the player (song position, channel state, etc.)
func (p *Player) State() PlayerState {
	state := PlayerState{
		Order:   p.order,
		Row:     p.row,
		Speed:   p.timer.Speed(),
		Halted:  p.halted,
		Panning: p.panningMask,
	}
	state.Notes = p.NoteDataFor(p.order, p.row)
	state.Channels = make([]ChannelState, ChannelCount)
	for i := range p.channels {
		c := &p.channels[i]
		note, ins := c.nc.Note()
		pc, remaining := c.ir.Position()
		state.Channels[i] = ChannelState{
			Note:        note,
			Instrument:  ins,
			State:       c.nc.State(),
			Output:      c.out,
			Instruction: pc,
			Remaining:   remaining,
		}
	}

	return state
}

// NoteDataFor returns the note data for a specific order and row, or nil if
// the requested position is invalid.
func (p *Player) NoteDataFor(order, row int) []ChannelNoteData {
	if order < 0 || row < 0 || order >= len(p.Orders) || row >= p.RowsPerTrack {
		return nil
	}
	nd := make([]ChannelNoteData, ChannelCount)
	for ch := range nd {
		r := p.rowAt(order, ch, row)
		nd[ch].Note = r.Note.String()
		nd[ch].Instrument = r.Instrument
		for i, e := range r.Effects {
			nd[ch].Effects[i] = e.String()
		}
	}

	return nd
}

// Snapshot returns a deep copy of the player's runtime state.
func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Order:    p.order,
		Row:      p.row,
		Speed:    p.timer.Speed(),
		Halted:   p.halted,
		channels: clone.Clone(p.channels),
	}
}
