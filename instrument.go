package gbplayer

// Instruction control bits
const (
	CtrlPanLeft     = 0x01
	CtrlPanRight    = 0x02
	CtrlSetPanning  = 0x04 // apply CtrlPanLeft/CtrlPanRight
	CtrlSetTimbre   = 0x08 // apply Settings
	CtrlSetEnvelope = 0x10 // apply EnvSettings
	CtrlLoopPoint   = 0x20 // target of CtrlLoop, the first instruction if unset
	CtrlLoop        = 0x40 // on the last instruction: loop instead of holding
	CtrlRetrigger   = 0x80 // restart the envelope on entry
)

// Instruction is one step of an instrument program. It lasts Duration frames.
type Instruction struct {
	Duration    uint8
	Ctrl        uint8
	Settings    uint8 // duty, wave volume or noise width
	EnvSettings uint8 // envelope register value
	Note        int8  // pitch offset in semitones
}

// Instruments supplies instrument programs by id. Programs are referenced by
// the player while they play and must not be modified.
type Instruments interface {
	Program(id int) ([]Instruction, bool)
}

// InstrumentTable is a map of instrument id to program.
type InstrumentTable map[int][]Instruction

func (t InstrumentTable) Program(id int) ([]Instruction, bool) {
	prog, ok := t[id]
	return prog, ok
}

// InstrumentOutput is the result of one frame of an instrument program.
type InstrumentOutput struct {
	Ctrl        uint8
	Settings    uint8
	EnvSettings uint8
	Note        int8

	Retrigger bool // an instruction with CtrlRetrigger was entered this frame
	Silenced  bool // the program is empty
	Finished  bool // holding on the last instruction
}

// InstrumentRuntime runs an instrument program one frame at a time. The output
// depends only on the program and the number of frames since Bind.
type InstrumentRuntime struct {
	program   []Instruction
	bound     bool
	pc        int
	counter   int // frames left in the current instruction, 0 on entry
	loopPoint int
	holding   bool
}

// Bind starts prog from its first instruction. An empty program silences the
// channel.
func (ir *InstrumentRuntime) Bind(prog []Instruction) {
	ir.program = prog
	ir.bound = true
	ir.pc = 0
	ir.counter = 0
	ir.holding = false
	ir.loopPoint = 0
	for i := range prog {
		if prog[i].Ctrl&CtrlLoopPoint != 0 {
			ir.loopPoint = i
			break
		}
	}
}

// Unbind drops the program, the channel plays with its own settings.
func (ir *InstrumentRuntime) Unbind() {
	*ir = InstrumentRuntime{}
}

// Bound reports whether a program, possibly empty, is bound.
func (ir *InstrumentRuntime) Bound() bool {
	return ir.bound
}

// Position returns the program counter and the frames left in the current
// instruction.
func (ir *InstrumentRuntime) Position() (pc, remaining int) {
	return ir.pc, ir.counter
}

// Step runs the program for one frame.
func (ir *InstrumentRuntime) Step() InstrumentOutput {
	if len(ir.program) == 0 {
		return InstrumentOutput{Silenced: ir.bound}
	}

	entered := false
	if ir.counter == 0 && !ir.holding {
		entered = true
		ir.counter = int(ir.program[ir.pc].Duration)
		if ir.counter == 0 {
			ir.counter = 1
		}
	}

	ins := &ir.program[ir.pc]
	out := InstrumentOutput{
		Ctrl:        ins.Ctrl,
		Settings:    ins.Settings,
		EnvSettings: ins.EnvSettings,
		Note:        ins.Note,
		Retrigger:   entered && ins.Ctrl&CtrlRetrigger != 0,
		Finished:    ir.holding,
	}

	if ir.holding {
		return out
	}

	ir.counter--
	if ir.counter == 0 {
		ir.pc++
		if ir.pc == len(ir.program) {
			if ir.program[ir.pc-1].Ctrl&CtrlLoop != 0 {
				ir.pc = ir.loopPoint
			} else {
				ir.pc--
				ir.holding = true
			}
		}
	}

	return out
}
