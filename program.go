package gbplayer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// InstructionSize is the number of bytes in an encoded instruction.
const InstructionSize = 5

var ErrInvalidProgram = errors.New("invalid instrument program")

// DecodeProgram reads an instrument program until EOF. Each instruction is
// stored as duration, ctrl, settings, envelope settings and a signed note
// offset, one byte each.
func DecodeProgram(r io.Reader) ([]Instruction, error) {
	var prog []Instruction
	for {
		var ins Instruction
		err := binary.Read(r, binary.LittleEndian, &ins)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated instruction %d: %w", len(prog), ErrInvalidProgram)
		}
		if err != nil {
			return nil, err
		}
		prog = append(prog, ins)
	}

	dumpf("Program: %d instructions\n", len(prog))
	return prog, nil
}

// NewProgramFromBytes decodes an instrument program from a byte slice.
func NewProgramFromBytes(b []byte) ([]Instruction, error) {
	if len(b)%InstructionSize != 0 {
		return nil, fmt.Errorf("length %d is not a multiple of %d: %w", len(b), InstructionSize, ErrInvalidProgram)
	}
	return DecodeProgram(bytes.NewReader(b))
}

// EncodeProgram writes prog in the layout read by DecodeProgram.
func EncodeProgram(w io.Writer, prog []Instruction) error {
	return binary.Write(w, binary.LittleEndian, prog)
}
