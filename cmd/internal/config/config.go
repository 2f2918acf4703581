package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chriskillpack/gbplayer"
)

var ErrBadFlag = errors.New("bad flag value")

// SpeedFromFlag converts a speed given in hex, e.g. "60" or "0x60", into a
// Speed. An empty string selects the song's own speed and returns 0.
func SpeedFromFlag(speed string) (gbplayer.Speed, error) {
	if speed == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(speed), "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("speed %q: %w", speed, ErrBadFlag)
	}
	if s := gbplayer.Speed(v); s < gbplayer.SpeedMin || s > gbplayer.SpeedMax {
		return 0, fmt.Errorf("speed %q out of range %02X-%02X: %w", speed, gbplayer.SpeedMin, gbplayer.SpeedMax, ErrBadFlag)
	}

	return gbplayer.Speed(v), nil
}

// ChannelMaskFromFlag converts a comma separated list of channels, numbered
// from 1, into a bitmask with channel 1 in the LSB.
func ChannelMaskFromFlag(channels string) (uint, error) {
	var mask uint
	if channels == "" {
		return mask, nil
	}
	for _, f := range strings.Split(channels, ",") {
		ch, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || ch < 1 || ch > gbplayer.ChannelCount {
			return 0, fmt.Errorf("channel %q: %w", f, ErrBadFlag)
		}
		mask |= 1 << (ch - 1)
	}

	return mask, nil
}

// ProgramFromFlag parses an instrument flag of the form id=path, where id is
// a hex instrument number and path a file of encoded instructions, and loads
// the program.
func ProgramFromFlag(program string) (int, []gbplayer.Instruction, error) {
	ids, path, ok := strings.Cut(program, "=")
	if !ok || path == "" {
		return 0, nil, fmt.Errorf("instrument %q, expected id=path: %w", program, ErrBadFlag)
	}
	id, err := strconv.ParseUint(ids, 16, 8)
	if err != nil || id == 0 {
		return 0, nil, fmt.Errorf("instrument id %q: %w", ids, ErrBadFlag)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	prog, err := gbplayer.DecodeProgram(f)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", path, err)
	}

	return int(id), prog, nil
}

// AddPrograms loads every id=path flag into t, replacing existing programs.
func AddPrograms(t gbplayer.InstrumentTable, programs []string) error {
	for _, p := range programs {
		id, prog, err := ProgramFromFlag(p)
		if err != nil {
			return err
		}
		t[id] = prog
	}

	return nil
}
