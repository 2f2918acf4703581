package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/chriskillpack/gbplayer"
	"github.com/fatih/color"
)

var (
	white   = color.New(color.FgWhite).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
	magenta = color.New(color.FgMagenta).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
	blue    = color.New(color.FgHiBlue).SprintFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
	red     = color.New(color.FgRed).SprintfFunc()
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

// Frames per second of the Game Boy LCD
const frameRate = 59.7275

type action int

const (
	actionQuit action = iota
	actionLeft
	actionRight
	actionMute
	actionSolo
	actionReload
	actionHalt
	actionRestart
)

var channelNames = [gbplayer.ChannelCount]string{"pulse 1", "pulse 2", "wave", "noise"}

func view(player *gbplayer.Player, mute uint) {
	var uiw io.Writer = os.Stdout
	if *flagNoUI {
		uiw = io.Discard
	}

	actions := make(chan action, 16)

	sigch := make(chan os.Signal, 5)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		for range sigch {
			actions <- actionQuit
		}
	}()

	go func() {
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			switch key.Code {
			case keys.CtrlC, keys.Escape:
				actions <- actionQuit
				return true, nil
			case keys.Left:
				actions <- actionLeft
			case keys.Right:
				actions <- actionRight
			case keys.RuneKey:
				switch key.Runes[0] {
				case 'q':
					actions <- actionMute
				case 's':
					actions <- actionSolo
				case 'r':
					actions <- actionReload
				case 'h':
					actions <- actionHalt
				case 'b':
					actions <- actionRestart
				}
			}
			return false, nil
		})
	}()

	// Hide the cursor
	fmt.Fprint(uiw, hideCursor)
	defer fmt.Fprint(uiw, showCursor)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / (frameRate * *flagRate)))
	defer ticker.Stop()

	uiSelectedChannel := 0
	uiSoloChannel := -1

	var lastState gbplayer.PlayerState
	for {
		redraw := false
		select {
		case a := <-actions:
			switch a {
			case actionQuit:
				return
			case actionLeft:
				uiSelectedChannel = max(uiSelectedChannel-1, 0)
			case actionRight:
				uiSelectedChannel = min(uiSelectedChannel+1, gbplayer.ChannelCount-1)
			case actionMute:
				mute ^= 1 << uiSelectedChannel
				uiSoloChannel = -1
				player.SetMute(mute)
			case actionSolo:
				if uiSoloChannel != uiSelectedChannel {
					uiSoloChannel = uiSelectedChannel
					player.SetMute(^(uint(1) << uiSelectedChannel))
				} else {
					uiSoloChannel = -1
					player.SetMute(mute)
				}
			case actionReload:
				player.Reload(uiSelectedChannel)
			case actionHalt:
				player.Halt()
			case actionRestart:
				player.SeekTo(player.CurrentOrder(), 0)
			}
			redraw = true
		case <-ticker.C:
			player.Step()
		}

		state := player.State()
		if !redraw && lastState.Notes != nil && lastState.Order == state.Order && lastState.Row == state.Row && lastState.Halted == state.Halted {
			continue
		}
		lastState = state

		drawState(uiw, player, state, uiSelectedChannel, uiSoloChannel)
		if state.Halted && *flagNoUI {
			return
		}
	}
}

// Print the song position, the channel registers and the preceding 4 rows,
// current row and upcoming 4 rows
//
//	<title> row 0A/0F ord 01/04 speed 48 NR51 FF
//
//	1 pulse 1   C-4 01 sustained  6B2 F3 2 LR
//	...
//
//	        1              2              3              4
//	    C-4 01 ... ... ...|C-3 03 ... ... ...|...
//	>>> ... .. 047 ... ...|... .. ... ... ...|... <<<
func drawState(uiw io.Writer, player *gbplayer.Player, state gbplayer.PlayerState, selected, solo int) {
	song := player.Song

	if len(song.Title) > 0 {
		fmt.Fprint(uiw, song.Title+" ")
	}
	fmt.Fprintf(uiw, "%s %02X/%02X %s %02X/%02X %s %02X %s %02X",
		blue("row"), state.Row, song.RowsPerTrack-1,
		blue("ord"), state.Order, len(song.Orders),
		blue("speed"), uint8(state.Speed),
		blue("NR51"), state.Panning)
	if state.Halted {
		fmt.Fprint(uiw, " ", red("halted"))
	}
	fmt.Fprintln(uiw, escape+"K")
	fmt.Fprintln(uiw)

	for i, ch := range state.Channels {
		tc := ' '
		if ch.State == gbplayer.NoteTriggered {
			tc = '■'
		} else if ch.State == gbplayer.NoteSustained {
			tc = '□'
		}
		name := fmt.Sprintf("%d%c %-8s", i+1, tc, channelNames[i])
		switch {
		case i == solo:
			name = yellow("%s", name)
		case i == selected:
			name = green("%s", name)
		}

		reg := "   .. .   "
		if ch.Output.Playing {
			if i == gbplayer.ChannelCount-1 {
				reg = fmt.Sprintf(" %02X %02X %d", ch.Output.Noise, ch.Output.Envelope, ch.Output.Timbre)
			} else {
				reg = fmt.Sprintf("%03X %02X %d", ch.Output.Frequency, ch.Output.Envelope, ch.Output.Timbre)
			}
		}
		pan := ""
		if state.Panning&(0x10<<i) != 0 {
			pan += "L"
		}
		if state.Panning&(1<<i) != 0 {
			pan += "R"
		}
		fmt.Fprintf(uiw, "%s %s %s %-10s %s %-2s%s\n", name, white("%s", ch.Note), cyan("%02X", ch.Instrument), ch.State, reg, pan, escape+"K")
	}
	fmt.Fprintln(uiw)

	// Print the channel header
	fmt.Fprintf(uiw, "    ")
	for i := range gbplayer.ChannelCount {
		const chanstr = "%-19d"
		if i == selected {
			fmt.Fprint(uiw, green(chanstr, i+1))
			continue
		}
		fmt.Fprintf(uiw, chanstr, i+1)
	}
	fmt.Fprintln(uiw)

	for i := -4; i <= 4; i++ {
		nd := player.NoteDataFor(state.Order, state.Row+i)
		if nd == nil {
			fmt.Fprintln(uiw, escape+"K")
			continue
		}

		// If this is the currently playing row then highlight it
		if i == 0 {
			fmt.Fprint(uiw, ">>> ")
		} else {
			fmt.Fprint(uiw, "    ")
		}
		for ni, n := range nd {
			noteDisplay(ni, n, uiw)
		}
		if i == 0 {
			fmt.Fprint(uiw, " <<<")
		}
		fmt.Fprintln(uiw, escape+"K")
	}
	fmt.Fprintf(uiw, escape+"%dF", 13+gbplayer.ChannelCount) // move cursor back to the title line
}

func noteDisplay(ni int, n gbplayer.ChannelNoteData, uiw io.Writer) {
	ins := ".."
	if n.Instrument > 0 {
		ins = fmt.Sprintf("%02X", n.Instrument)
	}
	fmt.Fprint(uiw, white("%s", n.Note), " ", cyan("%s", ins))
	for _, e := range n.Effects {
		if e == "..." {
			fmt.Fprint(uiw, " ...")
			continue
		}
		fmt.Fprint(uiw, " ", magenta("%c", e[0]), yellow("%s", e[1:]))
	}
	if ni < gbplayer.ChannelCount-1 {
		fmt.Fprint(uiw, "|")
	}
}
