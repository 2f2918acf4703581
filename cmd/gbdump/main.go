package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chriskillpack/gbplayer"
	"github.com/chriskillpack/gbplayer/cmd/internal/config"
	"github.com/chriskillpack/gbplayer/internal/demo"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"
)

var (
	flagFrames   = pflag.IntP("frames", "n", 600, "number of frames to run")
	flagStartOrd = pflag.Int("start", 0, "starting order")
	flagStartRow = pflag.Int("row", 0, "starting row")
	flagLenOrd   = pflag.Int("maxpatterns", -1, "maximum number of orders to play, useful for songs that loop forever")
	flagSpeed    = pflag.StringP("speed", "s", "", "override the song speed, in hex (10-F0)")
	flagMute     = pflag.String("mute", "", "comma separated list of channels to mute, e.g. 2,4")
	flagRelease  = pflag.String("autorelease", "", "channels that go silent when their instrument ends")
	flagPrograms = pflag.StringArrayP("instrument", "i", nil, "replace an instrument with a program file, id=path")
	flagRows     = pflag.Bool("rows", false, "only print the first frame of each row")
	flagTrace    = pflag.Bool("trace", false, "trace song position changes to stderr")
	flagState    = pflag.Bool("state", false, "dump the player state when done")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("gbdump: ")
	pflag.Parse()

	song := demo.Song()
	instruments := demo.Instruments()
	if err := config.AddPrograms(instruments, *flagPrograms); err != nil {
		log.Fatal(err)
	}

	speed, err := config.SpeedFromFlag(*flagSpeed)
	if err != nil {
		log.Fatal(err)
	}
	if speed != 0 {
		song.Speed = speed
	}
	mute, err := config.ChannelMaskFromFlag(*flagMute)
	if err != nil {
		log.Fatal(err)
	}
	release, err := config.ChannelMaskFromFlag(*flagRelease)
	if err != nil {
		log.Fatal(err)
	}

	if *flagTrace {
		gbplayer.SetDumpWriter(os.Stderr)
	}

	player, err := gbplayer.NewPlayer(song, instruments, *flagStartOrd, *flagStartRow)
	if err != nil {
		log.Fatal(err)
	}
	player.PlayOrderLimit = *flagLenOrd
	player.SetMute(mute)
	for ch := 0; ch < gbplayer.ChannelCount; ch++ {
		player.SetAutoRelease(ch, release&(1<<ch) != 0)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	fmt.Fprintf(w, "%s, speed %02X, %d orders\n", song.Title, uint8(player.Speed()), len(song.Orders))
	lastOrder, lastRow := -1, -1
	for frame := 0; frame < *flagFrames; frame++ {
		order, row := player.CurrentOrder(), player.CurrentRow()
		if player.Step() {
			fmt.Fprintf(w, "%6d halted at %02X:%02X\n", frame, order, row)
			break
		}
		if *flagRows && order == lastOrder && row == lastRow {
			continue
		}
		lastOrder, lastRow = order, row
		writeFrame(w, frame, order, row, player)
	}

	if *flagState {
		spew.Fdump(w, player.State())
	}
}

// writeFrame prints one line of register values
//
//	frame ord:row | freq env duty | ... | noise env width | NR51
func writeFrame(w io.Writer, frame, order, row int, player *gbplayer.Player) {
	fmt.Fprintf(w, "%6d %02X:%02X", frame, order, row)
	for ch := 0; ch < gbplayer.ChannelCount; ch++ {
		out := player.Output(ch)
		trig := ' '
		if out.Retrigger {
			trig = '*'
		}
		switch {
		case !out.Playing:
			fmt.Fprint(w, " |   ...  .. .")
		case ch == gbplayer.ChannelCount-1:
			fmt.Fprintf(w, " | %c  %02X  %02X %d", trig, out.Noise, out.Envelope, out.Timbre)
		default:
			fmt.Fprintf(w, " | %c%03X  %02X %d", trig, out.Frequency, out.Envelope, out.Timbre)
		}
	}
	fmt.Fprintf(w, " | %02X\n", player.Panning())
}
