package main

import (
	"log"

	"github.com/chriskillpack/gbplayer"
	"github.com/chriskillpack/gbplayer/cmd/internal/config"
	"github.com/chriskillpack/gbplayer/internal/demo"
	"github.com/spf13/pflag"
)

var (
	flagStartOrd = pflag.Int("start", 0, "starting order, clamped to song max")
	flagLenOrd   = pflag.Int("maxpatterns", -1, "Maximum number of orders to play, useful for songs that loop forever")
	flagSpeed    = pflag.StringP("speed", "s", "", "override the song speed, in hex (10-F0)")
	flagMute     = pflag.String("mute", "", "comma separated list of channels to mute, e.g. 2,4")
	flagPrograms = pflag.StringArrayP("instrument", "i", nil, "replace an instrument with a program file, id=path")
	flagRate     = pflag.Float64("rate", 1, "playback rate multiplier")
	flagNoUI     = pflag.Bool("noui", false, "turn off all UI, mostly useful in development")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("gbview: ")
	pflag.Parse()

	if *flagRate <= 0 {
		log.Fatalf("rate %v must be positive", *flagRate)
	}

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

	start := min(max(*flagStartOrd, 0), len(song.Orders)-1)
	player, err := gbplayer.NewPlayer(song, instruments, start, 0)
	if err != nil {
		log.Fatal(err)
	}
	player.SetMute(mute)
	player.PlayOrderLimit = *flagLenOrd

	view(player, mute)
}
