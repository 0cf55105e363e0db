// Command cellchess suggests and analyzes moves for chess positions.
//
// Usage:
//
//	cellchess [flags] <command> [args]
//
// Commands:
//
//	suggest          best move for the side to move
//	random           random legal move for White
//	eval             static evaluation and check status
//	moves            legal moves scored by static evaluation
//	perft <depth>    count leaf positions of the move tree
//	save <name>      store the position under name
//	load <name>      print a stored position
//	delete <name>    remove a stored position
//	list             list stored positions
//	history [n]      show the last n searches
//	config           persist -depth, -max-moves and -top as defaults
//	analyze <file>.. search several position files concurrently
//
// The position comes from -fen, -file or -name and defaults to the standard
// starting position.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/cellchess/internal/engine"
	"github.com/hailam/cellchess/internal/storage"
)

var (
	dbDir     = flag.String("db", "", "database directory (default: platform data dir)")
	verbose   = flag.Bool("v", false, "enable debug logging")
	fenFlag   = flag.String("fen", "", "position in FEN")
	fileFlag  = flag.String("file", "", "file holding a text grid position")
	nameFlag  = flag.String("name", "", "stored position name")
	sideFlag  = flag.String("side", "", "side to move: w or b (default: from FEN or white)")
	depthFlag = flag.Int("depth", 0, "search depth in plies")
	maxMoves  = flag.Int("max-moves", 0, "candidates kept per ply (0 = no limit)")
	topFlag   = flag.Int("top", 0, "pick randomly among this many best moves (1 = deterministic)")
	seedFlag  = flag.Int64("seed", 0, "random seed (0 = time based)")
	noRecord  = flag.Bool("no-record", false, "do not store searches in the history")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	log := newLogger(*verbose)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	app, err := newApp(log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer app.close()

	if err := app.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
		app.close()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: cellchess [flags] <command> [args]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Commands: suggest, random, eval, moves, perft, save, load, delete, list, history, config, analyze\n\nFlags:\n")
	flag.PrintDefaults()
}

// newLogger writes human-readable logs to stderr.
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// flagSet reports whether a flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// engineConfig merges stored settings with command line overrides.
func engineConfig(settings *storage.Settings) engine.Config {
	cfg := settings.Apply(engine.DefaultConfig())
	if flagSet("depth") {
		cfg.Depth = *depthFlag
	}
	if flagSet("max-moves") {
		cfg.MaxMoves = *maxMoves
	}
	if flagSet("top") {
		cfg.TopChoices = *topFlag
	}
	cfg.Seed = *seedFlag
	return cfg
}
