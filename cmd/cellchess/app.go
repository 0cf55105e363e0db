package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/cellchess/internal/board"
	"github.com/hailam/cellchess/internal/engine"
	"github.com/hailam/cellchess/internal/storage"
)

var (
	errUsage   = errors.New("bad usage")
	errNoStore = errors.New("database unavailable")
)

type app struct {
	log   zerolog.Logger
	store *storage.Storage // nil when the database could not be opened
	cfg   engine.Config
}

func newApp(log zerolog.Logger) (*app, error) {
	a := &app{log: log}

	var err error
	a.store, err = storage.NewStorage(*dbDir, &log)
	if err != nil {
		if *dbDir != "" {
			return nil, err
		}
		log.Warn().Err(err).Msg("running without database")
		a.store = nil
	}

	settings := storage.DefaultSettings()
	if a.store != nil {
		if settings, err = a.store.LoadSettings(); err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}
	a.cfg = engineConfig(settings)
	log.Debug().
		Int("depth", a.cfg.Depth).
		Int("max_moves", a.cfg.MaxMoves).
		Int("top", a.cfg.TopChoices).
		Msg("engine config")

	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close database")
		}
		a.store = nil
	}
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "suggest":
		return a.suggest()
	case "random":
		return a.random()
	case "eval":
		return a.eval()
	case "moves":
		return a.moves()
	case "perft":
		return a.perft(args)
	case "save":
		return a.save(args)
	case "load":
		return a.load(args)
	case "delete":
		return a.remove(args)
	case "list":
		return a.list()
	case "history":
		return a.history(args)
	case "config":
		return a.saveConfig()
	case "analyze":
		return a.analyze(args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) newEngine() *engine.Engine {
	eng := engine.NewEngine(a.cfg)
	eng.SetLogger(a.log)
	return eng
}

// position resolves the position and side to move from the flags.
func (a *app) position() (*board.Position, board.Color, error) {
	pos, side := board.NewStartPosition(), board.White

	switch {
	case *fenFlag != "":
		var err error
		if pos, side, err = board.ParseFEN(*fenFlag); err != nil {
			return nil, board.NoColor, err
		}
	case *fileFlag != "":
		data, err := os.ReadFile(*fileFlag)
		if err != nil {
			return nil, board.NoColor, err
		}
		pos = board.Load(string(data))
	case *nameFlag != "":
		sp, err := a.loadPosition(*nameFlag)
		if err != nil {
			return nil, board.NoColor, err
		}
		pos, side = sp.Position(), sp.SideToMove()
	}

	return pos, sideOverride(side), nil
}

// sideOverride applies -side, if given.
func sideOverride(side board.Color) board.Color {
	switch *sideFlag {
	case "w", "white":
		return board.White
	case "b", "black":
		return board.Black
	}
	return side
}

// loadPosition fetches a stored position by name.
func (a *app) loadPosition(name string) (*storage.SavedPosition, error) {
	if a.store == nil {
		return nil, errNoStore
	}
	sp, err := a.store.LoadPosition(name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no position named %q", name)
	}
	return sp, err
}

func (a *app) record(pos *board.Position, info engine.SearchInfo) {
	if a.store == nil || *noRecord {
		return
	}
	if err := a.store.RecordSearch(storage.NewSearchRecord(pos, info)); err != nil {
		a.log.Warn().Err(err).Msg("record search")
	}
}

func printSearch(label string, info engine.SearchInfo, hitRate float64) {
	if label != "" {
		fmt.Printf("%s: ", label)
	}
	if info.Move.IsNone() {
		fmt.Printf("no legal move for %s (%s)\n", info.Side, engine.ScoreToString(info.Move.Score))
		return
	}
	fmt.Printf("%s  score %s  depth %d  nodes %s  cache %s entries (%.0f%% hits)  %s\n",
		info.Move,
		engine.ScoreToString(info.Move.Score),
		info.Depth,
		humanize.Comma(int64(info.Nodes)),
		humanize.Comma(int64(info.CacheSize)),
		hitRate,
		info.Time.Round(time.Millisecond),
	)
}

func (a *app) suggest() error {
	pos, side, err := a.position()
	if err != nil {
		return err
	}

	eng := a.newEngine()
	defer eng.Close()

	var info engine.SearchInfo
	eng.OnInfo = func(i engine.SearchInfo) { info = i }
	eng.Search(pos, engine.SearchState{Depth: eng.Config().Depth, Side: side})

	printSearch("", info, eng.MoveCache().HitRate())
	a.record(pos, info)
	return nil
}

func (a *app) random() error {
	pos, _, err := a.position()
	if err != nil {
		return err
	}

	eng := a.newEngine()
	defer eng.Close()

	move, ok := eng.SuggestRandomMove(pos)
	if !ok {
		fmt.Println("no legal move for white")
		return nil
	}
	fmt.Printf("%c%s-%s\n", move.Kind.Char(), move.From, move.To)
	return nil
}

func (a *app) eval() error {
	pos, side, err := a.position()
	if err != nil {
		return err
	}

	eng := a.newEngine()
	defer eng.Close()

	score := eng.Evaluate(pos)
	fmt.Println(pos.Render())
	fmt.Printf("\nscore %.2f (%s)\n", score, engine.ScoreToString(score))
	for _, c := range []board.Color{board.White, board.Black} {
		if pos.IsKingInCheck(c) {
			fmt.Printf("%s is in check\n", c)
		}
	}
	if !pos.HasLegalMoves(side) {
		if pos.IsKingInCheck(side) {
			fmt.Printf("%s is checkmated\n", side)
		} else {
			fmt.Printf("%s has no legal move\n", side)
		}
	}
	return nil
}

func (a *app) moves() error {
	pos, side, err := a.position()
	if err != nil {
		return err
	}

	eng := a.newEngine()
	defer eng.Close()

	moves := eng.ScoredMoves(pos, side)
	for _, m := range moves {
		fmt.Println(m)
	}
	fmt.Printf("%d legal moves for %s\n", len(moves), side)
	return nil
}

func (a *app) perft(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return fmt.Errorf("%w: invalid depth %q", errUsage, args[0])
	}
	pos, side, err := a.position()
	if err != nil {
		return err
	}

	eng := a.newEngine()
	defer eng.Close()

	start := time.Now()
	nodes := eng.Perft(pos, side, depth)
	fmt.Printf("perft(%d) = %s  %s\n", depth, humanize.Comma(int64(nodes)), time.Since(start).Round(time.Millisecond))
	return nil
}

func (a *app) save(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if a.store == nil {
		return errNoStore
	}
	pos, side, err := a.position()
	if err != nil {
		return err
	}
	if err := a.store.SavePosition(args[0], pos, side); err != nil {
		return err
	}
	a.log.Info().Str("name", args[0]).Stringer("side", side).Msg("position saved")
	return nil
}

func (a *app) load(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	sp, err := a.loadPosition(args[0])
	if err != nil {
		return err
	}
	fmt.Println(sp.Grid)
	fmt.Printf("\n%s to move, saved %s\n", sp.SideToMove(), humanize.Time(sp.SavedAt))
	return nil
}

func (a *app) remove(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if a.store == nil {
		return errNoStore
	}
	if err := a.store.DeletePosition(args[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no position named %q", args[0])
		}
		return err
	}
	return nil
}

func (a *app) list() error {
	if a.store == nil {
		return errNoStore
	}
	positions, err := a.store.ListPositions()
	if err != nil {
		return err
	}
	for _, sp := range positions {
		fmt.Printf("%-20s %s to move  %s\n", sp.Name, sp.SideToMove(), humanize.Time(sp.SavedAt))
	}
	return nil
}

func (a *app) history(args []string) error {
	if a.store == nil {
		return errNoStore
	}
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: invalid count %q", errUsage, args[0])
		}
		limit = n
	}

	records, err := a.store.History(limit)
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Printf("%-14s %s depth %d  %-20s %s nodes\n",
			humanize.Time(rec.Time), rec.Side, rec.Depth, rec.Move, humanize.Comma(int64(rec.Nodes)))
	}

	stats, err := a.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("%d searches, %s nodes, %s\n",
		stats.Searches,
		humanize.Comma(int64(stats.Nodes)),
		humanize.SIWithDigits(stats.NodesPerSecond(), 1, "nodes/s"))
	return nil
}

func (a *app) saveConfig() error {
	if a.store == nil {
		return errNoStore
	}
	settings := &storage.Settings{
		Depth:      a.cfg.Depth,
		MaxMoves:   a.cfg.MaxMoves,
		TopChoices: a.cfg.TopChoices,
	}
	if err := a.store.SaveSettings(settings); err != nil {
		return err
	}
	a.log.Info().
		Int("depth", settings.Depth).
		Int("max_moves", settings.MaxMoves).
		Int("top", settings.TopChoices).
		Msg("settings saved")
	return nil
}

type analysis struct {
	file    string
	pos     *board.Position
	info    engine.SearchInfo
	hitRate float64
}

// analyze searches each file's position on its own engine.
func (a *app) analyze(files []string) error {
	if len(files) == 0 {
		return errUsage
	}

	results := make([]analysis, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			pos := board.Load(string(data))

			eng := a.newEngine()
			defer eng.Close()

			r := &results[i]
			r.file, r.pos = file, pos
			eng.OnInfo = func(info engine.SearchInfo) { r.info = info }
			eng.Search(pos, engine.SearchState{Depth: eng.Config().Depth, Side: sideOverride(board.White)})
			r.hitRate = eng.MoveCache().HitRate()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var total uint64
	for _, r := range results {
		printSearch(r.file, r.info, r.hitRate)
		a.record(r.pos, r.info)
		total += r.info.Nodes
	}
	a.log.Info().Int("positions", len(results)).Str("nodes", humanize.Comma(int64(total))).Msg("analysis complete")
	return nil
}
