package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/cellchess/internal/board"
)

// SearchInfo describes a completed top-level search.
type SearchInfo struct {
	Depth     int
	Side      board.Color
	Move      Move
	Nodes     uint64 // positions evaluated during this search
	CacheHits uint64 // move cache hits during this search
	CacheSize int
	Time      time.Duration
}

// Config holds the search parameters.
type Config struct {
	Depth          int   // Plies searched by SuggestMove
	MaxMoves       int   // Candidates kept per ply below the leaves (0 = no limit)
	TopChoices     int   // Pick uniformly among this many best moves (<= 1 = always the best)
	Seed           int64 // Random seed (0 = time based)
	CheckCacheSize int64 // Check detection results kept in memory (0 = no cache)
}

// DefaultConfig returns the standard configuration: three plies, ten
// candidates per ply and a random choice among the top three moves.
func DefaultConfig() Config {
	return Config{
		Depth:          3,
		MaxMoves:       10,
		TopChoices:     3,
		CheckCacheSize: 1 << 20,
	}
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 plies
	Hard                     // 3 plies
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   1,
	Medium: 2,
	Hard:   3,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return Hard, fmt.Errorf("unknown difficulty: %s", s)
}

// Engine is the chess AI engine. An Engine owns its move cache and is not
// safe for concurrent use; run one Engine per goroutine.
type Engine struct {
	cfg      Config
	eval     Evaluator
	cache    *MoveCache
	checks   *CheckCache
	checkErr error
	rng      *rand.Rand
	log      zerolog.Logger

	nodes uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine. Zero Depth falls back to the default depth.
func NewEngine(cfg Config) *Engine {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultConfig().Depth
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		cfg:   cfg,
		eval:  TableEvaluator{},
		cache: NewMoveCache(),
		rng:   rand.New(rand.NewSource(seed)),
		log:   zerolog.Nop(),
	}

	if cfg.CheckCacheSize > 0 {
		// Reported by SetLogger: the engine has no logger yet.
		e.checks, e.checkErr = NewCheckCache(cfg.CheckCacheSize)
	}
	return e
}

// SetLogger sets the logger used for search reports. A check cache that
// failed to start is reported on it.
func (e *Engine) SetLogger(log zerolog.Logger) {
	e.log = log
	if e.checkErr != nil {
		e.log.Warn().Err(e.checkErr).Msg("check cache disabled")
	}
}

// CheckCacheErr returns the error that disabled the check cache, if any.
func (e *Engine) CheckCacheErr() error {
	return e.checkErr
}

// SetEvaluator replaces the position evaluator and clears cached moves,
// which were scored by the previous evaluator.
func (e *Engine) SetEvaluator(ev Evaluator) {
	e.eval = ev
	e.cache.Clear()
}

// SetMoveCache makes the engine use a cache shared with other engines.
func (e *Engine) SetMoveCache(c *MoveCache) {
	e.cache = c
}

// SetDifficulty sets the search depth from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepth[d]; ok {
		e.cfg.Depth = depth
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// MoveCache returns the engine's move cache.
func (e *Engine) MoveCache() *MoveCache {
	return e.cache
}

// SuggestMove returns the best move for White at the configured depth.
func (e *Engine) SuggestMove(pos *board.Position) Move {
	return e.Search(pos, SearchState{Depth: e.cfg.Depth, Side: board.White})
}

// Search returns the best move for st.Side searching st.Depth plies.
// The position is restored before Search returns. When the side to move has
// no legal move the result is NoMove with an extreme score.
func (e *Engine) Search(pos *board.Position, st SearchState) Move {
	if st.Depth < 1 {
		st.Depth = 1
	}
	if e.checks != nil {
		prev := pos.CheckCache()
		pos.SetCheckCache(e.checks)
		defer pos.SetCheckCache(prev)
	}

	start := time.Now()
	startNodes := e.nodes
	startHits := e.cache.Hits()

	best := e.search(pos, st)

	info := SearchInfo{
		Depth:     st.Depth,
		Side:      st.Side,
		Move:      best,
		Nodes:     e.nodes - startNodes,
		CacheHits: e.cache.Hits() - startHits,
		CacheSize: e.cache.Len(),
		Time:      time.Since(start),
	}
	e.log.Debug().
		Int("depth", info.Depth).
		Stringer("side", info.Side).
		Uint64("nodes", info.Nodes).
		Uint64("cache_hits", info.CacheHits).
		Int("cache_size", info.CacheSize).
		Dur("elapsed", info.Time).
		Str("move", best.String()).
		Msg("search complete")
	if e.OnInfo != nil {
		e.OnInfo(info)
	}

	return best
}

// SuggestRandomMove returns a uniformly chosen legal move for White: a random
// piece among those that can move, then a random target of that piece.
// Returns false if White has no legal move.
func (e *Engine) SuggestRandomMove(pos *board.Position) (Move, bool) {
	type candidate struct {
		piece *board.Piece
		cells []board.Cell
	}

	var movable []candidate
	for _, piece := range pos.Pieces(board.White) {
		if cells := pos.LegalCells(piece); len(cells) > 0 {
			movable = append(movable, candidate{piece: piece, cells: cells})
		}
	}
	if len(movable) == 0 {
		return NoMove(0), false
	}

	c := movable[e.rng.Intn(len(movable))]
	to := c.cells[e.rng.Intn(len(c.cells))]
	return Move{
		Kind:    c.piece.Kind,
		Color:   c.piece.Color,
		From:    c.piece.Cell(),
		To:      to,
		Capture: pos.Get(to) != nil,
	}, true
}

// LegalMoves returns every legal move of side, unscored, in generation order.
func (e *Engine) LegalMoves(pos *board.Position, side board.Color) []Move {
	return generateMoves(pos, side)
}

// ScoredMoves returns every legal move of side scored by the static
// evaluation of the resulting position, best first for side.
func (e *Engine) ScoredMoves(pos *board.Position, side board.Color) []Move {
	return e.scoreMoves(pos, side)
}

// ClearCache drops all cached moves and check results.
func (e *Engine) ClearCache() {
	e.cache.Clear()
	if e.checks != nil {
		e.checks.Clear()
	}
}

// Close releases the check cache's background goroutines.
func (e *Engine) Close() {
	if e.checks != nil {
		e.checks.Close()
		e.checks = nil
	}
}

// Nodes returns the number of positions evaluated since the engine was created.
func (e *Engine) Nodes() uint64 {
	return e.nodes
}

// Perft counts leaf positions of the legal move tree (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, side board.Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := generateMoves(pos, side)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		undo, err := m.Make(pos)
		if err != nil {
			panic(err)
		}
		nodes += e.Perft(pos, side.Other(), depth-1)
		pos.UnmakeMove(undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) float64 {
	return e.eval.Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string in pawns.
func ScoreToString(score float64) string {
	switch {
	case score >= BlackLostScore:
		return "White wins"
	case score <= WhiteLostScore:
		return "Black wins"
	}
	return fmt.Sprintf("%+.2f", score/PawnValue)
}
