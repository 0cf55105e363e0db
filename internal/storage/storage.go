package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/cellchess/internal/board"
	"github.com/hailam/cellchess/internal/engine"
)

// Storage keys
const (
	keySettings       = "settings"
	keyStats          = "stats"
	prefixPosition    = "position/"
	keyHistorySeq     = "seq/history"
	prefixHistory     = "history/"
	historyKeyPattern = prefixHistory + "%020d-%020d" // time, then sequence
)

// ErrNotFound is returned when a named entry does not exist.
var ErrNotFound = errors.New("storage: not found")

// Settings stores the engine parameters used when no flag overrides them.
type Settings struct {
	Depth      int       `json:"depth"`
	MaxMoves   int       `json:"max_moves"`
	TopChoices int       `json:"top_choices"`
	LastUsed   time.Time `json:"last_used"`
}

// DefaultSettings returns settings matching engine.DefaultConfig.
func DefaultSettings() *Settings {
	cfg := engine.DefaultConfig()
	return &Settings{
		Depth:      cfg.Depth,
		MaxMoves:   cfg.MaxMoves,
		TopChoices: cfg.TopChoices,
	}
}

// Apply copies the stored parameters into an engine configuration.
func (s *Settings) Apply(cfg engine.Config) engine.Config {
	cfg.Depth = s.Depth
	cfg.MaxMoves = s.MaxMoves
	cfg.TopChoices = s.TopChoices
	return cfg
}

// SavedPosition is a named position in text grid form.
type SavedPosition struct {
	Name    string    `json:"name"`
	Grid    string    `json:"grid"`
	Side    string    `json:"side"` // "w" or "b"
	SavedAt time.Time `json:"saved_at"`
}

// Position parses the stored grid.
func (sp *SavedPosition) Position() *board.Position {
	return board.Load(sp.Grid)
}

// SideToMove returns the stored side, White unless "b".
func (sp *SavedPosition) SideToMove() board.Color {
	if sp.Side == "b" {
		return board.Black
	}
	return board.White
}

// SearchRecord is one entry of the search history.
type SearchRecord struct {
	Time        time.Time     `json:"time"`
	Fingerprint string        `json:"fingerprint"`
	Side        string        `json:"side"`
	Depth       int           `json:"depth"`
	Move        string        `json:"move"`
	Score       float64       `json:"score"`
	Nodes       uint64        `json:"nodes"`
	Elapsed     time.Duration `json:"elapsed"`
}

// NewSearchRecord builds a history entry from a finished search.
func NewSearchRecord(pos *board.Position, info engine.SearchInfo) SearchRecord {
	side := "w"
	if info.Side == board.Black {
		side = "b"
	}
	return SearchRecord{
		Time:        time.Now(),
		Fingerprint: pos.Fingerprint(),
		Side:        side,
		Depth:       info.Depth,
		Move:        info.Move.String(),
		Score:       info.Move.Score,
		Nodes:       info.Nodes,
		Elapsed:     info.Time,
	}
}

// SearchStats aggregates the search history.
type SearchStats struct {
	Searches  int           `json:"searches"`
	Nodes     uint64        `json:"nodes"`
	TotalTime time.Duration `json:"total_time"`
	ByDepth   map[int]int   `json:"by_depth"`
}

// NewSearchStats returns empty statistics.
func NewSearchStats() *SearchStats {
	return &SearchStats{ByDepth: make(map[int]int)}
}

// NodesPerSecond returns the average evaluation rate.
func (s *SearchStats) NodesPerSecond() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return float64(s.Nodes) / s.TotalTime.Seconds()
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence // orders history entries with equal timestamps
}

// Options configures Open.
type Options struct {
	Dir      string // Database directory; ignored when InMemory is set
	InMemory bool
	Logger   *zerolog.Logger // nil disables badger logging
}

// Open opens or creates a database.
func Open(o Options) (*Storage, error) {
	opts := badger.DefaultOptions(o.Dir)
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	if o.Logger != nil {
		opts = opts.WithLogger(newBadgerLogger(*o.Logger))
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seq, err := db.GetSequence([]byte(keyHistorySeq), 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history sequence: %w", err)
	}

	return &Storage{db: db, seq: seq}, nil
}

// NewStorage opens the database in dir, or in the data directory when dir
// is empty.
func NewStorage(dir string, log *zerolog.Logger) (*Storage, error) {
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		return nil, err
	}
	return Open(Options{Dir: dbDir, Logger: log})
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	var seqErr error
	if s.seq != nil {
		seqErr = s.seq.Release()
		s.seq = nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return err
	}
	return seqErr
}

// getJSON decodes the value at key into v. A missing key returns ErrNotFound.
func getJSON(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// SaveSettings saves engine settings
func (s *Storage) SaveSettings(settings *Settings) error {
	settings.LastUsed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keySettings, settings)
	})
}

// LoadSettings loads engine settings, returns defaults if not found
func (s *Storage) LoadSettings() (*Settings, error) {
	settings := DefaultSettings()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keySettings, settings)
	})
	if errors.Is(err, ErrNotFound) {
		return settings, nil
	}
	return settings, err
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\n") {
		return fmt.Errorf("invalid position name %q", name)
	}
	return nil
}

// SavePosition stores a position under name, replacing any previous entry.
func (s *Storage) SavePosition(name string, pos *board.Position, side board.Color) error {
	if err := validName(name); err != nil {
		return err
	}
	sp := SavedPosition{
		Name:    name,
		Grid:    pos.Render(),
		Side:    "w",
		SavedAt: time.Now(),
	}
	if side == board.Black {
		sp.Side = "b"
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, prefixPosition+name, &sp)
	})
}

// LoadPosition returns the position stored under name.
func (s *Storage) LoadPosition(name string) (*SavedPosition, error) {
	var sp SavedPosition
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixPosition+name, &sp)
	})
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// DeletePosition removes a named position.
func (s *Storage) DeletePosition(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixPosition + name)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListPositions returns all saved positions sorted by name.
func (s *Storage) ListPositions() ([]SavedPosition, error) {
	var list []SavedPosition
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixPosition)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sp SavedPosition
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sp)
			}); err != nil {
				return err
			}
			list = append(list, sp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// RecordSearch appends a history entry and updates the statistics.
// Records with equal timestamps are kept apart by a sequence number.
func (s *Storage) RecordSearch(rec SearchRecord) error {
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("history sequence: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		stats := NewSearchStats()
		if err := getJSON(txn, keyStats, stats); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if stats.ByDepth == nil {
			stats.ByDepth = make(map[int]int)
		}
		stats.Searches++
		stats.Nodes += rec.Nodes
		stats.TotalTime += rec.Elapsed
		stats.ByDepth[rec.Depth]++

		if err := setJSON(txn, keyStats, stats); err != nil {
			return err
		}
		return setJSON(txn, fmt.Sprintf(historyKeyPattern, rec.Time.UnixNano(), n), &rec)
	})
}

// History returns up to limit search records, newest first. A limit of zero
// or less returns all of them.
func (s *Storage) History(limit int) ([]SearchRecord, error) {
	var records []SearchRecord
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixHistory)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key not greater than the seek key.
		for it.Seek(append([]byte(prefixHistory), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec SearchRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// LoadStats loads search statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*SearchStats, error) {
	stats := NewSearchStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyStats, stats)
	})
	if errors.Is(err, ErrNotFound) {
		return stats, nil
	}
	return stats, err
}
