// Package storage is the persistence gateway: it serializes session
// snapshots, finished results and leaderboard records to an injected
// key-value store. A broken store degrades to "no saved state"; it never
// takes the game down.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/kv"
)

const defaultPrefix = "versequiz"

type Config struct {
	KV     kv.Store
	Prefix string
	// NowFunc overrides the record timestamp source, for tests.
	NowFunc func() time.Time
}

type Gateway struct {
	kv     kv.Store
	prefix string
	now    func() time.Time
}

func NewGateway(c Config) *Gateway {
	g := &Gateway{
		kv:     c.KV,
		prefix: c.Prefix,
		now:    c.NowFunc,
	}

	if g.prefix == "" {
		g.prefix = defaultPrefix
	}
	if g.now == nil {
		g.now = time.Now
	}

	return g
}

// SaveProgress overwrites the in-progress snapshot. Called on every mutation
// while a game is playing.
func (g *Gateway) SaveProgress(ctx context.Context, snap domain.Snapshot) error {
	return g.save(ctx, g.progressKey(), snap)
}

// LoadProgress returns the saved in-progress snapshot, or nil when there is
// none. A corrupt snapshot is reported as an error; callers treat it the same
// as absent.
func (g *Gateway) LoadProgress(ctx context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	ok, err := g.load(ctx, g.progressKey(), &snap)
	if err != nil || !ok {
		return nil, err
	}

	return &snap, nil
}

func (g *Gateway) ClearProgress(ctx context.Context) error {
	return g.kv.Del(ctx, g.progressKey())
}

// SaveResult caches the most recent finished result so a reload can
// redisplay the finished screen.
func (g *Gateway) SaveResult(ctx context.Context, result domain.GameResult) error {
	return g.save(ctx, g.resultKey(), result)
}

func (g *Gateway) LoadResult(ctx context.Context) (*domain.GameResult, error) {
	var result domain.GameResult
	ok, err := g.load(ctx, g.resultKey(), &result)
	if err != nil || !ok {
		return nil, err
	}

	return &result, nil
}

func (g *Gateway) ClearResult(ctx context.Context) error {
	return g.kv.Del(ctx, g.resultKey())
}

// AppendRecord assigns the result an id and creation timestamp and appends it
// to the stored record list.
func (g *Gateway) AppendRecord(ctx context.Context, result domain.GameResult) (domain.LeaderboardRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.LeaderboardRecord{}, fmt.Errorf("generate record ID: %w", err)
	}

	rec := domain.LeaderboardRecord{
		ID:             id.String(),
		PlayerName:     result.PlayerName,
		Score:          result.Score,
		QuizTime:       result.QuizTime,
		Mode:           result.Mode,
		CorrectCount:   result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		Accuracy:       result.Accuracy,
		CreatedAt:      g.now().UTC(),
	}

	records, err := g.allRecords(ctx)
	if err != nil {
		// A corrupt record list would otherwise block every future append.
		slog.WarnContext(ctx, "storage: discarding unreadable record list", "error", err)
		records = nil
	}

	records = append(records, rec)
	if err := g.save(ctx, g.recordsKey(), records); err != nil {
		return domain.LeaderboardRecord{}, err
	}

	return rec, nil
}

// Leaderboard returns up to limit records ranked by score descending, ties
// broken by most recent creation time.
func (g *Gateway) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRecord, error) {
	records, err := g.allRecords(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// PlayerRecords returns all records for the exact player name, most recent
// first.
func (g *Gateway) PlayerRecords(ctx context.Context, name string) ([]domain.LeaderboardRecord, error) {
	records, err := g.allRecords(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.LeaderboardRecord
	for _, r := range records {
		if r.PlayerName == name {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (g *Gateway) allRecords(ctx context.Context) ([]domain.LeaderboardRecord, error) {
	var records []domain.LeaderboardRecord
	if _, err := g.load(ctx, g.recordsKey(), &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return g.kv.Set(ctx, key, b)
}

// load reports whether the key held a value. Decode failures are returned as
// errors so callers can treat them as absent.
func (g *Gateway) load(ctx context.Context, key string, v any) (bool, error) {
	b, err := g.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return true, nil
}

func (g *Gateway) progressKey() string {
	return fmt.Sprintf("%s:progress", g.prefix)
}

func (g *Gateway) resultKey() string {
	return fmt.Sprintf("%s:result", g.prefix)
}

func (g *Gateway) recordsKey() string {
	return fmt.Sprintf("%s:records", g.prefix)
}
