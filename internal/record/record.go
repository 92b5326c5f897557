// Package record keeps finished-game records and serves leaderboard views.
// Records live either in the key-value gateway (local deployments) or in a
// Postgres table (shared remote leaderboard); the service is indifferent.
package record

import (
	"context"

	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/event"
)

// DefaultLeaderboardLimit caps leaderboard views when the caller does not ask
// for a specific size.
const DefaultLeaderboardLimit = 10

// Store is the append-only record store behind the leaderboard.
type Store interface {
	AppendRecord(ctx context.Context, result domain.GameResult) (domain.LeaderboardRecord, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRecord, error)
	PlayerRecords(ctx context.Context, name string) ([]domain.LeaderboardRecord, error)
}

type Config struct {
	EventBus *event.Bus
	Store    Store
}

// Service appends a record for every finished game and exposes leaderboard
// reads. The append rides the event bus so a broken record store can never
// block gameplay.
type Service struct {
	store Store
}

func NewService(c Config) *Service {
	s := &Service{store: c.Store}

	c.EventBus.Subscribe(domain.EventNameGameFinished, func(ctx context.Context, e event.Event) error {
		return s.RecordResult(ctx, e.(domain.EventGameFinished))
	})

	return s
}

func (s *Service) RecordResult(ctx context.Context, e domain.EventGameFinished) error {
	_, err := s.store.AppendRecord(ctx, e.Result)
	return err
}

type GetLeaderboardRequest struct {
	Limit int
}

// GetLeaderboard returns the top records ranked by score, ties broken by most
// recent.
func (s *Service) GetLeaderboard(ctx context.Context, req GetLeaderboardRequest) ([]domain.LeaderboardRecord, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	return s.store.Leaderboard(ctx, limit)
}

type GetPlayerRecordsRequest struct {
	PlayerName string
}

// GetPlayerRecords returns all records for one player, most recent first.
func (s *Service) GetPlayerRecords(ctx context.Context, req GetPlayerRecordsRequest) ([]domain.LeaderboardRecord, error) {
	return s.store.PlayerRecords(ctx, req.PlayerName)
}
