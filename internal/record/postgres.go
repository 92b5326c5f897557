package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verseapp/versequiz/internal/domain"
)

// Postgres is a Store backed by a game_records table, for deployments with a
// shared remote leaderboard.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) AppendRecord(ctx context.Context, result domain.GameResult) (domain.LeaderboardRecord, error) {
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
		CreatedAt:      time.Now().UTC(),
	}

	const stmt = `
INSERT INTO game_records (record_id, player_name, score, quiz_time, game_mode, correct_count, total_questions, accuracy, create_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err = p.db.Exec(ctx, stmt,
		rec.ID, rec.PlayerName, rec.Score, rec.QuizTime, string(rec.Mode),
		rec.CorrectCount, rec.TotalQuestions, rec.Accuracy, rec.CreatedAt,
	)
	if err != nil {
		return domain.LeaderboardRecord{}, fmt.Errorf("insert record: %w", err)
	}

	return rec, nil
}

func (p *Postgres) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRecord, error) {
	const stmt = `
SELECT record_id, player_name, score, quiz_time, game_mode, correct_count, total_questions, accuracy, create_time
FROM game_records
ORDER BY score DESC, create_time DESC
LIMIT $1;`

	rows, err := p.db.Query(ctx, stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	return collectRecords(rows)
}

func (p *Postgres) PlayerRecords(ctx context.Context, name string) ([]domain.LeaderboardRecord, error) {
	const stmt = `
SELECT record_id, player_name, score, quiz_time, game_mode, correct_count, total_questions, accuracy, create_time
FROM game_records
WHERE player_name = $1
ORDER BY create_time DESC;`

	rows, err := p.db.Query(ctx, stmt, name)
	if err != nil {
		return nil, fmt.Errorf("query player records: %w", err)
	}

	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]domain.LeaderboardRecord, error) {
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.LeaderboardRecord, error) {
		var (
			rec  domain.LeaderboardRecord
			mode string
		)
		if err := r.Scan(&rec.ID, &rec.PlayerName, &rec.Score, &rec.QuizTime, &mode,
			&rec.CorrectCount, &rec.TotalQuestions, &rec.Accuracy, &rec.CreatedAt); err != nil {
			return domain.LeaderboardRecord{}, err
		}
		rec.Mode = domain.Mode(mode)
		return rec, nil
	})
}
