package game_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/game"
)

func TestScoreFor(t *testing.T) {
	tests := map[string]struct {
		elapsed float64
		want    int
	}{
		"instant answer":                 {elapsed: 0, want: 10},
		"fast answer":                    {elapsed: 2, want: 10},
		"top tier boundary is inclusive": {elapsed: 3, want: 10},
		"just past top tier":             {elapsed: 3.01, want: 9},
		"second tier boundary":           {elapsed: 5, want: 9},
		"mid tier":                       {elapsed: 7, want: 8},
		"third tier boundary":            {elapsed: 10, want: 8},
		"fourth tier boundary":           {elapsed: 15, want: 7},
		"fifth tier boundary":            {elapsed: 20, want: 6},
		"slow answer gets base score":    {elapsed: 25, want: 5},
		"very slow answer":               {elapsed: 3600, want: 5},
		"negative elapsed":               {elapsed: -1, want: 5},
		"NaN elapsed":                    {elapsed: math.NaN(), want: 5},
		"infinite elapsed":               {elapsed: math.Inf(1), want: 5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.ScoreFor(tt.elapsed))
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := map[string]struct {
		correct int
		total   int
		want    int
	}{
		"all correct":          {correct: 10, total: 10, want: 100},
		"none correct":         {correct: 0, total: 10, want: 0},
		"half correct":         {correct: 5, total: 10, want: 50},
		"rounds to nearest":    {correct: 1, total: 3, want: 33},
		"rounds up":            {correct: 2, total: 3, want: 67},
		"zero total is not an error": {correct: 0, total: 0, want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.Accuracy(tt.correct, tt.total))
		})
	}
}

func TestElapsedSeconds(t *testing.T) {
	now := time.UnixMilli(100_000)

	assert.Equal(t, 0, game.ElapsedSeconds(0, now), "absent start yields 0")
	assert.Equal(t, 60, game.ElapsedSeconds(40_000, now))
	assert.Equal(t, 2, game.ElapsedSeconds(98_400, now), "rounds to nearest second")
	assert.Equal(t, 0, game.ElapsedSeconds(200_000, now), "start after now clamps to 0")
}

func TestShuffle(t *testing.T) {
	pool := makePool(t, 20, 0)

	original := append([]domain.Card(nil), pool...)
	shuffled := game.Shuffle(pool)

	require.Len(t, shuffled, len(pool))
	assert.Equal(t, original, pool, "input must not be mutated")
	assert.ElementsMatch(t, pool, shuffled, "output must be a permutation")

	assert.Empty(t, game.Shuffle(nil))
	assert.Len(t, game.Shuffle(pool[:1]), 1)
}

func TestSelectDeck(t *testing.T) {
	pool := makePool(t, 6, 4) // 6 old, 4 new

	tests := map[string]struct {
		mode    domain.Mode
		limit   int
		wantLen int
	}{
		"all cards, capped by limit":     {mode: domain.ModeAll, limit: 5, wantLen: 5},
		"all cards, pool smaller":        {mode: domain.ModeAll, limit: 100, wantLen: 10},
		"old only":                       {mode: domain.ModeOld, limit: 10, wantLen: 6},
		"new only":                       {mode: domain.ModeNew, limit: 10, wantLen: 4},
		"old capped":                     {mode: domain.ModeOld, limit: 3, wantLen: 3},
		"short deck is simply returned":  {mode: domain.ModeNew, limit: 9, wantLen: 4},
		"zero limit yields an empty set": {mode: domain.ModeAll, limit: 0, wantLen: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			deck := game.SelectDeck(pool, tt.mode, tt.limit)
			require.Len(t, deck, tt.wantLen)

			seen := make(map[int]bool)
			for _, c := range deck {
				assert.False(t, seen[c.ID], "card %d appears twice", c.ID)
				seen[c.ID] = true

				if tt.mode != domain.ModeAll {
					assert.Equal(t, tt.mode, c.Testament)
				}
			}
		})
	}
}

func makePool(t *testing.T, oldCount, newCount int) []domain.Card {
	t.Helper()

	var pool []domain.Card
	for i := 0; i < oldCount+newCount; i++ {
		testament := domain.ModeOld
		if i >= oldCount {
			testament = domain.ModeNew
		}

		pool = append(pool, domain.Card{
			ID:        i + 1,
			Testament: testament,
			Answer:    i % 2,
			Content: domain.CardContent{
				Verse:     "verse",
				Question:  "question",
				Options:   []string{"a", "b"},
				Reference: "ref",
			},
		})
	}

	return pool
}
