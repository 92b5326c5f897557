// Package game holds the pure rules of the trivia game: deck selection,
// time-based scoring and result aggregation. Everything here is deterministic
// in shape and free of side effects; the session service owns all state.
package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/verseapp/versequiz/internal/domain"
)

// scoreTiers maps answer time to points, evaluated top-down, first match
// wins. Upper bounds are inclusive: answering at exactly 5s scores 9.
var scoreTiers = []struct {
	limitSeconds float64
	points       int
}{
	{3, 10},
	{5, 9},
	{10, 8},
	{15, 7},
	{20, 6},
}

// baseScore is the floor for slow correct answers. Never award zero for a
// correct answer, however slow.
const baseScore = 5

// ScoreFor returns the points awarded for a correct answer submitted after
// the given elapsed time. Negative or non-finite input takes the base tier.
func ScoreFor(elapsedSeconds float64) int {
	if elapsedSeconds < 0 || math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) {
		return baseScore
	}

	for _, tier := range scoreTiers {
		if elapsedSeconds <= tier.limitSeconds {
			return tier.points
		}
	}

	return baseScore
}

// Shuffle returns a uniformly random permutation of cards using Fisher-Yates.
// The input slice is not mutated.
func Shuffle(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	copy(out, cards)

	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// SelectDeck filters pool by mode, shuffles the matches and returns at most
// limit cards. A filtered pool smaller than limit simply yields a shorter
// deck.
func SelectDeck(pool []domain.Card, mode domain.Mode, limit int) []domain.Card {
	var matched []domain.Card
	for _, c := range pool {
		if mode == domain.ModeAll || c.Testament == mode {
			matched = append(matched, c)
		}
	}

	deck := Shuffle(matched)
	if len(deck) > limit {
		deck = deck[:limit]
	}

	return deck
}

// Accuracy returns the percentage of correct answers rounded to the nearest
// integer. A zero total yields 0, not a division error.
func Accuracy(correctCount, totalCount int) int {
	if totalCount == 0 {
		return 0
	}

	return int(math.Round(float64(correctCount) / float64(totalCount) * 100))
}

// ElapsedSeconds returns the rounded number of seconds between a Unix
// millisecond start timestamp and now. A zero start yields 0.
func ElapsedSeconds(startMs int64, now time.Time) int {
	if startMs == 0 {
		return 0
	}

	secs := int(math.Round(float64(now.UnixMilli()-startMs) / 1000))
	if secs < 0 {
		return 0
	}

	return secs
}
