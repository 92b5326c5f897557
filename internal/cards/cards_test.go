package cards_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verseapp/versequiz/internal/cards"
	"github.com/verseapp/versequiz/internal/domain"
)

func TestBuiltinPool(t *testing.T) {
	pool := cards.Pool()

	require.NotEmpty(t, pool)
	require.NoError(t, cards.Validate(pool))

	var oldCount, newCount int
	for _, c := range pool {
		switch c.Testament {
		case domain.ModeOld:
			oldCount++
		case domain.ModeNew:
			newCount++
		}
	}
	assert.NotZero(t, oldCount, "pool needs old testament cards")
	assert.NotZero(t, newCount, "pool needs new testament cards")
}

func TestPoolReturnsCopy(t *testing.T) {
	a := cards.Pool()
	a[0].ID = -99

	b := cards.Pool()
	assert.NotEqual(t, -99, b[0].ID, "mutating a returned pool must not touch the reference data")
}

func TestValidate(t *testing.T) {
	valid := domain.Card{
		ID:        1,
		Testament: domain.ModeOld,
		Answer:    0,
		Content:   domain.CardContent{Options: []string{"a", "b"}},
	}

	tests := map[string]struct {
		mutate  func(c domain.Card) []domain.Card
		wantErr string
	}{
		"duplicate id": {
			mutate: func(c domain.Card) []domain.Card {
				return []domain.Card{c, c}
			},
			wantErr: "duplicate card id",
		},
		"answer out of range": {
			mutate: func(c domain.Card) []domain.Card {
				c.Answer = 2
				return []domain.Card{c}
			},
			wantErr: "out of range",
		},
		"negative answer": {
			mutate: func(c domain.Card) []domain.Card {
				c.Answer = -1
				return []domain.Card{c}
			},
			wantErr: "out of range",
		},
		"too few options": {
			mutate: func(c domain.Card) []domain.Card {
				c.Content.Options = []string{"a"}
				return []domain.Card{c}
			},
			wantErr: "at least 2 options",
		},
		"unknown testament": {
			mutate: func(c domain.Card) []domain.Card {
				c.Testament = "apocrypha"
				return []domain.Card{c}
			},
			wantErr: "unknown testament",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := cards.Validate(tt.mutate(valid))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
