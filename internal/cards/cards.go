// Package cards ships the built-in trivia card pool.
package cards

import (
	"fmt"

	"github.com/verseapp/versequiz/internal/domain"
)

// Pool returns a copy of the built-in card pool so callers can't mutate the
// reference data.
func Pool() []domain.Card {
	out := make([]domain.Card, len(pool))
	copy(out, pool)
	return out
}

// Validate checks the structural invariants of a card pool: unique ids, at
// least two options per card, answer index in range, known testament tag.
func Validate(pool []domain.Card) error {
	seen := make(map[int]bool, len(pool))

	for _, c := range pool {
		if seen[c.ID] {
			return fmt.Errorf("cards: duplicate card id %d", c.ID)
		}
		seen[c.ID] = true

		if c.Testament != domain.ModeOld && c.Testament != domain.ModeNew {
			return fmt.Errorf("cards: card %d: unknown testament %q", c.ID, c.Testament)
		}
		if len(c.Content.Options) < 2 {
			return fmt.Errorf("cards: card %d: needs at least 2 options, has %d", c.ID, len(c.Content.Options))
		}
		if c.Answer < 0 || c.Answer >= len(c.Content.Options) {
			return fmt.Errorf("cards: card %d: answer index %d out of range", c.ID, c.Answer)
		}
	}

	return nil
}

var pool = []domain.Card{
	{
		ID:        1,
		Testament: domain.ModeNew,
		Answer:    0,
		Content: domain.CardContent{
			Verse:     "For God so loved the world that he gave his one and only Son, that whoever believes in him shall not perish but have eternal life.",
			Question:  "Where is this verse found?",
			Options:   []string{"John 3:16", "Matthew 5:3", "Psalm 23:1", "Romans 8:28"},
			Reference: "John 3:16",
		},
	},
	{
		ID:        2,
		Testament: domain.ModeOld,
		Answer:    1,
		Content: domain.CardContent{
			Verse:     "The Lord is my shepherd, I lack nothing.",
			Question:  "This is a Psalm of David, which one?",
			Options:   []string{"Psalm 1:1", "Psalm 23:1", "Psalm 119:105", "Psalm 91:1"},
			Reference: "Psalm 23:1",
		},
	},
	{
		ID:        3,
		Testament: domain.ModeOld,
		Answer:    3,
		Content: domain.CardContent{
			Verse:     "In the beginning God created the heavens and the earth.",
			Question:  "This is the first verse of the Bible, found in?",
			Options:   []string{"John 1:1", "Exodus 1:1", "Revelation 1:1", "Genesis 1:1"},
			Reference: "Genesis 1:1",
		},
	},
	{
		ID:        4,
		Testament: domain.ModeNew,
		Answer:    1,
		Content: domain.CardContent{
			Verse:     "I can do all this through him who gives me strength.",
			Question:  "Paul wrote this from prison, found in?",
			Options:   []string{"Ephesians 2:8", "Philippians 4:13", "Galatians 2:20", "Colossians 3:23"},
			Reference: "Philippians 4:13",
		},
	},
	{
		ID:        5,
		Testament: domain.ModeNew,
		Answer:    0,
		Content: domain.CardContent{
			Verse:     "And we know that in all things God works for the good of those who love him, who have been called according to his purpose.",
			Question:  "Often used to comfort believers, this is from?",
			Options:   []string{"Romans 8:28", "1 Corinthians 10:13", "James 1:2", "1 Peter 5:7"},
			Reference: "Romans 8:28",
		},
	},
	{
		ID:        6,
		Testament: domain.ModeOld,
		Answer:    1,
		Content: domain.CardContent{
			Verse:     "Trust in the Lord with all your heart and lean not on your own understanding; in all your ways submit to him, and he will make your paths straight.",
			Question:  "This proverb of wisdom is from?",
			Options:   []string{"Ecclesiastes 3:1", "Proverbs 3:5-6", "Job 42:2", "Psalm 37:5"},
			Reference: "Proverbs 3:5-6",
		},
	},
	{
		ID:        7,
		Testament: domain.ModeNew,
		Answer:    1,
		Content: domain.CardContent{
			Verse:     "Love is patient, love is kind. It does not envy, it does not boast, it is not proud.",
			Question:  "This famous 'Love Chapter' passage is from?",
			Options:   []string{"1 John 4:8", "1 Corinthians 13:4", "Mark 12:30", "Song of Solomon 8:7"},
			Reference: "1 Corinthians 13:4",
		},
	},
	{
		ID:        8,
		Testament: domain.ModeNew,
		Answer:    0,
		Content: domain.CardContent{
			Verse:     "But the fruit of the Spirit is love, joy, peace, forbearance, kindness, goodness, faithfulness, gentleness and self-control.",
			Question:  "This passage about the Fruit of the Spirit is from?",
			Options:   []string{"Galatians 5:22-23", "Ephesians 5:9", "Colossians 3:12", "Romans 12:2"},
			Reference: "Galatians 5:22-23",
		},
	},
	{
		ID:        9,
		Testament: domain.ModeOld,
		Answer:    2,
		Content: domain.CardContent{
			Verse:     "He has shown you, O mortal, what is good. And what does the Lord require of you? To act justly and to love mercy and to walk humbly with your God.",
			Question:  "This teaching from the Prophets is found in?",
			Options:   []string{"Isaiah 6:8", "Jeremiah 29:11", "Micah 6:8", "Amos 5:24"},
			Reference: "Micah 6:8",
		},
	},
	{
		ID:        10,
		Testament: domain.ModeNew,
		Answer:    1,
		Content: domain.CardContent{
			Verse:     "But seek first his kingdom and his righteousness, and all these things will be given to you as well.",
			Question:  "Jesus' teaching in the Sermon on the Mount, found in?",
			Options:   []string{"Luke 10:27", "Matthew 6:33", "Mark 8:36", "John 14:6"},
			Reference: "Matthew 6:33",
		},
	},
}
