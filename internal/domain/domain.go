package domain

import "time"

// Mode filters the card pool by testament when starting a game.
type Mode string

const (
	ModeAll Mode = "all"
	ModeOld Mode = "old"
	ModeNew Mode = "new"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m == ModeAll || m == ModeOld || m == ModeNew
}

// Phase is the lifecycle phase of a game session.
type Phase string

const (
	PhaseMenu     Phase = "menu"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Card is one immutable trivia card. Answer is a zero-based index into
// Content.Options.
type Card struct {
	ID        int         `json:"id"`
	Testament Mode        `json:"testament"`
	Answer    int         `json:"answer"`
	Content   CardContent `json:"content"`
}

type CardContent struct {
	Verse     string   `json:"verse"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Reference string   `json:"reference"`
}

// WrongAnswer records one incorrect submission. SelectedIndex is -1 when the
// card timed out with no answer.
type WrongAnswer struct {
	Card          Card    `json:"card"`
	SelectedIndex int     `json:"selected_index"`
	TimeElapsed   float64 `json:"time_elapsed"`
}

// Snapshot is the serializable form of an in-progress session, written on
// every mutation while playing so an interrupted session can resume.
// Timestamps are Unix milliseconds; zero means "not set".
type Snapshot struct {
	PlayerName    string        `json:"player_name"`
	Mode          Mode          `json:"game_mode"`
	CardIndex     int           `json:"current_card_index"`
	Score         int           `json:"score"`
	CorrectCount  int           `json:"correct_count"`
	SelectedIndex *int          `json:"selected_answer"`
	Answered      bool          `json:"answered"`
	Deck          []Card        `json:"game_cards"`
	GameStartMs   int64         `json:"game_start_time"`
	CardStartMs   int64         `json:"card_start_time"`
	CardTimes     []float64     `json:"card_times"`
	WrongAnswers  []WrongAnswer `json:"wrong_answers"`
}

// GameResult is the immutable outcome of one finished session. QuizTime is
// the whole-session duration in seconds, Accuracy a rounded percentage.
type GameResult struct {
	PlayerName     string        `json:"player_name"`
	Score          int           `json:"score"`
	QuizTime       int           `json:"quiz_time"`
	Mode           Mode          `json:"game_mode"`
	CorrectCount   int           `json:"correct_count"`
	TotalQuestions int           `json:"total_questions"`
	Accuracy       int           `json:"accuracy"`
	CardTimes      []float64     `json:"card_times"`
	WrongAnswers   []WrongAnswer `json:"wrong_answers"`
}

// LeaderboardRecord is a persisted GameResult with identity and a creation
// timestamp. Records are append-only; leaderboard views rank by score
// descending, ties broken by most recent CreatedAt.
type LeaderboardRecord struct {
	ID             string    `json:"id"`
	PlayerName     string    `json:"player_name"`
	Score          int       `json:"score"`
	QuizTime       int       `json:"quiz_time"`
	Mode           Mode      `json:"game_mode"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	Accuracy       int       `json:"accuracy"`
	CreatedAt      time.Time `json:"created_at"`
}
