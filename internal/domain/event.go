package domain

const (
	EventNameGameStarted     = "game.started"
	EventNameAnswerSubmitted = "answer.submitted"
	EventNameGameFinished    = "game.finished"
)

type EventGameStarted struct {
	PlayerName string
	Mode       Mode
	DeckSize   int
}

func (EventGameStarted) Name() string { return EventNameGameStarted }

// EventAnswerSubmitted is published once per answered card. Timeout implies
// an incorrect answer with no selection.
type EventAnswerSubmitted struct {
	CardID  int
	Correct bool
	Timeout bool
	Elapsed float64
}

func (EventAnswerSubmitted) Name() string { return EventNameAnswerSubmitted }

type EventGameFinished struct {
	Result GameResult
}

func (EventGameFinished) Name() string { return EventNameGameFinished }
