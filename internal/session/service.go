// Package session owns the authoritative state of one game session and every
// mutation the UI can drive: start, answer, timeout, advance, reset. All
// mutations autosave through the persistence gateway so an interrupted
// session can resume exactly where it stopped.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/errors"
	"github.com/verseapp/versequiz/internal/event"
	"github.com/verseapp/versequiz/internal/game"
	"github.com/verseapp/versequiz/internal/storage"
)

const defaultCardsPerGame = 10

// timeoutIndex is the sentinel selected index recorded when a card times out
// with no answer.
const timeoutIndex = -1

type Config struct {
	Pool         []domain.Card
	Gateway      *storage.Gateway
	EventBus     *event.Bus
	CardsPerGame int
	// NowFunc overrides the clock, for tests.
	NowFunc func() time.Time
}

// Service is the single source of truth for one in-progress or just-finished
// session. Exactly one session is live per instance; mutations are
// serialized.
type Service struct {
	pool         []domain.Card
	gw           *storage.Gateway
	eb           *event.Bus
	cardsPerGame int
	now          func() time.Time

	mu           sync.Mutex
	phase        domain.Phase
	playerName   string
	mode         domain.Mode
	deck         []domain.Card
	cardIndex    int
	answered     bool
	selected     *int
	score        int
	correctCount int
	gameStartMs  int64
	cardStartMs  int64
	cardTimes    []float64
	wrongAnswers []domain.WrongAnswer
	result       *domain.GameResult
}

func NewService(c Config) *Service {
	s := &Service{
		pool:         c.Pool,
		gw:           c.Gateway,
		eb:           c.EventBus,
		cardsPerGame: c.CardsPerGame,
		now:          c.NowFunc,
		phase:        domain.PhaseMenu,
		mode:         domain.ModeAll,
	}

	if s.cardsPerGame <= 0 {
		s.cardsPerGame = defaultCardsPerGame
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// State is the read view the UI renders from.
type State struct {
	Phase    domain.Phase
	Snapshot domain.Snapshot
	Result   *domain.GameResult
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

// Restore rehydrates a previous session: a cached finished result wins, then
// an in-progress snapshot, otherwise the menu. Malformed persisted data is
// treated as no saved state.
func (s *Service) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.gw.LoadResult(ctx)
	if err != nil {
		slog.WarnContext(ctx, "session: unreadable saved result, ignoring", "error", err)
	}
	if result != nil {
		s.phase = domain.PhaseFinished
		s.playerName = result.PlayerName
		s.mode = result.Mode
		s.score = result.Score
		s.correctCount = result.CorrectCount
		s.cardTimes = append([]float64(nil), result.CardTimes...)
		s.wrongAnswers = append([]domain.WrongAnswer(nil), result.WrongAnswers...)
		s.result = result
		slog.InfoContext(ctx, "session: restored finished result", "player", result.PlayerName)
		return
	}

	snap, err := s.gw.LoadProgress(ctx)
	if err != nil {
		slog.WarnContext(ctx, "session: unreadable saved progress, ignoring", "error", err)
	}
	if snap == nil || len(snap.Deck) == 0 || snap.CardIndex > len(snap.Deck) {
		return
	}

	s.phase = domain.PhasePlaying
	s.playerName = snap.PlayerName
	s.mode = snap.Mode
	s.deck = snap.Deck
	s.cardIndex = snap.CardIndex
	s.answered = snap.Answered
	s.selected = snap.SelectedIndex
	s.score = snap.Score
	s.correctCount = snap.CorrectCount
	s.gameStartMs = snap.GameStartMs
	s.cardStartMs = snap.CardStartMs
	s.cardTimes = snap.CardTimes
	s.wrongAnswers = snap.WrongAnswers
	slog.InfoContext(ctx, "session: restored in-progress game",
		"player", snap.PlayerName,
		"card_index", snap.CardIndex,
	)
}

// StartGame clears any prior saved state, selects a fresh deck for the mode
// and moves to playing. A filtered pool smaller than the per-game card count
// yields a shorter deck; a mode with no cards at all fails.
func (s *Service) StartGame(ctx context.Context, playerName string, mode domain.Mode) (State, error) {
	if playerName == "" {
		return State{}, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("player name is required"))
	}
	if !mode.Valid() {
		return State{}, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("unknown game mode %q", mode))
	}

	deck := game.SelectDeck(s.pool, mode, s.cardsPerGame)
	if len(deck) == 0 {
		return State{}, errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("no cards available for mode %q", mode))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSaved(ctx)

	nowMs := s.now().UnixMilli()
	s.phase = domain.PhasePlaying
	s.playerName = playerName
	s.mode = mode
	s.deck = deck
	s.cardIndex = 0
	s.answered = false
	s.selected = nil
	s.score = 0
	s.correctCount = 0
	s.gameStartMs = nowMs
	s.cardStartMs = nowMs
	s.cardTimes = nil
	s.wrongAnswers = nil
	s.result = nil

	s.autosave(ctx)

	s.eb.Publish(ctx, domain.EventGameStarted{
		PlayerName: playerName,
		Mode:       mode,
		DeckSize:   len(s.deck),
	})

	return s.state(), nil
}

// SubmitAnswer records the selection for the current card, scores it against
// the elapsed time and logs a wrong answer when incorrect. Submitting again
// on an already-answered card is a no-op.
func (s *Service) SubmitAnswer(ctx context.Context, selectedIndex int) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submit(ctx, selectedIndex)
	return s.state()
}

// SubmitTimeout records the current card as unanswered when the display
// countdown ran out: a wrong answer with a sentinel selected index.
func (s *Service) SubmitTimeout(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submit(ctx, timeoutIndex)
	return s.state()
}

func (s *Service) submit(ctx context.Context, selectedIndex int) {
	if s.phase != domain.PhasePlaying || s.answered || s.cardIndex >= len(s.deck) {
		return
	}

	card := s.deck[s.cardIndex]

	var elapsed float64
	if s.cardStartMs != 0 {
		elapsed = float64(s.now().UnixMilli()-s.cardStartMs) / 1000
	}

	idx := selectedIndex
	s.selected = &idx
	s.answered = true
	s.cardTimes = append(s.cardTimes, elapsed)

	correct := selectedIndex == card.Answer
	if correct {
		s.score += game.ScoreFor(elapsed)
		s.correctCount++
	} else {
		s.wrongAnswers = append(s.wrongAnswers, domain.WrongAnswer{
			Card:          card,
			SelectedIndex: selectedIndex,
			TimeElapsed:   elapsed,
		})
	}

	s.autosave(ctx)

	s.eb.Publish(ctx, domain.EventAnswerSubmitted{
		CardID:  card.ID,
		Correct: correct,
		Timeout: selectedIndex == timeoutIndex,
		Elapsed: elapsed,
	})
}

// Advance moves to the next card, or finishes the game when the deck is
// exhausted. Advancing before the current card is answered is a no-op.
func (s *Service) Advance(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhasePlaying {
		return s.state()
	}
	if len(s.deck) > 0 && !s.answered {
		return s.state()
	}

	if s.cardIndex < len(s.deck)-1 {
		s.cardIndex++
		s.answered = false
		s.selected = nil
		s.cardStartMs = s.now().UnixMilli()
		s.autosave(ctx)
		return s.state()
	}

	s.finish(ctx)
	return s.state()
}

func (s *Service) finish(ctx context.Context) {
	result := domain.GameResult{
		PlayerName:     s.playerName,
		Score:          s.score,
		QuizTime:       game.ElapsedSeconds(s.gameStartMs, s.now()),
		Mode:           s.mode,
		CorrectCount:   s.correctCount,
		TotalQuestions: len(s.deck),
		Accuracy:       game.Accuracy(s.correctCount, len(s.deck)),
		CardTimes:      append([]float64(nil), s.cardTimes...),
		WrongAnswers:   append([]domain.WrongAnswer(nil), s.wrongAnswers...),
	}

	s.phase = domain.PhaseFinished
	s.result = &result

	if err := s.gw.ClearProgress(ctx); err != nil {
		slog.WarnContext(ctx, "session: clear progress failed", "error", err)
	}
	if err := s.gw.SaveResult(ctx, result); err != nil {
		slog.WarnContext(ctx, "session: save result failed", "error", err)
	}

	s.eb.Publish(ctx, domain.EventGameFinished{Result: result})
}

// Reset unconditionally discards all session state and saved snapshots and
// returns to the menu.
func (s *Service) Reset(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSaved(ctx)

	s.phase = domain.PhaseMenu
	s.playerName = ""
	s.mode = domain.ModeAll
	s.deck = nil
	s.cardIndex = 0
	s.answered = false
	s.selected = nil
	s.score = 0
	s.correctCount = 0
	s.gameStartMs = 0
	s.cardStartMs = 0
	s.cardTimes = nil
	s.wrongAnswers = nil
	s.result = nil

	return s.state()
}

func (s *Service) clearSaved(ctx context.Context) {
	if err := s.gw.ClearProgress(ctx); err != nil {
		slog.WarnContext(ctx, "session: clear progress failed", "error", err)
	}
	if err := s.gw.ClearResult(ctx); err != nil {
		slog.WarnContext(ctx, "session: clear result failed", "error", err)
	}
}

// autosave persists the current snapshot. A failed save only means a reload
// loses the latest state; it never interrupts the game.
func (s *Service) autosave(ctx context.Context) {
	if s.phase != domain.PhasePlaying || len(s.deck) == 0 {
		return
	}

	if err := s.gw.SaveProgress(ctx, s.snapshot()); err != nil {
		slog.WarnContext(ctx, "session: autosave failed", "error", err)
	}
}

func (s *Service) state() State {
	return State{
		Phase:    s.phase,
		Snapshot: s.snapshot(),
		Result:   s.result,
	}
}

func (s *Service) snapshot() domain.Snapshot {
	var selected *int
	if s.selected != nil {
		idx := *s.selected
		selected = &idx
	}

	return domain.Snapshot{
		PlayerName:    s.playerName,
		Mode:          s.mode,
		CardIndex:     s.cardIndex,
		Score:         s.score,
		CorrectCount:  s.correctCount,
		SelectedIndex: selected,
		Answered:      s.answered,
		Deck:          append([]domain.Card(nil), s.deck...),
		GameStartMs:   s.gameStartMs,
		CardStartMs:   s.cardStartMs,
		CardTimes:     append([]float64(nil), s.cardTimes...),
		WrongAnswers:  append([]domain.WrongAnswer(nil), s.wrongAnswers...),
	}
}
