package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "versequiz_games_started_total",
		Help: "Games started, across all players.",
	})

	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "versequiz_games_finished_total",
		Help: "Games played through to the finished screen.",
	})

	// AnswersSubmitted counts answer submissions by outcome:
	// correct, wrong or timeout.
	AnswersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "versequiz_answers_total",
		Help: "Answers submitted, by outcome.",
	}, []string{"outcome"})
)
