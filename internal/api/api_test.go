package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verseapp/versequiz/internal/api"
	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/event"
	"github.com/verseapp/versequiz/internal/kv"
	"github.com/verseapp/versequiz/internal/record"
	"github.com/verseapp/versequiz/internal/session"
	"github.com/verseapp/versequiz/internal/storage"
)

func TestGameFlow(t *testing.T) {
	srv := makeServer(t)

	var state api.StateResponse
	status := srv.do(t, http.MethodGet, "/v1/game", nil, &state)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.PhaseMenu, state.Phase)

	status = srv.do(t, http.MethodPost, "/v1/game/start", api.StartGameRequest{
		PlayerName: "esther",
		GameMode:   "all",
	}, &state)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, domain.PhasePlaying, state.Phase)
	require.NotEmpty(t, state.Session.Deck)

	deck := state.Session.Deck
	for i, card := range deck {
		status = srv.do(t, http.MethodPost, "/v1/game/answer", api.SubmitAnswerRequest{
			SelectedIndex: card.Answer,
		}, &state)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, state.Session.Answered, "card %d", i)

		status = srv.do(t, http.MethodPost, "/v1/game/advance", nil, &state)
		require.Equal(t, http.StatusOK, status)
	}

	require.Equal(t, domain.PhaseFinished, state.Phase)
	require.NotNil(t, state.Result)
	assert.Equal(t, len(deck), state.Result.CorrectCount)
	assert.Equal(t, 100, state.Result.Accuracy)

	srv.bus.Stop()

	var lb api.LeaderboardResponse
	status = srv.do(t, http.MethodGet, "/v1/leaderboard", nil, &lb)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, "esther", lb.Entries[0].PlayerName)
	assert.Equal(t, state.Result.Score, lb.Entries[0].Score)

	status = srv.do(t, http.MethodGet, "/v1/players/esther/records", nil, &lb)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, lb.Entries, 1)

	status = srv.do(t, http.MethodPost, "/v1/game/reset", nil, &state)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.PhaseMenu, state.Phase)
}

func TestStartGame_BadRequest(t *testing.T) {
	srv := makeServer(t)

	var resp map[string]any
	status := srv.do(t, http.MethodPost, "/v1/game/start", api.StartGameRequest{
		PlayerName: "",
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = srv.do(t, http.MethodPost, "/v1/game/start", api.StartGameRequest{
		PlayerName: "esther",
		GameMode:   "apocrypha",
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetLeaderboard_BadLimit(t *testing.T) {
	srv := makeServer(t)

	var resp map[string]any
	status := srv.do(t, http.MethodGet, "/v1/leaderboard?limit=zero", nil, &resp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = srv.do(t, http.MethodGet, "/v1/leaderboard?limit=-1", nil, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
}

type server struct {
	engine *gin.Engine
	bus    *event.Bus
}

func (s *server) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
	}

	return w.Code
}

func makeServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{rs.Addr()},
	})
	require.NoError(t, rc.Ping(ctx).Err(), "should be able to ping redis")

	gateway := storage.NewGateway(storage.Config{
		KV:     kv.NewRedis(rc),
		Prefix: "test",
	})

	bus := event.NewBus()

	rec := record.NewService(record.Config{
		EventBus: bus,
		Store:    gateway,
	})

	gs := session.NewService(session.Config{
		Pool:     makePool(),
		Gateway:  gateway,
		EventBus: bus,
	})

	engine := gin.New()
	api.New(api.Config{
		Router:  engine,
		Session: gs,
		Record:  rec,
	})

	return &server{engine: engine, bus: bus}
}

func makePool() []domain.Card {
	var pool []domain.Card
	for i := 0; i < 5; i++ {
		testament := domain.ModeOld
		if i%2 == 1 {
			testament = domain.ModeNew
		}

		pool = append(pool, domain.Card{
			ID:        i + 1,
			Testament: testament,
			Answer:    i % 4,
			Content: domain.CardContent{
				Verse:     fmt.Sprintf("verse %d", i+1),
				Question:  "where is this found?",
				Options:   []string{"a", "b", "c", "d"},
				Reference: "ref",
			},
		})
	}

	return pool
}
