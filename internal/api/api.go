// Package api exposes the game engine to the browser UI over REST. The UI
// owns all rendering and the countdown display; it calls advance only after
// it has observed an answered card.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/errors"
	"github.com/verseapp/versequiz/internal/record"
	"github.com/verseapp/versequiz/internal/session"
)

type Config struct {
	Router  gin.IRouter
	Session *session.Service
	Record  *record.Service
}

type API struct {
	gs *session.Service
	rs *record.Service
}

func New(c Config) *API {
	a := &API{
		gs: c.Session,
		rs: c.Record,
	}

	v1 := c.Router.Group("/v1")
	v1.GET("/game", a.GetGame)
	v1.POST("/game/start", a.StartGame)
	v1.POST("/game/answer", a.SubmitAnswer)
	v1.POST("/game/timeout", a.SubmitTimeout)
	v1.POST("/game/advance", a.Advance)
	v1.POST("/game/reset", a.Reset)
	v1.GET("/leaderboard", a.GetLeaderboard)
	v1.GET("/players/:name/records", a.GetPlayerRecords)

	return a
}

type StateResponse struct {
	Phase   domain.Phase       `json:"phase"`
	Session domain.Snapshot    `json:"session"`
	Result  *domain.GameResult `json:"result,omitempty"`
}

func stateResponse(s session.State) StateResponse {
	return StateResponse{
		Phase:   s.Phase,
		Session: s.Snapshot,
		Result:  s.Result,
	}
}

func (a *API) GetGame(c *gin.Context) {
	c.JSON(http.StatusOK, stateResponse(a.gs.State()))
}

type StartGameRequest struct {
	PlayerName string `json:"player_name"`
	GameMode   string `json:"game_mode"`
}

func (a *API) StartGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	mode := domain.Mode(req.GameMode)
	if req.GameMode == "" {
		mode = domain.ModeAll
	}

	state, err := a.gs.StartGame(c.Request.Context(), req.PlayerName, mode)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

type SubmitAnswerRequest struct {
	SelectedIndex int `json:"selected_index"`
}

func (a *API) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	state := a.gs.SubmitAnswer(c.Request.Context(), req.SelectedIndex)
	c.JSON(http.StatusOK, stateResponse(state))
}

func (a *API) SubmitTimeout(c *gin.Context) {
	state := a.gs.SubmitTimeout(c.Request.Context())
	c.JSON(http.StatusOK, stateResponse(state))
}

func (a *API) Advance(c *gin.Context) {
	state := a.gs.Advance(c.Request.Context())
	c.JSON(http.StatusOK, stateResponse(state))
}

func (a *API) Reset(c *gin.Context) {
	state := a.gs.Reset(c.Request.Context())
	c.JSON(http.StatusOK, stateResponse(state))
}

type LeaderboardResponse struct {
	Entries []domain.LeaderboardRecord `json:"entries"`
}

func (a *API) GetLeaderboard(c *gin.Context) {
	limit := 0
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("invalid limit %q", q)))
			return
		}
		limit = n
	}

	records, err := a.rs.GetLeaderboard(c.Request.Context(), record.GetLeaderboardRequest{
		Limit: limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, LeaderboardResponse{Entries: records})
}

func (a *API) GetPlayerRecords(c *gin.Context) {
	records, err := a.rs.GetPlayerRecords(c.Request.Context(), record.GetPlayerRecordsRequest{
		PlayerName: c.Param("name"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, LeaderboardResponse{Entries: records})
}

func writeError(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.JSON(e.HTTPStatusCode(), gin.H{"error": e})
}
