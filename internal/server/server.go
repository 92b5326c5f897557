package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/verseapp/versequiz/internal/api"
	"github.com/verseapp/versequiz/internal/cards"
	"github.com/verseapp/versequiz/internal/domain"
	"github.com/verseapp/versequiz/internal/event"
	"github.com/verseapp/versequiz/internal/kv"
	"github.com/verseapp/versequiz/internal/record"
	"github.com/verseapp/versequiz/internal/session"
	"github.com/verseapp/versequiz/internal/storage"
	"github.com/verseapp/versequiz/internal/telemetry"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	Storage struct {
		// Driver selects the key-value backend: "redis" or "sqlite".
		Driver string
		Prefix string
	}

	Redis struct {
		Addrs []string
		Pass  string
	}

	SQLite struct {
		Path string
	}

	Postgres struct {
		// Records enables the shared remote leaderboard. When unset,
		// records stay in the key-value store.
		Records struct {
			Enabled bool
			Addr    string
			User    string
			Pass    string
			Name    string
		}
	}

	Game struct {
		CardsPerGame int
	}
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		kv       kv.Store
		sqlite   *kv.SQLite
		redis    redis.UniversalClient
		postgres *pgxpool.Pool
	}

	service struct {
		session *session.Service
		record  *record.Service
	}

	http *http.Server
}

func Init(c Config) (*Server, error) {
	s := &Server{c: c}

	s.eb = event.NewBus()

	pool := cards.Pool()
	if err := cards.Validate(pool); err != nil {
		return nil, fmt.Errorf("server: card pool: %w", err)
	}

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.initService(pool)
	s.initAPI()

	s.service.session.Restore(context.Background())

	return s, nil
}

func (s *Server) initInfra() error {
	switch s.c.Storage.Driver {
	case "", "sqlite":
		path := s.c.SQLite.Path
		if path == "" {
			path = "versequiz.db"
		}

		db, err := kv.OpenSQLite(path)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		s.infra.sqlite = db
		s.infra.kv = db

	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		r := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    s.c.Redis.Addrs,
			Password: s.c.Redis.Pass,
		})

		if err := telemetry.MonitorRedis(r); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		if err := r.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: ping: %w", err)
		}

		s.infra.redis = r
		s.infra.kv = kv.NewRedis(r)

	default:
		return fmt.Errorf("unknown storage driver %q", s.c.Storage.Driver)
	}

	if s.c.Postgres.Records.Enabled {
		if err := s.initPostgres(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	return nil
}

func (s *Server) initPostgres() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg := s.c.Postgres.Records
	cc, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s/%s", pg.User, pg.Pass, pg.Addr, pg.Name))
	if err != nil {
		return err
	}

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return err
	}

	if err := db.Ping(ctx); err != nil {
		return err
	}

	s.infra.postgres = db
	return nil
}

func (s *Server) initService(pool []domain.Card) {
	gateway := storage.NewGateway(storage.Config{
		KV:     s.infra.kv,
		Prefix: s.c.Storage.Prefix,
	})

	var records record.Store = gateway
	if s.infra.postgres != nil {
		records = record.NewPostgres(s.infra.postgres)
	}

	s.service.record = record.NewService(record.Config{
		EventBus: s.eb,
		Store:    records,
	})

	s.service.session = session.NewService(session.Config{
		Pool:         pool,
		Gateway:      gateway,
		EventBus:     s.eb,
		CardsPerGame: s.c.Game.CardsPerGame,
	})

	s.observeGameEvents()
}

func (s *Server) observeGameEvents() {
	s.eb.Subscribe(domain.EventNameGameStarted, func(ctx context.Context, e event.Event) error {
		telemetry.GamesStarted.Inc()
		return nil
	})

	s.eb.Subscribe(domain.EventNameGameFinished, func(ctx context.Context, e event.Event) error {
		telemetry.GamesFinished.Inc()
		return nil
	})

	s.eb.Subscribe(domain.EventNameAnswerSubmitted, func(ctx context.Context, e event.Event) error {
		a := e.(domain.EventAnswerSubmitted)
		switch {
		case a.Correct:
			telemetry.AnswersSubmitted.WithLabelValues("correct").Inc()
		case a.Timeout:
			telemetry.AnswersSubmitted.WithLabelValues("timeout").Inc()
		default:
			telemetry.AnswersSubmitted.WithLabelValues("wrong").Inc()
		}
		return nil
	})
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery())

	api.New(api.Config{
		Router:  e,
		Session: s.service.session,
		Record:  s.service.record,
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.eb.Stop()

	if s.infra.redis != nil {
		if err := s.infra.redis.Close(); err != nil {
			slog.ErrorContext(ctx, "server: close redis failed", "error", err)
		}
	}
	if s.infra.sqlite != nil {
		if err := s.infra.sqlite.Close(); err != nil {
			slog.ErrorContext(ctx, "server: close sqlite failed", "error", err)
		}
	}
	if s.infra.postgres != nil {
		s.infra.postgres.Close()
	}

	slog.InfoContext(ctx, "server: shutdown completed")
}
