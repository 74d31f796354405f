package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// EngineFactory builds an engine with the server's generator and stores
// already bound; the options select or resume the session.
type EngineFactory func(opts ...application.EngineOption) (*application.Engine, error)

// Server exposes the session operations as JSON endpoints. It keeps one
// engine per session and resumes saved sessions on first use.
type Server struct {
	echo      *echo.Echo
	newEngine EngineFactory
	repo      ports.SessionRepository
	logger    *zap.Logger

	mu      sync.Mutex
	engines map[domain.SessionID]*application.Engine
}

func NewServer(newEngine EngineFactory, repo ports.SessionRepository, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Debug("request", fields...)
			return nil
		},
	}))

	s := &Server{
		echo:      e,
		newEngine: newEngine,
		repo:      repo,
		logger:    logger,
		engines:   map[domain.SessionID]*application.Engine{},
	}
	s.setupRoutes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	s.logger.Info("serving session api", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.POST("/sessions/:id/utterances", s.submitUtterance)
	api.POST("/sessions/:id/advance", s.advance)
	api.POST("/sessions/:id/finalize", s.finalize)
	api.POST("/sessions/:id/restart", s.restart)
}

func (s *Server) createSession(c echo.Context) error {
	engine, err := s.newEngine()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	s.mu.Lock()
	s.engines[engine.SessionID()] = engine
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, newSessionResponse(engine.View()))
}

func (s *Server) getSession(c echo.Context) error {
	engine, err := s.engine(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newSessionResponse(engine.View()))
}

func (s *Server) submitUtterance(c echo.Context) error {
	engine, err := s.engine(c)
	if err != nil {
		return err
	}

	req := new(utteranceRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome, err := engine.SubmitUtterance(c.Request().Context(), req.Text)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, newTurnResponse(outcome, engine.View()))
}

func (s *Server) advance(c echo.Context) error {
	return s.transition(c, (*application.Engine).AdvanceToNextDay)
}

func (s *Server) finalize(c echo.Context) error {
	return s.transition(c, (*application.Engine).FinalizeSession)
}

func (s *Server) restart(c echo.Context) error {
	return s.transition(c, (*application.Engine).RestartSession)
}

func (s *Server) transition(c echo.Context, apply func(*application.Engine, context.Context) error) error {
	engine, err := s.engine(c)
	if err != nil {
		return err
	}

	if err := apply(engine, c.Request().Context()); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, newSessionResponse(engine.View()))
}

// engine finds the live engine for the :id parameter, loading the session
// from the repository when it is not in memory yet.
func (s *Server) engine(c echo.Context) (*application.Engine, error) {
	id := domain.SessionID(c.Param("id"))
	if id == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "no session id provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.engines[id]; ok {
		return engine, nil
	}
	if s.repo == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, domain.ErrSessionNotFound.Error())
	}

	session, err := s.repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, httpError(err)
	}
	engine, err := s.newEngine(application.WithSession(session))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.engines[id] = engine

	return engine, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, application.ErrRequestInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrGeneration):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

const shutdownTimeout = 5 * time.Second

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
