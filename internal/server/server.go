package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"studentdir/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrNotStarted = errors.New("server not started")

// Server is an http.Server bound to its own listener.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger

	// OnExit, if set, is called when the accept loop stops for any reason other than Stop.
	OnExit func(error)

	lock     sync.Mutex
	listener net.Listener
	done     chan struct{}
}

func New(cfg config.ServerConfig, h http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           h,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          zap.NewStdLog(logger),
		},
		logger: logger,
	}
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.done = make(chan struct{})

	s.logger.Info("server listening", zap.Stringer("address", listener.Addr()))
	go s.serve(listener, s.done)
	return nil
}

func (s *Server) serve(listener net.Listener, done chan struct{}) {
	defer close(done)
	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return
	}

	s.logger.Error("server exited", zap.Error(err))
	if s.OnExit != nil {
		s.OnExit(err)
	}
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts the server down and waits for the accept loop to return.
func (s *Server) Stop(ctx context.Context) error {
	s.lock.Lock()
	done := s.done
	s.lock.Unlock()
	if done == nil {
		return ErrNotStarted
	}

	err := s.httpServer.Shutdown(ctx)
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	s.logger.Info("server stopped")
	return err
}

// Bind ties the server to the fx lifecycle. If the accept loop dies the whole app is shut down.
func Bind(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *Server) {
	s.OnExit = func(error) {
		_ = shutdowner.Shutdown()
	}
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}

// Module provides the router, handler and server for the configured profile.
var Module = fx.Options(
	fx.Provide(
		NewRoutes,
		NewRouter,
		NewHandler,
		New,
	),
	fx.Invoke(Bind),
)
